package handlers

import (
	"os"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) SetRoutes(r *chi.Mux) {
	r.Route("/v1", func(r chi.Router) {

		r.Get("/health", h.HealthHandler)

		// Secure routes
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(h.tokenAuth))
			r.Use(jwtauth.Authenticator)

			r.Route("/rooms", func(r chi.Router) {
				r.Post("/", h.CreateRoomHandler)
				r.Get("/{roomId}", h.GetRoomHandler)
				r.Post("/{roomId}/join", h.JoinRoomHandler)
				r.Post("/{roomId}/deck", h.SelectDeckHandler)
				r.Post("/{roomId}/start", h.StartGameHandler)
				r.Post("/{roomId}/end-turn", h.EndTurnHandler)
				r.Post("/{roomId}/force-end-turn", h.ForceEndTurnHandler)
				r.Post("/{roomId}/consume-pp", h.ConsumePPHandler)
				r.Post("/{roomId}/summon", h.SummonHandler)
				r.Post("/{roomId}/attack", h.AttackHandler)
				r.Post("/{roomId}/damage", h.DamagePlayerHandler)
			})

			r.Route("/decks", func(r chi.Router) {
				r.Get("/", h.ListDecksHandler)
				r.Post("/", h.CreateDeckHandler)
				r.Get("/{deckId}", h.GetDeckHandler)
				r.Patch("/{deckId}", h.RenameDeckHandler)
				r.Delete("/{deckId}", h.DeleteDeckHandler)
				r.Post("/{deckId}/cards", h.AddDeckCardHandler)
				r.Delete("/{deckId}/cards/{cardId}", h.RemoveDeckCardHandler)
			})

			r.Route("/followers", func(r chi.Router) {
				r.Get("/", h.ListFollowersHandler)
				r.Get("/{followerId}", h.GetFollowerHandler)
			})
		})
	})
}

func (h *Handler) InitAuth() {
	var jwtKey = os.Getenv("JWT_SECRET_KEY")
	h.tokenAuth = jwtauth.New("HS256", []byte(jwtKey), nil)

	expirationTime := time.Now().Add(7 * 24 * time.Hour).Unix()

	_, tokenString, _ := h.tokenAuth.Encode(map[string]interface{}{
		"user_id": "local-dev",
		"name":    "local dev",
		"exp":     expirationTime,
	})

	// For debugging only, comment it out in production
	log.Infof("DEBUG: JWT for testing expires soon : %s", tokenString)
}
