package handlers

import (
	"net/http"

	"github.com/go-chi/chi"
)

func (h *Handler) ListDecksHandler(w http.ResponseWriter, r *http.Request) {
	userID, _, err := h.identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	decks, err := h.decks.ListDecks(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "decks", Code: http.StatusOK, Data: decks})
}

func (h *Handler) GetDeckHandler(w http.ResponseWriter, r *http.Request) {
	userID, _, err := h.identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	deckID := chi.URLParam(r, "deckId")

	deck, err := h.decks.GetDeck(r.Context(), userID, deckID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	cards, err := h.decks.GetComposition(r.Context(), userID, deckID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "deck", Code: http.StatusOK, Data: map[string]interface{}{
		"deck":  deck,
		"cards": cards,
	}})
}

func (h *Handler) CreateDeckHandler(w http.ResponseWriter, r *http.Request) {
	userID, _, err := h.identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &req); err != nil || req.Name == "" {
		h.CreateResponse(w, Response{Message: "deck name is required", Code: http.StatusBadRequest})
		return
	}

	deck, err := h.decks.CreateDeck(r.Context(), userID, req.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "deck created", Code: http.StatusCreated, Data: deck})
}

func (h *Handler) RenameDeckHandler(w http.ResponseWriter, r *http.Request) {
	userID, _, err := h.identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	deckID := chi.URLParam(r, "deckId")

	var req struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &req); err != nil || req.Name == "" {
		h.CreateResponse(w, Response{Message: "deck name is required", Code: http.StatusBadRequest})
		return
	}

	if err := h.decks.RenameDeck(r.Context(), userID, deckID, req.Name); err != nil {
		h.writeError(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "deck renamed", Code: http.StatusOK})
}

func (h *Handler) DeleteDeckHandler(w http.ResponseWriter, r *http.Request) {
	userID, _, err := h.identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	deckID := chi.URLParam(r, "deckId")

	if err := h.decks.DeleteDeck(r.Context(), userID, deckID); err != nil {
		h.writeError(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "deck deleted", Code: http.StatusOK})
}

func (h *Handler) AddDeckCardHandler(w http.ResponseWriter, r *http.Request) {
	userID, _, err := h.identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	deckID := chi.URLParam(r, "deckId")

	var req struct {
		FollowerID string `json:"followerId"`
	}
	if err := decodeBody(r, &req); err != nil || req.FollowerID == "" {
		h.CreateResponse(w, Response{Message: "followerId is required", Code: http.StatusBadRequest})
		return
	}

	card, err := h.decks.AddCard(r.Context(), userID, deckID, req.FollowerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "card added", Code: http.StatusCreated, Data: card})
}

func (h *Handler) RemoveDeckCardHandler(w http.ResponseWriter, r *http.Request) {
	userID, _, err := h.identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	deckID := chi.URLParam(r, "deckId")
	cardID := chi.URLParam(r, "cardId")

	if err := h.decks.RemoveCard(r.Context(), userID, deckID, cardID); err != nil {
		h.writeError(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "card removed", Code: http.StatusOK})
}
