package handlers

import (
	"net/http"

	"github.com/2507-aws-himawari/menkoverse-services/internal/gamesvc/models"
	"github.com/go-chi/chi"
)

func (h *Handler) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	userID, name, err := h.identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req struct {
		RoomID string `json:"roomId"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.CreateResponse(w, Response{Message: "invalid request body", Code: http.StatusBadRequest})
		return
	}

	// register the user on first contact
	if _, err := h.users.GetOrCreateUser(r.Context(), models.User{ID: userID, Name: name}); err != nil {
		h.writeError(w, err)
		return
	}

	room, err := h.engine.CreateRoom(r.Context(), req.RoomID, userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "room created", Code: http.StatusCreated, Data: room})
}

func (h *Handler) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")

	view, err := h.engine.GetRoomView(r.Context(), roomID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "room", Code: http.StatusOK, Data: view})
}

func (h *Handler) JoinRoomHandler(w http.ResponseWriter, r *http.Request) {
	userID, name, err := h.identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	roomID := chi.URLParam(r, "roomId")

	if _, err := h.users.GetOrCreateUser(r.Context(), models.User{ID: userID, Name: name}); err != nil {
		h.writeError(w, err)
		return
	}

	player, err := h.engine.JoinRoom(r.Context(), roomID, userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "joined", Code: http.StatusOK, Data: player})
}

func (h *Handler) SelectDeckHandler(w http.ResponseWriter, r *http.Request) {
	userID, _, err := h.identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	roomID := chi.URLParam(r, "roomId")

	var req struct {
		DeckID string `json:"deckId"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.CreateResponse(w, Response{Message: "invalid request body", Code: http.StatusBadRequest})
		return
	}

	player, err := h.engine.SelectDeck(r.Context(), roomID, userID, req.DeckID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "deck selected", Code: http.StatusOK, Data: player})
}

func (h *Handler) StartGameHandler(w http.ResponseWriter, r *http.Request) {
	userID, _, err := h.identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	roomID := chi.URLParam(r, "roomId")

	var req struct {
		Demo bool `json:"demo"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.CreateResponse(w, Response{Message: "invalid request body", Code: http.StatusBadRequest})
		return
	}

	room, err := h.engine.StartGame(r.Context(), roomID, userID, req.Demo)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "game started", Code: http.StatusOK, Data: room})
}

func (h *Handler) EndTurnHandler(w http.ResponseWriter, r *http.Request) {
	userID, _, err := h.identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	roomID := chi.URLParam(r, "roomId")

	room, err := h.engine.EndTurn(r.Context(), roomID, userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "turn ended", Code: http.StatusOK, Data: room})
}

func (h *Handler) ForceEndTurnHandler(w http.ResponseWriter, r *http.Request) {
	userID, _, err := h.identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	roomID := chi.URLParam(r, "roomId")

	room, err := h.engine.ForceEndOpponentTurn(r.Context(), roomID, userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "opponent turn ended", Code: http.StatusOK, Data: room})
}

func (h *Handler) ConsumePPHandler(w http.ResponseWriter, r *http.Request) {
	userID, _, err := h.identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	roomID := chi.URLParam(r, "roomId")

	var req struct {
		Cost int `json:"cost"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.CreateResponse(w, Response{Message: "invalid request body", Code: http.StatusBadRequest})
		return
	}

	player, err := h.engine.ConsumePP(r.Context(), roomID, userID, req.Cost)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "pp consumed", Code: http.StatusOK, Data: player})
}

func (h *Handler) SummonHandler(w http.ResponseWriter, r *http.Request) {
	userID, _, err := h.identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	roomID := chi.URLParam(r, "roomId")

	var req struct {
		HandCardID string `json:"handCardId"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.CreateResponse(w, Response{Message: "invalid request body", Code: http.StatusBadRequest})
		return
	}

	card, err := h.engine.SummonFollower(r.Context(), roomID, userID, req.HandCardID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "follower summoned", Code: http.StatusOK, Data: card})
}

func (h *Handler) AttackHandler(w http.ResponseWriter, r *http.Request) {
	userID, _, err := h.identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	roomID := chi.URLParam(r, "roomId")

	var req struct {
		AttackerBoardCardID string `json:"attackerBoardCardId"`
		TargetType          string `json:"targetType"`
		TargetID            string `json:"targetId"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.CreateResponse(w, Response{Message: "invalid request body", Code: http.StatusBadRequest})
		return
	}

	result, err := h.engine.AttackWithFollower(r.Context(), roomID, userID, req.AttackerBoardCardID, req.TargetType, req.TargetID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "attack resolved", Code: http.StatusOK, Data: result})
}

func (h *Handler) DamagePlayerHandler(w http.ResponseWriter, r *http.Request) {
	userID, _, err := h.identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	roomID := chi.URLParam(r, "roomId")

	var req struct {
		TargetUserID string `json:"targetUserId"`
		Damage       int    `json:"damage"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.CreateResponse(w, Response{Message: "invalid request body", Code: http.StatusBadRequest})
		return
	}

	player, err := h.engine.DamagePlayer(r.Context(), roomID, userID, req.TargetUserID, req.Damage)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "damage applied", Code: http.StatusOK, Data: player})
}
