package handlers

import (
	"net/http"

	"github.com/go-chi/chi"
)

func (h *Handler) ListFollowersHandler(w http.ResponseWriter, r *http.Request) {
	followers, err := h.catalog.ListFollowers(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "followers", Code: http.StatusOK, Data: followers})
}

func (h *Handler) GetFollowerHandler(w http.ResponseWriter, r *http.Request) {
	followerID := chi.URLParam(r, "followerId")

	follower, err := h.catalog.GetFollower(r.Context(), followerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "follower", Code: http.StatusOK, Data: follower})
}
