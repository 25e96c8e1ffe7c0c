package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/2507-aws-himawari/menkoverse-services/internal/apperr"
	"github.com/2507-aws-himawari/menkoverse-services/internal/gamesvc/engine"
	"github.com/2507-aws-himawari/menkoverse-services/internal/gamesvc/service"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	tokenAuth *jwtauth.JWTAuth
	engine    *engine.Engine
	decks     *service.DeckService
	catalog   *service.CatalogService
	users     *service.UserService
}

func NewHandler(eng *engine.Engine, decks *service.DeckService, catalog *service.CatalogService, users *service.UserService) *Handler {
	return &Handler{
		engine:  eng,
		decks:   decks,
		catalog: catalog,
		users:   users,
	}
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error,omitempty"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)

	json.NewEncoder(w).Encode(rsp)
}

// writeError maps business error codes to transport status codes. The
// engine itself never sees HTTP.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := httpStatus(apperr.Code(err))
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
	}

	h.CreateResponse(w, Response{
		Message: apperr.Message(err),
		Code:    status,
		Error:   apperr.Message(err),
	})
}

func httpStatus(code int) int {
	switch code {
	case apperr.CodeRoomNotFound,
		apperr.CodeDeckNotFound,
		apperr.CodeFollowerNotFound,
		apperr.CodeAttackerNotFound,
		apperr.CodeTargetNotFound:
		return http.StatusNotFound
	case apperr.CodeUnauthorized:
		return http.StatusForbidden
	case apperr.CodeInvalidState,
		apperr.CodeRoomFull,
		apperr.CodeNotEnoughPlayers,
		apperr.CodeDeckNotSelected,
		apperr.CodeNotYourTurn,
		apperr.CodeDeckReadOnly:
		return http.StatusConflict
	case apperr.CodeInsufficientPP,
		apperr.CodeInvalidCard,
		apperr.CodeBoardFull,
		apperr.CodeCannotAttack,
		apperr.CodeInvalidTarget,
		apperr.CodeDeckFull:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// identity reads the verified user id and name from the JWT claims.
func (h *Handler) identity(r *http.Request) (string, string, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", "", err
	}

	userID, _ := claims["user_id"].(string)
	name, _ := claims["name"].(string)
	if userID == "" {
		return "", "", apperr.ErrUnauthorized
	}
	return userID, name, nil
}

// decodeBody fills dst from the request body; an empty body leaves dst
// at its zero value.
func decodeBody(r *http.Request, dst interface{}) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	rsp := Response{
		Message: "game service is running at port " + os.Getenv("GAME_SERVICE_PORT"),
		Code:    200,
		Data:    nil,
	}
	json.NewEncoder(w).Encode(rsp)
}
