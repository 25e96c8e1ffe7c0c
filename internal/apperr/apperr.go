package apperr

import (
	"errors"
	"fmt"
)

// AppError is the business error type shared by the game services.
// Every engine operation either succeeds or fails with exactly one of
// the predefined errors below; the API layer translates codes to
// transport responses.
type AppError struct {
	Code    int
	Message string
	Err     error // wrapped cause, optional
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is match any AppError carrying the same code, so a
// wrapped predefined error still compares equal to its sentinel.
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if errors.As(target, &appErr) {
		return e.Code == appErr.Code
	}
	return false
}

func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap returns a copy of the error carrying the original cause.
func (e *AppError) Wrap(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// Code returns the error code, or CodeInternal for non-app errors.
func Code(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// Message returns the user-visible message for an error.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}

// Room lifecycle 20000-20999
const (
	CodeRoomNotFound     = 20001
	CodeInvalidState     = 20002
	CodeRoomFull         = 20003
	CodeNotEnoughPlayers = 20004
	CodeDeckNotSelected  = 20005
	CodeUnauthorized     = 20006
)

// Turn and resources 21000-21999
const (
	CodeNotYourTurn    = 21001
	CodeInsufficientPP = 21002
)

// Hand, board and combat 22000-22999
const (
	CodeInvalidCard      = 22001
	CodeBoardFull        = 22002
	CodeAttackerNotFound = 22003
	CodeCannotAttack     = 22004
	CodeTargetNotFound   = 22005
	CodeInvalidTarget    = 22006
)

// Deck registry 23000-23999
const (
	CodeDeckNotFound = 23001
	CodeDeckFull     = 23002
	CodeDeckReadOnly = 23003
)

// Catalog 24000-24999
const (
	CodeFollowerNotFound = 24001
)

// System 50000-50999
const (
	CodeInternal = 50001
)

var (
	ErrRoomNotFound     = New(CodeRoomNotFound, "room not found")
	ErrInvalidState     = New(CodeInvalidState, "operation not valid for current room status")
	ErrRoomFull         = New(CodeRoomFull, "room is full")
	ErrNotEnoughPlayers = New(CodeNotEnoughPlayers, "room needs two players")
	ErrDeckNotSelected  = New(CodeDeckNotSelected, "every player must select a deck first")
	ErrUnauthorized     = New(CodeUnauthorized, "not allowed for this user")
)

var (
	ErrNotYourTurn    = New(CodeNotYourTurn, "not your turn")
	ErrInsufficientPP = New(CodeInsufficientPP, "not enough pp")
)

var (
	ErrInvalidCard      = New(CodeInvalidCard, "card not found in hand")
	ErrBoardFull        = New(CodeBoardFull, "board is full")
	ErrAttackerNotFound = New(CodeAttackerNotFound, "attacker not found on board")
	ErrCannotAttack     = New(CodeCannotAttack, "follower cannot attack")
	ErrTargetNotFound   = New(CodeTargetNotFound, "target not found")
	ErrInvalidTarget    = New(CodeInvalidTarget, "cannot target your own side")
)

var (
	ErrDeckNotFound = New(CodeDeckNotFound, "deck not found")
	ErrDeckFull     = New(CodeDeckFull, "deck already has the maximum number of cards")
	ErrDeckReadOnly = New(CodeDeckReadOnly, "rental decks cannot be modified")
)

var (
	ErrFollowerNotFound = New(CodeFollowerNotFound, "follower not found")
)

var (
	ErrInternal = New(CodeInternal, "internal server error")
)
