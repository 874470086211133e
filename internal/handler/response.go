package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/headshot-studio/internal/ai"
	"github.com/shinyyama/headshot-studio/internal/repository"
	"github.com/shinyyama/headshot-studio/internal/service"
	"github.com/shinyyama/headshot-studio/internal/studio"
	"github.com/shinyyama/headshot-studio/internal/style"
)

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error errorPayload `json:"error"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: errorPayload{
			Code:    code,
			Message: message,
		},
	}
}

// writeError renders domain errors with the JSON error envelope.
// Generation failures never reach here; they live in the session state.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrSessionNotFound):
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "session not found"))
	case errors.Is(err, service.ErrNoResult):
		return c.JSON(http.StatusNotFound, NewErrorResponse("no_result", err.Error()))
	case errors.Is(err, ai.ErrInputRejected):
		return c.JSON(http.StatusBadRequest, NewErrorResponse(ai.Code(err), err.Error()))
	case errors.Is(err, style.ErrUnknownStyle):
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	case errors.Is(err, studio.ErrNoImage):
		return c.JSON(http.StatusConflict, NewErrorResponse("no_image", err.Error()))
	case errors.Is(err, studio.ErrBusy):
		return c.JSON(http.StatusConflict, NewErrorResponse("busy", err.Error()))
	case errors.Is(err, studio.ErrSuperseded):
		return c.JSON(http.StatusConflict, NewErrorResponse("superseded", err.Error()))
	default:
		c.Logger().Errorf("studio handler: %v", err)
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "internal error"))
	}
}
