package handler

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/headshot-studio/internal/ai"
	"github.com/shinyyama/headshot-studio/internal/genctx"
	"github.com/shinyyama/headshot-studio/internal/service"
	"github.com/shinyyama/headshot-studio/internal/studio"
	"github.com/shinyyama/headshot-studio/internal/style"
)

type StudioHandler struct {
	svc service.StudioService
}

func NewStudioHandler(svc service.StudioService) *StudioHandler {
	return &StudioHandler{svc: svc}
}

type SessionResponse struct {
	ID string `json:"id"`
	studio.State
}

type StyleListResponse struct {
	Styles []style.Option `json:"styles"`
}

type uploadRequest struct {
	Image string `json:"image"`
}

type selectStyleRequest struct {
	StyleID string `json:"styleId"`
}

type customTextRequest struct {
	Text string `json:"text"`
}

func (h *StudioHandler) ListStyles(c echo.Context) error {
	return c.JSON(http.StatusOK, StyleListResponse{Styles: h.svc.Styles()})
}

func (h *StudioHandler) CreateSession(c echo.Context) error {
	v, err := h.svc.CreateSession(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toSessionResponse(v))
}

func (h *StudioHandler) GetSession(c echo.Context) error {
	v, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResponse(v))
}

func (h *StudioHandler) DeleteSession(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Upload accepts either a multipart "image" file or a JSON data URL.
func (h *StudioHandler) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	ctype := c.Request().Header.Get(echo.HeaderContentType)

	var (
		v   *service.SessionView
		err error
	)
	if strings.HasPrefix(ctype, echo.MIMEMultipartForm) {
		data, readErr := h.readFormImage(c)
		if readErr != nil {
			return writeError(c, readErr)
		}
		v, err = h.svc.UploadFile(ctx, id, data)
	} else {
		var req uploadRequest
		if bindErr := c.Bind(&req); bindErr != nil {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
		}
		if strings.TrimSpace(req.Image) == "" {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "image is required"))
		}
		v, err = h.svc.UploadDataURL(ctx, id, req.Image)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResponse(v))
}

func (h *StudioHandler) readFormImage(c echo.Context) ([]byte, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, fmt.Errorf("%w: missing image file", ai.ErrInputRejected)
	}
	return readFileHeader(fh, h.svc.MaxUploadBytes())
}

func readFileHeader(fh *multipart.FileHeader, max int64) ([]byte, error) {
	if fh.Size > max {
		return nil, fmt.Errorf("%w: file is too large (max %d bytes)", ai.ErrInputRejected, max)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable image file: %v", ai.ErrInputRejected, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (h *StudioHandler) Clear(c echo.Context) error {
	v, err := h.svc.Clear(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResponse(v))
}

func (h *StudioHandler) SelectStyle(c echo.Context) error {
	var req selectStyleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	v, err := h.svc.SelectStyle(c.Request().Context(), c.Param("id"), req.StyleID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResponse(v))
}

func (h *StudioHandler) SetCustomText(c echo.Context) error {
	var req customTextRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	v, err := h.svc.SetCustomText(c.Request().Context(), c.Param("id"), req.Text)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResponse(v))
}

// Generate blocks until the model answers. The call is detached from the
// request so a dropped connection does not cancel it.
func (h *StudioHandler) Generate(c echo.Context) error {
	ctx := context.WithoutCancel(c.Request().Context())
	ctx = genctx.WithRID(ctx, c.Response().Header().Get(echo.HeaderXRequestID))
	v, err := h.svc.Generate(ctx, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResponse(v))
}

func (h *StudioHandler) Download(c echo.Context) error {
	d, err := h.svc.Download(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", d.Name))
	return c.Blob(http.StatusOK, d.MimeType, d.Data)
}

func toSessionResponse(v *service.SessionView) SessionResponse {
	return SessionResponse{ID: v.ID, State: v.State}
}
