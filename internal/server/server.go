package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shinyyama/headshot-studio/internal/config"
	"github.com/shinyyama/headshot-studio/internal/handler"
	"github.com/shinyyama/headshot-studio/internal/service"
)

type Server struct {
	e     *echo.Echo
	sha   string
	build string
}

func New(svc service.StudioService, cfg *config.Config) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	// base64 JSON uploads are about 4/3 of the file size
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dK", cfg.MaxUploadBytes*2/1024+64)))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type"},
		ExposeHeaders:    []string{echo.HeaderContentDisposition, echo.HeaderXRequestID},
		AllowCredentials: true,
		AllowOriginFunc:  allowOrigin(cfg.CORSAllowedSuffix),
	}))

	s := &Server{e: e, sha: cfg.BuildSHA, build: cfg.BuildTime}
	studioHandler := handler.NewStudioHandler(svc)

	e.GET("/healthz", s.healthz)

	api := e.Group("/api")
	api.GET("/styles", studioHandler.ListStyles)
	api.POST("/sessions", studioHandler.CreateSession)
	api.GET("/sessions/:id", studioHandler.GetSession)
	api.DELETE("/sessions/:id", studioHandler.DeleteSession)
	api.POST("/sessions/:id/image", studioHandler.Upload)
	api.DELETE("/sessions/:id/image", studioHandler.Clear)
	api.PUT("/sessions/:id/style", studioHandler.SelectStyle)
	api.PUT("/sessions/:id/custom-text", studioHandler.SetCustomText)
	api.POST("/sessions/:id/generate", studioHandler.Generate)
	api.GET("/sessions/:id/download", studioHandler.Download)

	return s
}

func (s *Server) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"ok":         "true",
		"git_sha":    s.sha,
		"build_time": s.build,
	})
}

func (s *Server) Handler() http.Handler {
	return s.e
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

func allowOrigin(suffix string) func(origin string) (bool, error) {
	suffix = strings.ToLower(strings.TrimSpace(suffix))
	return func(origin string) (bool, error) {
		low := strings.ToLower(origin)
		if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
			strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
			return true, nil
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false, nil
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return false, nil
		}
		if suffix != "" && strings.HasSuffix(strings.ToLower(u.Hostname()), suffix) {
			return true, nil
		}
		return false, nil
	}
}
