package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shinyyama/headshot-studio/internal/ai"
	"github.com/shinyyama/headshot-studio/internal/config"
	"github.com/shinyyama/headshot-studio/internal/repository"
	"github.com/shinyyama/headshot-studio/internal/server"
	"github.com/shinyyama/headshot-studio/internal/service"
	"github.com/shinyyama/headshot-studio/internal/upload"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := ai.NewGenAIClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("genai client init error: %v", err)
	}
	headshots := ai.NewHeadshotClient(client.Models, cfg.GeminiModel)
	svc := service.NewStudioService(
		repository.NewSessionRepository(),
		headshots,
		upload.NewValidator(cfg.MaxUploadBytes),
	)
	srv := server.New(svc, cfg)
	addr := ":" + cfg.Port

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("starting server on %s model=%s", addr, cfg.GeminiModel)
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Printf("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		if cfg.SessionIdle <= 0 {
			return nil
		}
		ticker := time.NewTicker(cfg.SweepInterval())
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := svc.ExpireIdle(gctx, cfg.SessionIdle); n > 0 {
					log.Printf("expired idle sessions count=%d", n)
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
