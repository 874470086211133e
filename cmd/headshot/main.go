package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"github.com/shinyyama/headshot-studio/internal/ai"
	"github.com/shinyyama/headshot-studio/internal/genctx"
	"github.com/shinyyama/headshot-studio/internal/studio"
	"github.com/shinyyama/headshot-studio/internal/upload"
)

type Config struct {
	GeminiAPIKey   string `env:"GEMINI_API_KEY,required"`
	GeminiModel    string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash-image"`
	InputPath      string `env:"INPUT_PATH,required"`
	StyleID        string `env:"STYLE_ID" envDefault:"corporate"`
	CustomText     string `env:"CUSTOM_TEXT"`
	OutputDir      string `env:"OUTPUT_DIR" envDefault:"."`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"4194304"`
}

func main() {
	_ = godotenv.Load()
	ctx := context.Background()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to parse env: %v", err)
	}

	client, err := ai.NewGenAIClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("failed to init genai: %v", err)
	}

	path, err := run(ctx, cfg, ai.NewHeadshotClient(client.Models, cfg.GeminiModel), time.Now)
	if err != nil {
		log.Fatalf("headshot failed: %v", err)
	}
	log.Printf("headshot written to %s", path)
}

// run performs one upload → style → generate → download pass and returns the written file path.
func run(ctx context.Context, cfg Config, gen ai.Generator, now func() time.Time) (string, error) {
	raw, err := os.ReadFile(cfg.InputPath)
	if err != nil {
		return "", err
	}
	image, err := upload.NewValidator(cfg.MaxUploadBytes).Accept(raw)
	if err != nil {
		return "", err
	}

	ctrl := studio.NewController(gen)
	ctrl.Upload(image)
	if _, err := ctrl.SelectStyle(cfg.StyleID); err != nil {
		return "", fmt.Errorf("style %q: %w", cfg.StyleID, err)
	}
	if _, err := ctrl.SetCustomText(cfg.CustomText); err != nil {
		return "", err
	}
	log.Printf("processing style=%s input=%s", cfg.StyleID, cfg.InputPath)

	state, err := ctrl.Generate(genctx.WithRID(ctx, filepath.Base(cfg.InputPath)))
	if err != nil {
		return "", err
	}
	if state.Status != studio.StatusSuccess || state.Result == nil {
		return "", errors.New(state.ErrorMessage)
	}

	mimeType, data, err := ai.DecodeDataURL(state.Result.GeneratedImage)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return "", err
	}
	out := filepath.Join(cfg.OutputDir, studio.DownloadName(state.Result.StyleID, mimeType, now()))
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return "", err
	}
	return out, nil
}
