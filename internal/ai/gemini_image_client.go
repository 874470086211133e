package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shinyyama/headshot-studio/internal/genctx"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash-image"

// ContentGenerator is the subset of *genai.Models used by HeadshotClient.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator turns a source image and an instruction into an edited image.
type Generator interface {
	Generate(ctx context.Context, sourceImage, instruction string) (string, error)
}

type HeadshotClient struct {
	models ContentGenerator
	model  string
}

func NewHeadshotClient(models ContentGenerator, model string) *HeadshotClient {
	if model == "" {
		model = DefaultModel
	}
	return &HeadshotClient{models: models, model: model}
}

// NewGenAIClient builds a Gemini API backed genai client.
func NewGenAIClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}

// Generate edits sourceImage (data URL or raw base64) into a headshot and
// returns the result as a data URL. It issues exactly one model call.
func (c *HeadshotClient) Generate(ctx context.Context, sourceImage, instruction string) (string, error) {
	if c == nil || c.models == nil {
		return "", fmt.Errorf("%w: gemini client is nil", ErrTransportFailure)
	}
	rid := genctx.RID(ctx)
	sid := genctx.SessionID(ctx)

	contents, err := buildContents(sourceImage, instruction)
	if err != nil {
		log.Printf("[headshot] rid=%s session=%s stage=input_fail err=%v", rid, sid, err)
		return "", err
	}

	start := time.Now()
	log.Printf("[headshot] rid=%s session=%s stage=gemini_start model=%s", rid, sid, c.model)
	res, err := c.models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	})
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		log.Printf("[headshot] rid=%s session=%s stage=gemini_fail model=%s genMs=%d err=%v", rid, sid, c.model, elapsed, err)
		return "", fmt.Errorf("%w: %v", ErrTransportFailure, err)
	}
	log.Printf("[headshot] rid=%s session=%s stage=gemini_done model=%s genMs=%d", rid, sid, c.model, elapsed)

	image, err := interpretResponse(res)
	if err != nil {
		log.Printf("[headshot] rid=%s session=%s stage=parse_fail err=%q", rid, sid, truncate(err.Error(), 200))
		return "", err
	}
	log.Printf("[headshot] rid=%s session=%s stage=parse_ok len=%d", rid, sid, len(image))
	return image, nil
}

func buildContents(sourceImage, instruction string) ([]*genai.Content, error) {
	mimeType, data, err := DecodeDataURL(sourceImage)
	if err != nil {
		return nil, err
	}
	parts := []*genai.Part{
		genai.NewPartFromText(ComposePrompt(instruction)),
		{
			InlineData: &genai.Blob{
				MIMEType: mimeType,
				Data:     data,
			},
		},
	}
	return []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}, nil
}

// interpretResponse prefers the first inline image, then the first text part.
func interpretResponse(res *genai.GenerateContentResponse) (string, error) {
	if res == nil {
		return "", ErrNoOutputProduced
	}
	refusal := ""
	for _, cand := range res.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil {
				continue
			}
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return ToDataURL(part.InlineData.MIMEType, part.InlineData.Data), nil
			}
			if refusal == "" && strings.TrimSpace(part.Text) != "" {
				refusal = part.Text
			}
		}
	}
	if refusal != "" {
		return "", fmt.Errorf("%w: %s", ErrModelRefused, refusal)
	}
	return "", ErrNoOutputProduced
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
