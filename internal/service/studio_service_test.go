package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/shinyyama/headshot-studio/internal/ai"
	"github.com/shinyyama/headshot-studio/internal/genctx"
	"github.com/shinyyama/headshot-studio/internal/repository"
	"github.com/shinyyama/headshot-studio/internal/studio"
	"github.com/shinyyama/headshot-studio/internal/style"
	"github.com/shinyyama/headshot-studio/internal/upload"
)

type stubGenerator struct {
	image     string
	err       error
	sessionID string
}

func (g *stubGenerator) Generate(ctx context.Context, sourceImage, instruction string) (string, error) {
	g.sessionID = genctx.SessionID(ctx)
	return g.image, g.err
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func newTestService(gen ai.Generator) *studioService {
	return NewStudioService(repository.NewSessionRepository(), gen, upload.NewValidator(0)).(*studioService)
}

func TestStudioFlow(t *testing.T) {
	ctx := context.Background()
	gen := &stubGenerator{image: ai.ToDataURL("image/png", []byte("result"))}
	svc := newTestService(gen)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }

	sess, err := svc.CreateSession(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.UploadFile(ctx, sess.ID, pngBytes(t)); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if _, err := svc.SelectStyle(ctx, sess.ID, "studio"); err != nil {
		t.Fatalf("select: %v", err)
	}
	v, err := svc.Generate(ctx, sess.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if v.State.Status != studio.StatusSuccess {
		t.Fatalf("status=%s", v.State.Status)
	}
	if gen.sessionID != sess.ID {
		t.Fatalf("session id not propagated: %q", gen.sessionID)
	}

	d, err := svc.Download(ctx, sess.ID)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if d.Name != "headshot-studio-1700000000000.png" || d.MimeType != "image/png" || string(d.Data) != "result" {
		t.Fatalf("unexpected download: %+v", d)
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&stubGenerator{})
	sess, _ := svc.CreateSession(ctx)
	if _, err := svc.UploadFile(ctx, sess.ID, []byte("not an image")); !errors.Is(err, ai.ErrInputRejected) {
		t.Fatalf("err=%v", err)
	}
	if _, err := svc.UploadDataURL(ctx, sess.ID, "data:image/png;base64,bm90"); !errors.Is(err, ai.ErrInputRejected) {
		t.Fatalf("err=%v", err)
	}
	v, _ := svc.Get(ctx, sess.ID)
	if v.State.OriginalImage != "" {
		t.Fatal("rejected upload must not change state")
	}
}

func TestDownloadWithoutResult(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&stubGenerator{err: ai.ErrNoOutputProduced})
	sess, _ := svc.CreateSession(ctx)
	if _, err := svc.Download(ctx, sess.ID); !errors.Is(err, ErrNoResult) {
		t.Fatalf("err=%v", err)
	}
	svc.UploadFile(ctx, sess.ID, pngBytes(t))
	v, _ := svc.Generate(ctx, sess.ID)
	if v.State.Status != studio.StatusError {
		t.Fatalf("status=%s", v.State.Status)
	}
	if _, err := svc.Download(ctx, sess.ID); !errors.Is(err, ErrNoResult) {
		t.Fatalf("err=%v", err)
	}
}

func TestUnknownSession(t *testing.T) {
	svc := newTestService(&stubGenerator{})
	if _, err := svc.Generate(context.Background(), "00000000-0000-0000-0000-000000000000"); !errors.Is(err, repository.ErrSessionNotFound) {
		t.Fatalf("err=%v", err)
	}
}

func TestSelectStyleErrors(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&stubGenerator{})
	sess, _ := svc.CreateSession(ctx)
	v, err := svc.SelectStyle(ctx, sess.ID, "vintage")
	if !errors.Is(err, style.ErrUnknownStyle) {
		t.Fatalf("err=%v", err)
	}
	if v.State.StyleID != style.Default {
		t.Fatalf("style=%s", v.State.StyleID)
	}
}

func TestStylesCatalog(t *testing.T) {
	styles := newTestService(&stubGenerator{}).Styles()
	if len(styles) != 5 || !strings.EqualFold(string(styles[4].ID), "custom") {
		t.Fatalf("unexpected catalog: %+v", styles)
	}
}

func TestExpireIdle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&stubGenerator{})
	sess, _ := svc.CreateSession(ctx)
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if n := svc.ExpireIdle(ctx, time.Hour); n != 1 {
		t.Fatalf("expired=%d want=1", n)
	}
	if _, err := svc.Get(ctx, sess.ID); !errors.Is(err, repository.ErrSessionNotFound) {
		t.Fatalf("err=%v", err)
	}
	if n := svc.ExpireIdle(ctx, 0); n != 0 {
		t.Fatalf("expired=%d want=0", n)
	}
}

func TestMaxUploadBytesFollowsValidator(t *testing.T) {
	svc := NewStudioService(repository.NewSessionRepository(), nil, upload.NewValidator(1024))
	if got := svc.MaxUploadBytes(); got != 1024 {
		t.Fatalf("got=%d want=1024", got)
	}
	if got := NewStudioService(repository.NewSessionRepository(), nil, nil).MaxUploadBytes(); got != upload.DefaultMaxBytes {
		t.Fatalf("got=%d want=%d", got, upload.DefaultMaxBytes)
	}
}
