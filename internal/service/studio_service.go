package service

import (
	"context"
	"errors"
	"time"

	"github.com/shinyyama/headshot-studio/internal/ai"
	"github.com/shinyyama/headshot-studio/internal/genctx"
	"github.com/shinyyama/headshot-studio/internal/repository"
	"github.com/shinyyama/headshot-studio/internal/studio"
	"github.com/shinyyama/headshot-studio/internal/style"
	"github.com/shinyyama/headshot-studio/internal/upload"
)

var ErrNoResult = errors.New("no generated image")

type Download struct {
	Name     string
	MimeType string
	Data     []byte
}

type SessionView struct {
	ID    string
	State studio.State
}

type StudioService interface {
	Styles() []style.Option
	MaxUploadBytes() int64
	CreateSession(ctx context.Context) (*SessionView, error)
	Get(ctx context.Context, id string) (*SessionView, error)
	Delete(ctx context.Context, id string) error
	UploadFile(ctx context.Context, id string, data []byte) (*SessionView, error)
	UploadDataURL(ctx context.Context, id, value string) (*SessionView, error)
	Clear(ctx context.Context, id string) (*SessionView, error)
	SelectStyle(ctx context.Context, id, styleID string) (*SessionView, error)
	SetCustomText(ctx context.Context, id, text string) (*SessionView, error)
	Generate(ctx context.Context, id string) (*SessionView, error)
	Download(ctx context.Context, id string) (*Download, error)
	ExpireIdle(ctx context.Context, maxIdle time.Duration) int
}

type studioService struct {
	repo      repository.SessionRepository
	gen       ai.Generator
	validator *upload.Validator
	now       func() time.Time
}

func NewStudioService(repo repository.SessionRepository, gen ai.Generator, validator *upload.Validator) StudioService {
	if validator == nil {
		validator = upload.NewValidator(0)
	}
	return &studioService{repo: repo, gen: gen, validator: validator, now: time.Now}
}

func (s *studioService) Styles() []style.Option {
	return style.Catalog()
}

func (s *studioService) MaxUploadBytes() int64 {
	return s.validator.MaxBytes()
}

func (s *studioService) CreateSession(ctx context.Context) (*SessionView, error) {
	sess, err := s.repo.Create(ctx, studio.NewController(s.gen))
	if err != nil {
		return nil, err
	}
	return view(sess.ID, sess.Controller.Snapshot()), nil
}

func (s *studioService) Get(ctx context.Context, id string) (*SessionView, error) {
	sess, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return view(sess.ID, sess.Controller.Snapshot()), nil
}

func (s *studioService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *studioService) UploadFile(ctx context.Context, id string, data []byte) (*SessionView, error) {
	sess, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	image, err := s.validator.Accept(data)
	if err != nil {
		return nil, err
	}
	return view(sess.ID, sess.Controller.Upload(image)), nil
}

func (s *studioService) UploadDataURL(ctx context.Context, id, value string) (*SessionView, error) {
	sess, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	image, err := s.validator.AcceptDataURL(value)
	if err != nil {
		return nil, err
	}
	return view(sess.ID, sess.Controller.Upload(image)), nil
}

func (s *studioService) Clear(ctx context.Context, id string) (*SessionView, error) {
	sess, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return view(sess.ID, sess.Controller.Clear()), nil
}

func (s *studioService) SelectStyle(ctx context.Context, id, styleID string) (*SessionView, error) {
	sess, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	state, err := sess.Controller.SelectStyle(styleID)
	return view(sess.ID, state), err
}

func (s *studioService) SetCustomText(ctx context.Context, id, text string) (*SessionView, error) {
	sess, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	state, err := sess.Controller.SetCustomText(text)
	return view(sess.ID, state), err
}

func (s *studioService) Generate(ctx context.Context, id string) (*SessionView, error) {
	sess, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	state, err := sess.Controller.Generate(genctx.WithSessionID(ctx, sess.ID))
	return view(sess.ID, state), err
}

func (s *studioService) Download(ctx context.Context, id string) (*Download, error) {
	sess, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	state := sess.Controller.Snapshot()
	if state.Result == nil || state.Result.GeneratedImage == "" {
		return nil, ErrNoResult
	}
	mimeType, data, err := ai.DecodeDataURL(state.Result.GeneratedImage)
	if err != nil {
		return nil, err
	}
	return &Download{
		Name:     studio.DownloadName(state.Result.StyleID, mimeType, s.now()),
		MimeType: mimeType,
		Data:     data,
	}, nil
}

func (s *studioService) ExpireIdle(ctx context.Context, maxIdle time.Duration) int {
	if maxIdle <= 0 {
		return 0
	}
	return s.repo.DeleteIdleSince(ctx, s.now().Add(-maxIdle))
}

func view(id string, state studio.State) *SessionView {
	return &SessionView{ID: id, State: state}
}
