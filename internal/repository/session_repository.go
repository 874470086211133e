package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shinyyama/headshot-studio/internal/studio"
)

var ErrSessionNotFound = errors.New("session not found")

type Session struct {
	ID         string
	Controller *studio.Controller
	CreatedAt  time.Time
	LastSeenAt time.Time
}

// SessionRepository keeps studio sessions in process memory.
type SessionRepository interface {
	Create(ctx context.Context, ctrl *studio.Controller) (*Session, error)
	FindByID(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	DeleteIdleSince(ctx context.Context, cutoff time.Time) int
}

type sessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewSessionRepository() SessionRepository {
	return &sessionRepository{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

func (r *sessionRepository) Create(ctx context.Context, ctrl *studio.Controller) (*Session, error) {
	if ctrl == nil {
		return nil, errors.New("controller is required")
	}
	now := r.now()
	s := &Session{
		ID:         uuid.NewString(),
		Controller: ctrl,
		CreatedAt:  now,
		LastSeenAt: now,
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
	return s, nil
}

func (r *sessionRepository) FindByID(ctx context.Context, id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrSessionNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.LastSeenAt = r.now()
	return s, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// DeleteIdleSince drops sessions not touched after cutoff and returns how many were removed.
func (r *sessionRepository) DeleteIdleSince(ctx context.Context, cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if s.LastSeenAt.Before(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}
