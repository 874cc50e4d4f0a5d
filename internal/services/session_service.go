package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"gallerytour/internal/models/db_models"
	"gallerytour/internal/repositories"
	"gallerytour/pkg/utils"
)

// SessionMeta carries the request headers recorded on a new session.
type SessionMeta struct {
	UserAgent  string
	AcceptLang string
}

// SessionServiceInterface splits identity resolution into an explicit
// read phase and explicit write phases, so the HTTP layer decides when
// the store is mutated.
//
// Resolve never fails on a bad token: malformed, unknown and expired
// tokens all come back as (nil, nil), meaning "create a fresh session".
// Only infrastructure errors are returned.
type SessionServiceInterface interface {
	Resolve(ctx context.Context, rawToken string) (*db_models.Session, error)
	Create(ctx context.Context, meta SessionMeta) (*db_models.Session, error)
	CommitActivityRefresh(ctx context.Context, sessionID uint) error
	TTL() time.Duration
}

type SessionService struct {
	sessionRepo repositories.SessionRepositoryInterface
	ttl         time.Duration
}

func NewSessionService(sessionRepo repositories.SessionRepositoryInterface, ttl time.Duration) SessionServiceInterface {
	return &SessionService{sessionRepo: sessionRepo, ttl: ttl}
}

func (s *SessionService) Resolve(ctx context.Context, rawToken string) (*db_models.Session, error) {
	if rawToken == "" {
		return nil, nil
	}

	token, err := uuid.Parse(rawToken)
	if err != nil {
		return nil, nil
	}

	session, err := s.sessionRepo.GetByUUID(ctx, token)
	if errors.Is(err, utils.ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	// Expired sessions are abandoned, never reused or deleted.
	if time.Since(session.LastActivity) > s.ttl {
		return nil, nil
	}

	return session, nil
}

func (s *SessionService) Create(ctx context.Context, meta SessionMeta) (*db_models.Session, error) {
	session := &db_models.Session{
		UUID:         uuid.New(),
		LastActivity: time.Now().UTC(),
	}
	if meta.UserAgent != "" {
		session.UserAgent = &meta.UserAgent
	}
	if meta.AcceptLang != "" {
		session.AcceptLang = &meta.AcceptLang
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) CommitActivityRefresh(ctx context.Context, sessionID uint) error {
	return s.sessionRepo.TouchActivity(ctx, sessionID, time.Now().UTC())
}

func (s *SessionService) TTL() time.Duration {
	return s.ttl
}
