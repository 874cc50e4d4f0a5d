package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"gallerytour/internal/models/db_models"
	"gallerytour/internal/repositories"
)

func TestResolveDegradesToNewSession(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(repositories.NewSessionRepository(db), time.Hour)

	cases := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"malformed token", "not-a-uuid"},
		{"unknown token", uuid.NewString()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			session, err := svc.Resolve(testCtx, tc.token)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if session != nil {
				t.Fatalf("expected nil session, got %v", session.UUID)
			}
		})
	}
}

func TestResolveExpiredSessionIsNeverReused(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(repositories.NewSessionRepository(db), time.Minute)

	old := seedSession(t, db)
	stale := time.Now().UTC().Add(-2 * time.Minute)
	if err := db.Model(old).Update("last_activity", stale).Error; err != nil {
		t.Fatalf("age session: %v", err)
	}

	resolved, err := svc.Resolve(testCtx, old.UUID.String())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved != nil {
		t.Fatal("expired session must not resolve")
	}

	// the old record stays intact and queryable
	if n := mustCount(t, db, &db_models.Session{}, "uuid = ?", old.UUID); n != 1 {
		t.Fatalf("old session rows = %d, want 1", n)
	}
}

func TestResolveLiveSession(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(repositories.NewSessionRepository(db), time.Hour)

	session := seedSession(t, db)

	resolved, err := svc.Resolve(testCtx, session.UUID.String())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved == nil || resolved.UUID != session.UUID {
		t.Fatal("live session should resolve to itself")
	}
}

func TestCommitActivityRefreshIsMonotonic(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(repositories.NewSessionRepository(db), time.Hour)

	session := seedSession(t, db)
	before := session.LastActivity

	for i := 0; i < 3; i++ {
		time.Sleep(5 * time.Millisecond)
		if err := svc.CommitActivityRefresh(testCtx, session.ID); err != nil {
			t.Fatalf("refresh: %v", err)
		}

		var current db_models.Session
		if err := db.First(&current, session.ID).Error; err != nil {
			t.Fatalf("reload: %v", err)
		}
		if current.LastActivity.Before(before) {
			t.Fatalf("last_activity went backwards: %v -> %v", before, current.LastActivity)
		}
		before = current.LastActivity
	}
}

func TestCreateRecordsRequestMeta(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(repositories.NewSessionRepository(db), time.Hour)

	session, err := svc.Create(testCtx, SessionMeta{UserAgent: "agent/1.0", AcceptLang: "cs"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if session.UUID == uuid.Nil {
		t.Fatal("new session has no token")
	}
	if session.UserAgent == nil || *session.UserAgent != "agent/1.0" {
		t.Fatal("user agent not recorded")
	}
	if session.AcceptLang == nil || *session.AcceptLang != "cs" {
		t.Fatal("accept language not recorded")
	}
}
