package services

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"gallerytour/pkg/utils"
)

func TestCSRFIssueAndVerify(t *testing.T) {
	svc := NewCSRFService("test-secret")

	token, err := svc.Issue("session-a")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := svc.Verify(token, "session-a"); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestCSRFSessionMismatch(t *testing.T) {
	svc := NewCSRFService("test-secret")

	token, err := svc.Issue("session-a")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := svc.Verify(token, "session-b"); !errors.Is(err, utils.ErrCSRFMismatch) {
		t.Fatalf("err = %v, want ErrCSRFMismatch", err)
	}
}

func TestCSRFTamperedToken(t *testing.T) {
	svc := NewCSRFService("test-secret")

	token, err := svc.Issue("session-a")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	tampered := token[:len(token)-2] + "xx"
	if err := svc.Verify(tampered, "session-a"); !errors.Is(err, utils.ErrCSRFInvalid) {
		t.Fatalf("err = %v, want ErrCSRFInvalid", err)
	}

	if err := svc.Verify("", "session-a"); !errors.Is(err, utils.ErrCSRFInvalid) {
		t.Fatalf("empty token err = %v, want ErrCSRFInvalid", err)
	}
}

func TestCSRFWrongSecret(t *testing.T) {
	token, err := NewCSRFService("secret-one").Issue("session-a")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := NewCSRFService("secret-two").Verify(token, "session-a"); !errors.Is(err, utils.ErrCSRFInvalid) {
		t.Fatalf("err = %v, want ErrCSRFInvalid", err)
	}
}

func TestCSRFExpiredToken(t *testing.T) {
	secret := []byte("test-secret")

	issuedAt := time.Now().Add(-2 * utils.CSRFMaxAge)
	claims := &utils.CSRFClaims{
		SessionToken: "session-a",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(utils.CSRFMaxAge)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if err := NewCSRFService("test-secret").Verify(token, "session-a"); !errors.Is(err, utils.ErrCSRFExpired) {
		t.Fatalf("err = %v, want ErrCSRFExpired", err)
	}
}
