package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CSRFMaxAge bounds how long an issued form token stays valid.
const CSRFMaxAge = time.Hour

type CSRFClaims struct {
	SessionToken string `json:"sid"`
	jwt.RegisteredClaims
}

// IssueCSRFToken signs a token binding a form to its session.
func IssueCSRFToken(secret []byte, sessionToken string) (string, error) {
	now := time.Now()
	claims := &CSRFClaims{
		SessionToken: sessionToken,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(CSRFMaxAge)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyCSRFToken checks signature, age and session binding.
func VerifyCSRFToken(secret []byte, tokenString, expectedSessionToken string) error {
	claims := &CSRFClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrCSRFExpired
	case err != nil, token == nil, !token.Valid:
		return ErrCSRFInvalid
	case claims.SessionToken != expectedSessionToken:
		return ErrCSRFMismatch
	}
	return nil
}
