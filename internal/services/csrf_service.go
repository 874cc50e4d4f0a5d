package services

import (
	"gallerytour/pkg/utils"
)

// CSRFServiceInterface issues and verifies the signed token gating all
// state-changing form POSTs.
type CSRFServiceInterface interface {
	Issue(sessionToken string) (string, error)
	Verify(token, expectedSessionToken string) error
}

type CSRFService struct {
	secret []byte
}

func NewCSRFService(secret string) CSRFServiceInterface {
	return &CSRFService{secret: []byte(secret)}
}

func (s *CSRFService) Issue(sessionToken string) (string, error) {
	return utils.IssueCSRFToken(s.secret, sessionToken)
}

func (s *CSRFService) Verify(token, expectedSessionToken string) error {
	return utils.VerifyCSRFToken(s.secret, token, expectedSessionToken)
}
