package auth

import (
	"crypto/subtle"

	"textguard/internal/domain"
)

// TokenAuthorizer gates corpus mutation behind a single shared admin
// token. It stands in for whatever account system fronts the pipeline;
// the orchestrator only ever sees the yes/no answer.
type TokenAuthorizer struct {
	token string
}

// NewTokenAuthorizer creates an authorizer. An empty token locks all
// mutation: a deployment without an admin token gets a read-only corpus.
func NewTokenAuthorizer(token string) *TokenAuthorizer {
	return &TokenAuthorizer{token: token}
}

// Authorize checks the presented token in constant time.
func (a *TokenAuthorizer) Authorize(token string) error {
	if a.token == "" || subtle.ConstantTimeCompare([]byte(a.token), []byte(token)) != 1 {
		return domain.ErrUnauthorized
	}
	return nil
}
