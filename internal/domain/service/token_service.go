package service

import "context"

// TokenService issues and verifies bearer tokens for user ids.
type TokenService interface {
	IssueToken(ctx context.Context, userID string) (string, error)
	VerifyToken(ctx context.Context, token string) (string, error)
}
