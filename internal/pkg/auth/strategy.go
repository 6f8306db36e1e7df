package auth

import "time"

// Options tunes token strategy behaviour.
type Options struct {
	TTL time.Duration
}

// TokenStrategy issues and verifies bearer tokens. The marketplace treats
// identity as an external collaborator: any service holding the shared
// secret can mint tokens this strategy accepts.
type TokenStrategy interface {
	IssueToken(userID int64) (string, error)
	ParseToken(token string) (int64, error)
	Name() string
}
