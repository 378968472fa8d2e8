package auth

import "time"

// Strategy issues and validates session tokens for storefront customers.
type Strategy interface {
	IssueToken(userID int64) (string, error)
	ParseToken(token string) (int64, error)
	Name() string
}

// Options tunes token issuing behaviour.
type Options struct {
	TTL time.Duration
}
