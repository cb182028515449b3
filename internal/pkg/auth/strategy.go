package auth

import "time"

// Strategy issues and verifies session tokens for a subject id.
type Strategy interface {
	IssueToken(subjectID string) (string, error)
	ParseToken(token string) (string, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}
