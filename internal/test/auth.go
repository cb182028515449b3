package test

import (
	"context"
	"errors"
	"time"

	domainErrors "github.com/wealthdesk/fundmart/internal/domain/errors"
	pkgAuth "github.com/wealthdesk/fundmart/internal/pkg/auth"
	"github.com/wealthdesk/fundmart/internal/pkg/otp"
)

// HasherStub provides deterministic hashing for tests. It satisfies both the
// password hasher and the one-time code hasher contracts.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied value.
func (h HasherStub) Hash(value string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(value)
	}
	return "hash:" + value, nil
}

// Compare validates a value against its stored hash.
func (h HasherStub) Compare(hash string, value string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, value)
	}
	if hash != "hash:"+value {
		return errors.New("mismatch")
	}
	return nil
}

// StrategyStub issues and parses tokens via function overrides.
type StrategyStub struct {
	IssueFn func(string) (string, error)
	ParseFn func(string) (string, error)
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(subjectID string) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(subjectID)
	}
	return "token", nil
}

// ParseToken parses previously issued token strings.
func (s StrategyStub) ParseToken(token string) (string, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return "subject", nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// TokenParserStub implements middleware token parsing contract.
type TokenParserStub struct {
	ID      string
	Err     error
	ParseFn func(string) (string, error)
}

// ParseToken either delegates to override or returns predefined result.
func (s TokenParserStub) ParseToken(token string) (string, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	if s.Err != nil {
		return "", s.Err
	}
	return s.ID, nil
}

// OTPStoreStub keeps login code hashes in a map.
type OTPStoreStub struct {
	Hashes map[string]string
	PutErr error
	GetErr error
}

// NewOTPStoreStub constructs the stub with an initialized map.
func NewOTPStoreStub() *OTPStoreStub {
	return &OTPStoreStub{Hashes: make(map[string]string)}
}

// Put stores the hash under key.
func (s *OTPStoreStub) Put(ctx context.Context, key, hash string, ttl time.Duration) error {
	if s.PutErr != nil {
		return s.PutErr
	}
	s.Hashes[key] = hash
	return nil
}

// Get returns the stored hash or not found.
func (s *OTPStoreStub) Get(ctx context.Context, key string) (string, error) {
	if s.GetErr != nil {
		return "", s.GetErr
	}
	hash, ok := s.Hashes[key]
	if !ok {
		return "", domainErrors.ErrNotFound
	}
	return hash, nil
}

// Delete removes the stored hash.
func (s *OTPStoreStub) Delete(ctx context.Context, key string) error {
	delete(s.Hashes, key)
	return nil
}

var _ pkgAuth.PasswordHasher = HasherStub{}
var _ pkgAuth.Strategy = StrategyStub{}
var _ otp.Hasher = HasherStub{}
