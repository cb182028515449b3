// Package ids generates and validates the 24-hex-character document
// identifiers used throughout the system.
package ids

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	domainErrors "github.com/wealthdesk/fundmart/internal/domain/errors"
)

// New returns a fresh 24-hex document id.
func New() string {
	return primitive.NewObjectID().Hex()
}

// Validate checks that raw is a well-formed 24-hex document id.
func Validate(raw string) error {
	if _, err := primitive.ObjectIDFromHex(raw); err != nil {
		return domainErrors.ErrInvalidID
	}
	return nil
}
