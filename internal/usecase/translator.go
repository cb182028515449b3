package usecase

import (
	"fmt"
	"strings"

	domainErrors "github.com/wealthdesk/fundmart/internal/domain/errors"
	"github.com/wealthdesk/fundmart/internal/domain/model"
)

// TranslateStatus maps a venue status word onto the canonical ladder. The map
// is closed: any vocabulary the venue adds later is surfaced as
// ErrUnmappedStatus instead of being guessed at. For mutual fund orders a
// SUCCESS report only counts once operations has accepted the allotment.
func TranslateStatus(upstream string, productType model.ProductType, adminAccepted bool) (model.OrderStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(upstream)) {
	case "PENDING", "IN_PROCESS", "ORDER_PLACED":
		return model.OrderStatusProcessing, nil
	case "SUCCESS", "ALLOTTED":
		if productType == model.ProductMutualFund && !adminAccepted {
			return model.OrderStatusProcessing, nil
		}
		return model.OrderStatusProcessed, nil
	case "FAILED", "FAILURE":
		return model.OrderStatusFailed, nil
	case "REJECTED":
		return model.OrderStatusRejected, nil
	case "CANCELLED":
		return model.OrderStatusCancelled, nil
	default:
		return "", fmt.Errorf("%w: %q", domainErrors.ErrUnmappedStatus, upstream)
	}
}

// Classification names a venue failure message pattern with dedicated
// handling.
type Classification int

const (
	ClassNone Classification = iota
	ClassBidLimitReached
)

// MessageClassifier inspects free-text venue messages before status
// translation runs.
type MessageClassifier interface {
	Classify(message string) Classification
}

// SubstringClassifier matches known venue message fragments
// case-insensitively.
type SubstringClassifier struct {
	limitPatterns []string
}

// NewSubstringClassifier returns a classifier loaded with the venue's known
// bid-limit wording.
func NewSubstringClassifier() *SubstringClassifier {
	return &SubstringClassifier{
		limitPatterns: []string{
			"maximum 5 bids",
			"bid limit reached",
		},
	}
}

// Classify reports the first matching pattern, or ClassNone.
func (c *SubstringClassifier) Classify(message string) Classification {
	lowered := strings.ToLower(message)
	for _, pattern := range c.limitPatterns {
		if strings.Contains(lowered, pattern) {
			return ClassBidLimitReached
		}
	}
	return ClassNone
}
