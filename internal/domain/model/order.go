package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes the canonical order lifecycle.
type OrderStatus string

const (
	OrderStatusCreated           OrderStatus = "CREATED"
	OrderStatusPrebooked         OrderStatus = "PREBOOKED"
	OrderStatusPending           OrderStatus = "PENDING"
	OrderStatusPaymentLinkSent   OrderStatus = "PAYMENT_LINK_SENT"
	OrderStatusPaymentLinkOpened OrderStatus = "PAYMENT_LINK_OPENED"
	OrderStatusConsentGiven      OrderStatus = "CONSENT_GIVEN"
	OrderStatusCheckedOut        OrderStatus = "CHECKED_OUT"
	OrderStatusProcessing        OrderStatus = "PROCESSING"
	OrderStatusProcessed         OrderStatus = "PROCESSED"
	OrderStatusFailed            OrderStatus = "FAILED"
	OrderStatusRejected          OrderStatus = "REJECTED"
	OrderStatusCancelled         OrderStatus = "CANCELLED"
	OrderStatusLimitReached      OrderStatus = "LIMIT_REACHED"
)

// statusRank orders progressing statuses; terminal statuses are outside the ladder.
var statusRank = map[OrderStatus]int{
	OrderStatusCreated:           0,
	OrderStatusPrebooked:         1,
	OrderStatusPending:           2,
	OrderStatusPaymentLinkSent:   3,
	OrderStatusPaymentLinkOpened: 4,
	OrderStatusConsentGiven:      5,
	OrderStatusCheckedOut:        6,
	OrderStatusProcessing:        7,
	OrderStatusProcessed:         8,
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusProcessed, OrderStatusFailed, OrderStatusRejected, OrderStatusCancelled, OrderStatusLimitReached:
		return true
	}
	return false
}

// IsExceptional reports whether s is a terminal exception state reachable from
// any non-terminal status.
func (s OrderStatus) IsExceptional() bool {
	switch s {
	case OrderStatusFailed, OrderStatusRejected, OrderStatusCancelled, OrderStatusLimitReached:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from s to target. Forward
// moves along the ladder (including skips) are allowed; terminal statuses
// never move; exception statuses are reachable from any non-terminal status.
func (s OrderStatus) CanTransition(target OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if target.IsExceptional() {
		return true
	}
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[target]
	if !ok {
		return false
	}
	return to > from
}

func (s OrderStatus) String() string { return string(s) }

// ProductType classifies the financial product an order trades.
type ProductType string

const (
	ProductBond           ProductType = "BOND"
	ProductIPO            ProductType = "IPO"
	ProductMutualFund     ProductType = "MUTUAL_FUND"
	ProductListedBond     ProductType = "LISTED_BOND"
	ProductUnlistedEquity ProductType = "UNLISTED_EQUITY"
)

// SubType refines mutual-fund orders.
type SubType string

const (
	SubTypeLumpsum    SubType = "LUMPSUM"
	SubTypeSIP        SubType = "SIP"
	SubTypeRedemption SubType = "REDEMPTION"
	SubTypeSwitchIn   SubType = "SWITCH_IN"
	SubTypeSwitchOut  SubType = "SWITCH_OUT"
	SubTypeSTPIn      SubType = "STP_IN"
	SubTypeSTPOut     SubType = "STP_OUT"
	SubTypeSWP        SubType = "SWP"
)

// TransactionKind selects the venue staging area an order goes through.
type TransactionKind string

const (
	KindOneTime    TransactionKind = "ONE_TIME"
	KindRecurring  TransactionKind = "RECURRING"
	KindRedemption TransactionKind = "REDEMPTION"
	KindSwitch     TransactionKind = "SWITCH"
	KindSTP        TransactionKind = "STP"
	KindSWP        TransactionKind = "SWP"
)

// KindForSubType resolves the staging kind once at order creation; it is
// carried on the order rather than re-derived on every venue call.
func KindForSubType(sub SubType) TransactionKind {
	switch sub {
	case SubTypeSIP:
		return KindRecurring
	case SubTypeRedemption:
		return KindRedemption
	case SubTypeSwitchIn, SubTypeSwitchOut:
		return KindSwitch
	case SubTypeSTPIn, SubTypeSTPOut:
		return KindSTP
	case SubTypeSWP:
		return KindSWP
	default:
		return KindOneTime
	}
}

// MutualFundDetails carries sub-type specific execution state, stored as JSONB.
type MutualFundDetails struct {
	StagingItemID  string   `json:"staging_item_id,omitempty"`
	OrderIDs       []string `json:"order_ids,omitempty"`
	LinkedOrderID  string   `json:"linked_order_id,omitempty"`
	Installments   int      `json:"installments,omitempty"`
	InstallmentDay int      `json:"installment_day,omitempty"`
	SourceISIN     string   `json:"source_isin,omitempty"`
	TargetISIN     string   `json:"target_isin,omitempty"`
	Frequency      string   `json:"frequency,omitempty"`
}

// Order is one transaction leg for a financial product.
type Order struct {
	ID        string
	GroupID   string
	ForeignID *string
	OrderID   *string

	ProductType ProductType
	SubType     SubType
	Kind        TransactionKind

	CustomerID string
	AdvisorID  string
	AccountID  string

	ISIN        string
	Units       decimal.Decimal
	UnitPrice   decimal.Decimal
	UserAmount  decimal.Decimal
	ReturnRate  decimal.Decimal
	FolioNumber string

	PhoneSecret        *string
	EmailSecret        *string
	ConsentRequestedAt *time.Time
	IsConsentGiven     bool
	IsApproved         bool

	Status   OrderStatus
	Metadata map[string]any
	Details  MutualFundDetails

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StagingIdentity keys the venue staging area for this order.
func (o *Order) StagingIdentity() string {
	return o.CustomerID + ":" + string(o.Kind)
}
