package model

import "time"

// PairState tracks the saga progress of a linked order pair.
type PairState string

const (
	PairStatePending   PairState = "PENDING"
	PairStateStaged    PairState = "STAGED"
	PairStateComplete  PairState = "COMPLETE"
	PairStateDivergent PairState = "DIVERGENT"
)

// PairIntent is persisted before either leg of a switch/STP pair is written,
// so a crash between the two leg writes is detectable afterwards.
type PairIntent struct {
	ID            string
	GroupID       string
	Kind          TransactionKind
	StagingItemID string
	RedeemLegID   string
	PurchaseLegID string
	State         PairState
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
