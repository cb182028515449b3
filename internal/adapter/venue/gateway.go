package venue

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/wealthdesk/fundmart/internal/domain/model"
)

// StagedItem is one product staged in the venue's cart.
type StagedItem struct {
	ID     string          `json:"id"`
	ISIN   string          `json:"isin"`
	Amount decimal.Decimal `json:"amount"`
}

// StagePayload describes the item to stage; fields beyond ISIN/Units/Amount
// are sub-type specific.
type StagePayload struct {
	ISIN           string          `json:"isin"`
	SubType        model.SubType   `json:"sub_type"`
	Units          decimal.Decimal `json:"units"`
	Amount         decimal.Decimal `json:"amount"`
	FolioNumber    string          `json:"folio_number,omitempty"`
	Installments   int             `json:"installments,omitempty"`
	InstallmentDay int             `json:"installment_day,omitempty"`
	Frequency      string          `json:"frequency,omitempty"`
	SourceISIN     string          `json:"source_isin,omitempty"`
	TargetISIN     string          `json:"target_isin,omitempty"`
	ClientRef      string          `json:"client_ref,omitempty"`
}

// CheckoutPayload carries the execution details for a checkout call.
type CheckoutPayload struct {
	PaymentMode   string `json:"payment_mode"`
	BankAccountID string `json:"bank_account_id"`
	PAN           string `json:"pan"`
	PartnerCode   string `json:"partner_code,omitempty"`
}

// CheckoutResult is returned by a successful checkout; one call may yield
// several upstream legs.
type CheckoutResult struct {
	OrderIDs []string `json:"order_ids"`
	Message  string   `json:"message,omitempty"`
}

// Gateway abstracts the execution venue's per-customer, per-kind staging area.
type Gateway interface {
	ListStagedItems(ctx context.Context, customerID string, kind model.TransactionKind) ([]StagedItem, error)
	AddStagedItem(ctx context.Context, customerID string, kind model.TransactionKind, payload StagePayload) (string, error)
	RemoveStagedItem(ctx context.Context, customerID string, kind model.TransactionKind, itemID string) error
	Checkout(ctx context.Context, customerID string, kind model.TransactionKind, payload CheckoutPayload) (*CheckoutResult, error)
	FetchStatus(ctx context.Context, kind model.TransactionKind, upstreamOrderID string) (*model.StatusReport, error)
}
