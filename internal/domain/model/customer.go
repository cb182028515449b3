package model

import "time"

// Customer represents an investor on whose behalf advisors place orders.
type Customer struct {
	ID            string
	Name          string
	Phone         string
	Email         string
	PAN           string
	BankAccountID string
	BankName      string
	BankAccountNo string
	CreatedAt     time.Time
}

// Advisor represents an authenticated distributor placing orders.
type Advisor struct {
	ID           string
	Login        string
	PasswordHash string
	PartnerCode  string
	CreatedAt    time.Time
}
