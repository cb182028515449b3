package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Advisors() AdvisorRepository
	Customers() CustomerRepository
	Orders() OrderRepository
	PairIntents() PairIntentRepository
}
