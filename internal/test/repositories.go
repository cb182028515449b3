package test

import (
	"context"
	"fmt"
	"sync"
	"time"

	domainErrors "github.com/wealthdesk/fundmart/internal/domain/errors"
	"github.com/wealthdesk/fundmart/internal/domain/model"
)

// AdvisorRepositoryStub stores advisors in-memory for tests.
type AdvisorRepositoryStub struct {
	Advisors map[string]*model.Advisor
	ByID     map[string]*model.Advisor
	Next     int
	Err      error
}

// NewAdvisorRepositoryStub constructs stub repository with initialized maps.
func NewAdvisorRepositoryStub() *AdvisorRepositoryStub {
	return &AdvisorRepositoryStub{
		Advisors: make(map[string]*model.Advisor),
		ByID:     make(map[string]*model.Advisor),
		Next:     1,
	}
}

// Create registers advisor unless already exists or stub has explicit error.
func (s *AdvisorRepositoryStub) Create(ctx context.Context, login, passwordHash string) (*model.Advisor, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Advisors == nil {
		s.Advisors = make(map[string]*model.Advisor)
	}
	if s.ByID == nil {
		s.ByID = make(map[string]*model.Advisor)
	}
	if _, exists := s.Advisors[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	advisor := &model.Advisor{ID: fmt.Sprintf("advisor-%d", s.Next), Login: login, PasswordHash: passwordHash}
	s.Next++
	s.Advisors[login] = advisor
	s.ByID[advisor.ID] = advisor
	return advisor, nil
}

// GetByLogin fetches advisor by login or returns not found.
func (s *AdvisorRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.Advisor, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if advisor, ok := s.Advisors[login]; ok {
		return advisor, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches advisor by identifier or returns not found.
func (s *AdvisorRepositoryStub) GetByID(ctx context.Context, id string) (*model.Advisor, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if advisor, ok := s.ByID[id]; ok {
		return advisor, nil
	}
	return nil, domainErrors.ErrNotFound
}

// CustomerRepositoryStub stores customers in-memory for tests.
type CustomerRepositoryStub struct {
	Customers map[string]*model.Customer
	ByPhone   map[string]*model.Customer
	Err       error
}

// NewCustomerRepositoryStub constructs stub repository with initialized maps.
func NewCustomerRepositoryStub() *CustomerRepositoryStub {
	return &CustomerRepositoryStub{
		Customers: make(map[string]*model.Customer),
		ByPhone:   make(map[string]*model.Customer),
	}
}

// Add registers a customer under both indexes.
func (s *CustomerRepositoryStub) Add(customer *model.Customer) {
	s.Customers[customer.ID] = customer
	s.ByPhone[customer.Phone] = customer
}

// Create stores a new customer record.
func (s *CustomerRepositoryStub) Create(ctx context.Context, customer *model.Customer) error {
	if s.Err != nil {
		return s.Err
	}
	if _, exists := s.Customers[customer.ID]; exists {
		return domainErrors.ErrAlreadyExists
	}
	s.Add(customer)
	return nil
}

// GetByID fetches customer by identifier or returns not found.
func (s *CustomerRepositoryStub) GetByID(ctx context.Context, id string) (*model.Customer, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if customer, ok := s.Customers[id]; ok {
		return customer, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByPhone fetches customer by phone or returns not found.
func (s *CustomerRepositoryStub) GetByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if customer, ok := s.ByPhone[phone]; ok {
		return customer, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ConsentSecretsCall stores information about UpdateConsentSecrets invocations.
type ConsentSecretsCall struct {
	OrderID   string
	PhoneHash *string
	EmailHash *string
}

// StatusUpdateCall stores information about UpdateStatus invocations.
type StatusUpdateCall struct {
	OrderID string
	Status  model.OrderStatus
}

// ExecutionIDsCall stores information about UpdateExecutionIDs invocations.
type ExecutionIDsCall struct {
	OrderID     string
	Status      model.OrderStatus
	UpstreamIDs []string
}

// OrderRepositoryStub allows tests to customize behaviour.
type OrderRepositoryStub struct {
	CreateFn             func(context.Context, *model.Order) error
	GetByIDFn            func(context.Context, string) (*model.Order, error)
	ListByCustomerFn     func(context.Context, string) ([]model.Order, error)
	ListByGroupFn        func(context.Context, string) ([]model.Order, error)
	SelectBatchFn        func(context.Context, int) ([]model.Order, error)
	UpdateStatusFn       func(context.Context, string, model.OrderStatus) error
	UpdateGroupFn        func(context.Context, string, model.OrderStatus) error
	ConsentSecretsFn     func(context.Context, string, *string, *string) error
	MarkConsentGivenFn   func(context.Context, string) error
	UpdateStagingItemFn  func(context.Context, string, string) error
	UpdateExecutionIDsFn func(context.Context, string, model.OrderStatus, []string) error

	mu             sync.Mutex
	Created        []*model.Order
	Orders         []model.Order
	Batch          []model.Order
	StatusCalls    []StatusUpdateCall
	GroupCalls     []StatusUpdateCall
	SecretCalls    []ConsentSecretsCall
	ConsentGiven   []string
	StagingCalls   map[string]string
	ExecutionCalls []ExecutionIDsCall
}

// Create tracks invocations and returns configured responses.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Created = append(s.Created, order)
	s.Orders = append(s.Orders, *order)
	return nil
}

// GetByID returns matched order either via override or stored slice.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.Orders {
		if o.ID == id {
			order := o
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ListByCustomer returns orders from configured slice.
func (s *OrderRepositoryStub) ListByCustomer(ctx context.Context, customerID string) ([]model.Order, error) {
	if s.ListByCustomerFn != nil {
		return s.ListByCustomerFn(ctx, customerID)
	}
	return s.Orders, nil
}

// ListByGroup filters stored orders by group.
func (s *OrderRepositoryStub) ListByGroup(ctx context.Context, groupID string) ([]model.Order, error) {
	if s.ListByGroupFn != nil {
		return s.ListByGroupFn(ctx, groupID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []model.Order
	for _, o := range s.Orders {
		if o.GroupID == groupID {
			matched = append(matched, o)
		}
	}
	return matched, nil
}

// SelectBatchForReconciliation returns queued orders for reconciliation.
func (s *OrderRepositoryStub) SelectBatchForReconciliation(ctx context.Context, limit int) ([]model.Order, error) {
	if s.SelectBatchFn != nil {
		return s.SelectBatchFn(ctx, limit)
	}
	return s.Batch, nil
}

// UpdateStatus records update invocations.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, orderID, status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.StatusCalls = append(s.StatusCalls, StatusUpdateCall{OrderID: orderID, Status: status})
	for i := range s.Orders {
		if s.Orders[i].ID == orderID {
			s.Orders[i].Status = status
		}
	}
	return nil
}

// UpdateStatusByGroup records bulk group updates.
func (s *OrderRepositoryStub) UpdateStatusByGroup(ctx context.Context, groupID string, status model.OrderStatus) error {
	if s.UpdateGroupFn != nil {
		return s.UpdateGroupFn(ctx, groupID, status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.GroupCalls = append(s.GroupCalls, StatusUpdateCall{OrderID: groupID, Status: status})
	for i := range s.Orders {
		if s.Orders[i].GroupID == groupID && !s.Orders[i].Status.IsTerminal() {
			s.Orders[i].Status = status
		}
	}
	return nil
}

// UpdateConsentSecrets records stored code hashes.
func (s *OrderRepositoryStub) UpdateConsentSecrets(ctx context.Context, orderID string, phoneHash, emailHash *string) error {
	if s.ConsentSecretsFn != nil {
		return s.ConsentSecretsFn(ctx, orderID, phoneHash, emailHash)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SecretCalls = append(s.SecretCalls, ConsentSecretsCall{OrderID: orderID, PhoneHash: phoneHash, EmailHash: emailHash})
	now := time.Now()
	for i := range s.Orders {
		if s.Orders[i].ID == orderID {
			s.Orders[i].PhoneSecret = phoneHash
			s.Orders[i].EmailSecret = emailHash
			s.Orders[i].ConsentRequestedAt = &now
		}
	}
	return nil
}

// MarkConsentGiven records consent acknowledgement.
func (s *OrderRepositoryStub) MarkConsentGiven(ctx context.Context, orderID string) error {
	if s.MarkConsentGivenFn != nil {
		return s.MarkConsentGivenFn(ctx, orderID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ConsentGiven = append(s.ConsentGiven, orderID)
	for i := range s.Orders {
		if s.Orders[i].ID == orderID {
			s.Orders[i].IsConsentGiven = true
			s.Orders[i].IsApproved = true
			s.Orders[i].PhoneSecret = nil
			s.Orders[i].EmailSecret = nil
			s.Orders[i].Status = model.OrderStatusConsentGiven
		}
	}
	return nil
}

// UpdateStagingItem records staged item references.
func (s *OrderRepositoryStub) UpdateStagingItem(ctx context.Context, orderID, itemID string) error {
	if s.UpdateStagingItemFn != nil {
		return s.UpdateStagingItemFn(ctx, orderID, itemID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.StagingCalls == nil {
		s.StagingCalls = make(map[string]string)
	}
	s.StagingCalls[orderID] = itemID
	return nil
}

// UpdateExecutionIDs records checkout results.
func (s *OrderRepositoryStub) UpdateExecutionIDs(ctx context.Context, orderID string, status model.OrderStatus, upstreamIDs []string) error {
	if s.UpdateExecutionIDsFn != nil {
		return s.UpdateExecutionIDsFn(ctx, orderID, status, upstreamIDs)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ExecutionCalls = append(s.ExecutionCalls, ExecutionIDsCall{OrderID: orderID, Status: status, UpstreamIDs: upstreamIDs})
	for i := range s.Orders {
		if s.Orders[i].ID == orderID {
			s.Orders[i].Status = status
			s.Orders[i].Details.OrderIDs = upstreamIDs
		}
	}
	return nil
}

// PairIntentRepositoryStub stores pair intents for tests.
type PairIntentRepositoryStub struct {
	CreateFn func(context.Context, *model.PairIntent) error
	Err      error

	mu      sync.Mutex
	Next    int
	Intents []*model.PairIntent
	States  []model.PairState
}

// Create stores the intent and assigns an id.
func (s *PairIntentRepositoryStub) Create(ctx context.Context, intent *model.PairIntent) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, intent)
	}
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Next++
	intent.ID = fmt.Sprintf("intent-%d", s.Next)
	s.Intents = append(s.Intents, intent)
	return nil
}

// GetByGroup fetches the intent covering groupID.
func (s *PairIntentRepositoryStub) GetByGroup(ctx context.Context, groupID string) (*model.PairIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, intent := range s.Intents {
		if intent.GroupID == groupID {
			return intent, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// Update replaces the stored intent.
func (s *PairIntentRepositoryStub) Update(ctx context.Context, intent *model.PairIntent) error {
	if s.Err != nil {
		return s.Err
	}
	return nil
}

// SetState records state changes.
func (s *PairIntentRepositoryStub) SetState(ctx context.Context, intentID string, state model.PairState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.States = append(s.States, state)
	for _, intent := range s.Intents {
		if intent.ID == intentID {
			intent.State = state
		}
	}
	return nil
}

// ListUnsettled returns intents still pending or divergent.
func (s *PairIntentRepositoryStub) ListUnsettled(ctx context.Context, limit int) ([]model.PairIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.PairIntent
	for _, intent := range s.Intents {
		if intent.State == model.PairStatePending || intent.State == model.PairStateDivergent {
			out = append(out, *intent)
		}
	}
	return out, nil
}
