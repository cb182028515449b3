package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/wealthdesk/fundmart/internal/domain/errors"
	"github.com/wealthdesk/fundmart/internal/domain/model"
	"github.com/wealthdesk/fundmart/internal/domain/repository"
	"github.com/wealthdesk/fundmart/internal/pkg/ids"
)

// DBPool is the subset of pgxpool.Pool used by the storage; tests substitute
// a pgxmock pool through it.
type DBPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   DBPool
	logger *slog.Logger
}

type advisorRepository struct {
	storage *Storage
}

type customerRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type pairIntentRepository struct {
	storage *Storage
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (DBPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Advisors() repository.AdvisorRepository {
	return &advisorRepository{storage: s}
}

func (s *Storage) Customers() repository.CustomerRepository {
	return &customerRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) PairIntents() repository.PairIntentRepository {
	return &pairIntentRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS advisors (
            id TEXT PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            partner_code TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS customers (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            phone TEXT UNIQUE NOT NULL,
            email TEXT NOT NULL,
            pan TEXT NOT NULL,
            bank_account_id TEXT NOT NULL,
            bank_name TEXT NOT NULL DEFAULT '',
            bank_account_no TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            group_id TEXT NOT NULL,
            foreign_id TEXT,
            order_id TEXT,
            product_type TEXT NOT NULL,
            sub_type TEXT NOT NULL DEFAULT '',
            kind TEXT NOT NULL,
            customer_id TEXT NOT NULL REFERENCES customers(id),
            advisor_id TEXT NOT NULL,
            account_id TEXT NOT NULL,
            isin TEXT NOT NULL,
            units NUMERIC NOT NULL DEFAULT 0,
            unit_price NUMERIC NOT NULL DEFAULT 0,
            user_amount NUMERIC NOT NULL DEFAULT 0,
            return_rate NUMERIC NOT NULL DEFAULT 0,
            folio_number TEXT NOT NULL DEFAULT '',
            phone_secret TEXT,
            email_secret TEXT,
            consent_requested_at TIMESTAMPTZ,
            is_consent_given BOOLEAN NOT NULL DEFAULT FALSE,
            is_approved BOOLEAN NOT NULL DEFAULT FALSE,
            status TEXT NOT NULL,
            metadata JSONB NOT NULL DEFAULT '{}',
            details JSONB NOT NULL DEFAULT '{}',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS pair_intents (
            id TEXT PRIMARY KEY,
            group_id TEXT UNIQUE NOT NULL,
            kind TEXT NOT NULL,
            staging_item_id TEXT NOT NULL DEFAULT '',
            redeem_leg_id TEXT NOT NULL DEFAULT '',
            purchase_leg_id TEXT NOT NULL DEFAULT '',
            state TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_group ON orders(group_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status, updated_at)`,
		`CREATE INDEX IF NOT EXISTS idx_pair_intents_state ON pair_intents(state, updated_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- AdvisorRepository implementation ---

func (r *advisorRepository) Create(ctx context.Context, login, passwordHash string) (*model.Advisor, error) {
	const query = `INSERT INTO advisors (id, login, password_hash) VALUES ($1, $2, $3) RETURNING created_at`
	a := model.Advisor{ID: ids.New(), Login: login, PasswordHash: passwordHash}
	err := r.storage.pool.QueryRow(ctx, query, a.ID, login, passwordHash).Scan(&a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &a, nil
}

func (r *advisorRepository) GetByLogin(ctx context.Context, login string) (*model.Advisor, error) {
	const query = `SELECT id, login, password_hash, partner_code, created_at FROM advisors WHERE login=$1`
	return r.scanOne(ctx, query, login)
}

func (r *advisorRepository) GetByID(ctx context.Context, id string) (*model.Advisor, error) {
	const query = `SELECT id, login, password_hash, partner_code, created_at FROM advisors WHERE id=$1`
	return r.scanOne(ctx, query, id)
}

func (r *advisorRepository) scanOne(ctx context.Context, query string, arg any) (*model.Advisor, error) {
	var a model.Advisor
	err := r.storage.pool.QueryRow(ctx, query, arg).Scan(&a.ID, &a.Login, &a.PasswordHash, &a.PartnerCode, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// --- CustomerRepository implementation ---

func (r *customerRepository) Create(ctx context.Context, c *model.Customer) error {
	if c.ID == "" {
		c.ID = ids.New()
	}
	const query = `INSERT INTO customers (id, name, phone, email, pan, bank_account_id, bank_name, bank_account_no)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at`
	err := r.storage.pool.QueryRow(ctx, query,
		c.ID, c.Name, c.Phone, c.Email, c.PAN, c.BankAccountID, c.BankName, c.BankAccountNo,
	).Scan(&c.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*model.Customer, error) {
	const query = `SELECT id, name, phone, email, pan, bank_account_id, bank_name, bank_account_no, created_at
                   FROM customers WHERE id=$1`
	return r.scanOne(ctx, query, id)
}

func (r *customerRepository) GetByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	const query = `SELECT id, name, phone, email, pan, bank_account_id, bank_name, bank_account_no, created_at
                   FROM customers WHERE phone=$1`
	return r.scanOne(ctx, query, phone)
}

func (r *customerRepository) scanOne(ctx context.Context, query string, arg any) (*model.Customer, error) {
	var c model.Customer
	err := r.storage.pool.QueryRow(ctx, query, arg).Scan(
		&c.ID, &c.Name, &c.Phone, &c.Email, &c.PAN, &c.BankAccountID, &c.BankName, &c.BankAccountNo, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// --- OrderRepository implementation ---

const orderColumns = `id, group_id, foreign_id, order_id, product_type, sub_type, kind,
customer_id, advisor_id, account_id, isin, units, unit_price, user_amount, return_rate,
folio_number, phone_secret, email_secret, consent_requested_at, is_consent_given, is_approved,
status, metadata, details, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*model.Order, error) {
	var (
		o        model.Order
		metadata []byte
		details  []byte
	)
	err := row.Scan(
		&o.ID, &o.GroupID, &o.ForeignID, &o.OrderID, &o.ProductType, &o.SubType, &o.Kind,
		&o.CustomerID, &o.AdvisorID, &o.AccountID, &o.ISIN, &o.Units, &o.UnitPrice, &o.UserAmount, &o.ReturnRate,
		&o.FolioNumber, &o.PhoneSecret, &o.EmailSecret, &o.ConsentRequestedAt, &o.IsConsentGiven, &o.IsApproved,
		&o.Status, &metadata, &details, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &o.Metadata); err != nil {
			return nil, fmt.Errorf("decode order metadata: %w", err)
		}
	}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &o.Details); err != nil {
			return nil, fmt.Errorf("decode order details: %w", err)
		}
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, o *model.Order) error {
	if o.ID == "" {
		o.ID = ids.New()
	}
	metadata, err := json.Marshal(orEmpty(o.Metadata))
	if err != nil {
		return fmt.Errorf("encode order metadata: %w", err)
	}
	details, err := json.Marshal(o.Details)
	if err != nil {
		return fmt.Errorf("encode order details: %w", err)
	}

	const query = `INSERT INTO orders (id, group_id, foreign_id, order_id, product_type, sub_type, kind,
                       customer_id, advisor_id, account_id, isin, units, unit_price, user_amount, return_rate,
                       folio_number, status, metadata, details)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
                   RETURNING created_at, updated_at`
	return r.storage.pool.QueryRow(ctx, query,
		o.ID, o.GroupID, o.ForeignID, o.OrderID, o.ProductType, o.SubType, o.Kind,
		o.CustomerID, o.AdvisorID, o.AccountID, o.ISIN, o.Units, o.UnitPrice, o.UserAmount, o.ReturnRate,
		o.FolioNumber, o.Status, metadata, details,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID string) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customer_id=$1 ORDER BY created_at DESC`
	return r.list(ctx, query, customerID)
}

func (r *orderRepository) ListByGroup(ctx context.Context, groupID string) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE group_id=$1 ORDER BY created_at`
	return r.list(ctx, query, groupID)
}

func (r *orderRepository) list(ctx context.Context, query string, arg any) ([]model.Order, error) {
	rows, err := r.storage.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) SelectBatchForReconciliation(ctx context.Context, limit int) ([]model.Order, error) {
	selectQuery := `SELECT ` + orderColumns + `
                    FROM orders
                    WHERE status IN ('CHECKED_OUT', 'PROCESSING')
                    ORDER BY updated_at
                    LIMIT $1
                    FOR UPDATE SKIP LOCKED`

	var orders []model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			order, err := scanOrder(rows)
			if err != nil {
				return err
			}
			orders = append(orders, *order)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		for _, o := range orders {
			if _, err := tx.Exec(ctx, `UPDATE orders SET updated_at=NOW() WHERE id=$1`, o.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	const query = `UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, status, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) UpdateStatusByGroup(ctx context.Context, groupID string, status model.OrderStatus) error {
	// Terminal rows are never rewritten, even by bulk group updates.
	const query = `UPDATE orders SET status=$1, updated_at=NOW()
                   WHERE group_id=$2
                     AND status NOT IN ('PROCESSED', 'FAILED', 'REJECTED', 'CANCELLED', 'LIMIT_REACHED')`
	_, err := r.storage.pool.Exec(ctx, query, status, groupID)
	return err
}

func (r *orderRepository) UpdateConsentSecrets(ctx context.Context, orderID string, phoneHash, emailHash *string) error {
	const query = `UPDATE orders SET phone_secret=$1, email_secret=$2, consent_requested_at=NOW(), updated_at=NOW() WHERE id=$3`
	tag, err := r.storage.pool.Exec(ctx, query, phoneHash, emailHash, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) MarkConsentGiven(ctx context.Context, orderID string) error {
	// Clearing both secrets makes a replayed code unverifiable.
	const query = `UPDATE orders SET is_consent_given=TRUE, is_approved=TRUE,
                       phone_secret=NULL, email_secret=NULL, status=$1, updated_at=NOW()
                   WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, model.OrderStatusConsentGiven, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) UpdateStagingItem(ctx context.Context, orderID, stagingItemID string) error {
	const query = `UPDATE orders SET details = jsonb_set(details, '{staging_item_id}', to_jsonb($1::text), true), updated_at=NOW() WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, stagingItemID, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) UpdateExecutionIDs(ctx context.Context, orderID string, status model.OrderStatus, upstreamIDs []string) error {
	encoded, err := json.Marshal(upstreamIDs)
	if err != nil {
		return fmt.Errorf("encode upstream ids: %w", err)
	}
	var primary *string
	if len(upstreamIDs) > 0 {
		primary = &upstreamIDs[0]
	}
	const query = `UPDATE orders SET status=$1, order_id=$2,
                       details = jsonb_set(details, '{order_ids}', $3::jsonb, true),
                       updated_at=NOW()
                   WHERE id=$4`
	tag, err := r.storage.pool.Exec(ctx, query, status, primary, encoded, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- PairIntentRepository implementation ---

func (r *pairIntentRepository) Create(ctx context.Context, intent *model.PairIntent) error {
	if intent.ID == "" {
		intent.ID = ids.New()
	}
	const query = `INSERT INTO pair_intents (id, group_id, kind, staging_item_id, redeem_leg_id, purchase_leg_id, state)
                   VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at, updated_at`
	err := r.storage.pool.QueryRow(ctx, query,
		intent.ID, intent.GroupID, intent.Kind, intent.StagingItemID, intent.RedeemLegID, intent.PurchaseLegID, intent.State,
	).Scan(&intent.CreatedAt, &intent.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *pairIntentRepository) GetByGroup(ctx context.Context, groupID string) (*model.PairIntent, error) {
	const query = `SELECT id, group_id, kind, staging_item_id, redeem_leg_id, purchase_leg_id, state, created_at, updated_at
                   FROM pair_intents WHERE group_id=$1`
	var intent model.PairIntent
	err := r.storage.pool.QueryRow(ctx, query, groupID).Scan(
		&intent.ID, &intent.GroupID, &intent.Kind, &intent.StagingItemID,
		&intent.RedeemLegID, &intent.PurchaseLegID, &intent.State, &intent.CreatedAt, &intent.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &intent, nil
}

func (r *pairIntentRepository) Update(ctx context.Context, intent *model.PairIntent) error {
	const query = `UPDATE pair_intents SET staging_item_id=$1, redeem_leg_id=$2, purchase_leg_id=$3, state=$4, updated_at=NOW()
                   WHERE id=$5`
	tag, err := r.storage.pool.Exec(ctx, query,
		intent.StagingItemID, intent.RedeemLegID, intent.PurchaseLegID, intent.State, intent.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *pairIntentRepository) SetState(ctx context.Context, intentID string, state model.PairState) error {
	const query = `UPDATE pair_intents SET state=$1, updated_at=NOW() WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, state, intentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *pairIntentRepository) ListUnsettled(ctx context.Context, limit int) ([]model.PairIntent, error) {
	const query = `SELECT id, group_id, kind, staging_item_id, redeem_leg_id, purchase_leg_id, state, created_at, updated_at
                   FROM pair_intents WHERE state IN ('PENDING', 'DIVERGENT') ORDER BY updated_at LIMIT $1`
	rows, err := r.storage.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.PairIntent
	for rows.Next() {
		var intent model.PairIntent
		if err := rows.Scan(
			&intent.ID, &intent.GroupID, &intent.Kind, &intent.StagingItemID,
			&intent.RedeemLegID, &intent.PurchaseLegID, &intent.State, &intent.CreatedAt, &intent.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, intent)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Pool exposes the underlying connection pool for advanced use.
func (s *Storage) Pool() DBPool {
	return s.pool
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
