package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/vkotelnikov/codemart/internal/domain/errors"
	"github.com/vkotelnikov/codemart/internal/domain/model"
	"github.com/vkotelnikov/codemart/internal/domain/repository"
)

// pgxPool is the subset of pgxpool.Pool the storage depends on. Narrowing to
// an interface lets tests substitute a mock pool.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type productRepository struct {
	storage *Storage
}

type stockRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
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
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Products() repository.ProductRepository {
	return &productRepository{storage: s}
}

func (s *Storage) Stock() repository.StockRepository {
	return &stockRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            price BIGINT NOT NULL,
            min_purchase INT NOT NULL DEFAULT 1
        )`,
		`CREATE TABLE IF NOT EXISTS stock_items (
            id SERIAL PRIMARY KEY,
            product_id BIGINT NOT NULL REFERENCES products(id),
            redeem_code TEXT UNIQUE NOT NULL,
            status TEXT NOT NULL DEFAULT 'available',
            order_id TEXT,
            reserved_at TIMESTAMPTZ,
            paid_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            product_id BIGINT NOT NULL REFERENCES products(id),
            quantity INT NOT NULL,
            total_paid BIGINT NOT NULL,
            payment_status TEXT NOT NULL DEFAULT 'pending',
            gateway_order_id TEXT NOT NULL,
            gateway_transaction_id TEXT,
            rating INT,
            reserved_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            paid_at TIMESTAMPTZ,
            expires_at TIMESTAMPTZ NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_stock_product_status ON stock_items(product_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, reserved_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_gateway ON orders(gateway_order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_pending ON orders(payment_status, reserved_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, login, passwordHash string) (*model.User, error) {
	const query = `INSERT INTO users (login, password_hash) VALUES ($1, $2) RETURNING id, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login, passwordHash).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	u.Login = login
	u.PasswordHash = passwordHash
	return &u, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	const query = `SELECT id, login, password_hash, created_at FROM users WHERE login=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, login, password_hash, created_at FROM users WHERE id=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// --- ProductRepository implementation ---

func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	const query = `SELECT id, name, price, min_purchase FROM products WHERE id=$1`
	var p model.Product
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Price, &p.MinPurchase)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// --- StockRepository implementation ---

func (r *stockRepository) CountAvailable(ctx context.Context, productID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM stock_items WHERE product_id=$1 AND status='available'`
	var count int
	if err := r.storage.pool.QueryRow(ctx, query, productID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *stockRepository) Release(ctx context.Context, stockIDs []int64) error {
	if len(stockIDs) == 0 {
		return nil
	}
	const query = `UPDATE stock_items
                   SET status='available', order_id=NULL, reserved_at=NULL, paid_at=NULL
                   WHERE id = ANY($1) AND status <> 'available'`
	_, err := r.storage.pool.Exec(ctx, query, stockIDs)
	return err
}

func (r *stockRepository) MarkPaid(ctx context.Context, stockID int64, orderID string) (bool, error) {
	const query = `UPDATE stock_items SET status='paid', paid_at=NOW()
                   WHERE id=$1 AND order_id=$2 AND status='pending'`
	tag, err := r.storage.pool.Exec(ctx, query, stockID, orderID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *stockRepository) ListByOrder(ctx context.Context, orderID string) ([]model.StockItem, error) {
	const query = `SELECT id, product_id, redeem_code, status, order_id, reserved_at, paid_at, created_at
                   FROM stock_items WHERE order_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.StockItem
	for rows.Next() {
		var item model.StockItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.RedeemCode, &item.Status, &item.OrderID, &item.ReservedAt, &item.PaidAt, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *stockRepository) BulkInsert(ctx context.Context, productID int64, codes []string) (int, error) {
	const query = `INSERT INTO stock_items (product_id, redeem_code) VALUES ($1, $2)`
	inserted := 0
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		for _, code := range codes {
			if _, err := tx.Exec(ctx, query, productID, code); err != nil {
				var pgErr *pgconn.PgError
				if errors.As(err, &pgErr) && pgErr.Code == "23505" {
					return domainErrors.ErrAlreadyExists
				}
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

func (r *stockRepository) DeleteAvailable(ctx context.Context, stockID int64) error {
	const query = `DELETE FROM stock_items WHERE id=$1 AND status='available'`
	tag, err := r.storage.pool.Exec(ctx, query, stockID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- OrderRepository implementation ---

const orderColumns = `id, user_id, product_id, quantity, total_paid, payment_status,
                      gateway_order_id, gateway_transaction_id, rating, reserved_at, paid_at, expires_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.UserID, &o.ProductID, &o.Quantity, &o.TotalPaid, &o.PaymentStatus,
		&o.GatewayOrderID, &o.GatewayTransactionID, &o.Rating, &o.ReservedAt, &o.PaidAt, &o.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) CreateWithStock(ctx context.Context, order *model.Order) (*model.Order, error) {
	const insertOrder = `INSERT INTO orders
        (id, user_id, product_id, quantity, total_paid, payment_status, gateway_order_id, reserved_at, expires_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	// Available rows are picked in random order and locked with SKIP LOCKED,
	// so concurrent checkouts never contend for the same items.
	const claimStock = `WITH picked AS (
            SELECT id FROM stock_items
            WHERE product_id=$1 AND status='available'
            ORDER BY random()
            LIMIT $2
            FOR UPDATE SKIP LOCKED
        )
        UPDATE stock_items SET status='pending', order_id=$3, reserved_at=NOW()
        FROM picked WHERE stock_items.id = picked.id
        RETURNING stock_items.id`

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, insertOrder,
			order.ID, order.UserID, order.ProductID, order.Quantity, order.TotalPaid,
			order.PaymentStatus, order.GatewayOrderID, order.ReservedAt, order.ExpiresAt,
		); err != nil {
			return err
		}

		rows, err := tx.Query(ctx, claimStock, order.ProductID, order.Quantity, order.ID)
		if err != nil {
			return err
		}
		defer rows.Close()

		var claimed []int64
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				return err
			}
			claimed = append(claimed, id)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		if len(claimed) < order.Quantity {
			return domainErrors.InsufficientStockError{Requested: order.Quantity, Available: len(claimed)}
		}
		order.StockIDs = claimed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	return scanOrder(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *orderRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE gateway_order_id=$1`
	return scanOrder(r.storage.pool.QueryRow(ctx, query, gatewayOrderID))
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id=$1 ORDER BY reserved_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *orderRepository) SelectPendingBatch(ctx context.Context, limit int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
              WHERE payment_status='pending' ORDER BY reserved_at LIMIT $1`
	rows, err := r.storage.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.ProductID, &o.Quantity, &o.TotalPaid, &o.PaymentStatus,
			&o.GatewayOrderID, &o.GatewayTransactionID, &o.Rating, &o.ReservedAt, &o.PaidAt, &o.ExpiresAt); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) BindGatewayID(ctx context.Context, orderID, gatewayOrderID string) error {
	const query = `UPDATE orders SET gateway_order_id=$2 WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, orderID, gatewayOrderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) SettleCompleted(ctx context.Context, orderID, transactionID string) (bool, error) {
	// The order update is conditional on pending status. Losing the race
	// commits nothing: the stock update below is scoped to still-pending
	// items of this order, which a terminal order no longer has.
	const settleOrder = `UPDATE orders
                         SET payment_status='completed', gateway_transaction_id=$2, paid_at=NOW()
                         WHERE id=$1 AND payment_status='pending'`
	const settleStock = `UPDATE stock_items SET status='paid', paid_at=NOW()
                         WHERE order_id=$1 AND status='pending'`

	won := false
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, settleOrder, orderID, transactionID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		if _, err := tx.Exec(ctx, settleStock, orderID); err != nil {
			return err
		}
		won = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return won, nil
}

func (r *orderRepository) SettleReleased(ctx context.Context, orderID string, status model.PaymentStatus) (bool, error) {
	const settleOrder = `UPDATE orders SET payment_status=$2
                         WHERE id=$1 AND payment_status='pending'`
	const releaseStock = `UPDATE stock_items
                          SET status='available', order_id=NULL, reserved_at=NULL
                          WHERE order_id=$1 AND status='pending'`

	won := false
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, settleOrder, orderID, status)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		if _, err := tx.Exec(ctx, releaseStock, orderID); err != nil {
			return err
		}
		won = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return won, nil
}

func (r *orderRepository) SetRating(ctx context.Context, orderID string, rating int) error {
	const query = `UPDATE orders SET rating=$2 WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, orderID, rating)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
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

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
