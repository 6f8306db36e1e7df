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

	domainErrors "github.com/Arvinajith/online-event-server/internal/domain/errors"
	"github.com/Arvinajith/online-event-server/internal/domain/model"
	"github.com/Arvinajith/online-event-server/internal/domain/repository"
)

// pool is the subset of pgxpool.Pool the storage relies on. Tests substitute
// a pgxmock pool through it.
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pool
	logger *slog.Logger
}

type eventRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type inventoryRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pgPool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pgPool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pgPool.Close()
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
func (s *Storage) Events() repository.EventRepository {
	return &eventRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Inventory() repository.InventoryRepository {
	return &inventoryRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS events (
            id UUID PRIMARY KEY,
            organizer_id BIGINT NOT NULL,
            title TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            location TEXT NOT NULL DEFAULT '',
            start_date TIMESTAMPTZ,
            end_date TIMESTAMPTZ,
            published BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS ticket_tiers (
            event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
            position INT NOT NULL DEFAULT 0,
            label TEXT NOT NULL,
            unit_price DOUBLE PRECISION NOT NULL CHECK (unit_price >= 0),
            quantity_total INT NOT NULL CHECK (quantity_total >= 0),
            quantity_sold INT NOT NULL DEFAULT 0
                CHECK (quantity_sold >= 0 AND quantity_sold <= quantity_total),
            PRIMARY KEY (event_id, label)
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id UUID PRIMARY KEY,
            user_id BIGINT NOT NULL,
            total_amount DOUBLE PRECISION NOT NULL,
            payment_status TEXT NOT NULL,
            payment_provider TEXT NOT NULL,
            payment_reference TEXT NOT NULL UNIQUE,
            attendees JSONB NOT NULL DEFAULT '[]',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            position INT NOT NULL,
            event_id UUID NOT NULL,
            ticket_label TEXT NOT NULL,
            unit_price DOUBLE PRECISION NOT NULL,
            quantity INT NOT NULL CHECK (quantity > 0),
            PRIMARY KEY (order_id, position)
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_pending ON orders(payment_status, updated_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- EventRepository implementation ---

func (r *eventRepository) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertEvent = `INSERT INTO events (id, organizer_id, title, description, location, start_date, end_date, published)
                             VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                             RETURNING created_at`
		if err := tx.QueryRow(ctx, insertEvent,
			event.ID, event.OrganizerID, event.Title, event.Description,
			event.Location, event.StartDate, event.EndDate, event.Published,
		).Scan(&event.CreatedAt); err != nil {
			return err
		}

		const insertTier = `INSERT INTO ticket_tiers (event_id, position, label, unit_price, quantity_total, quantity_sold)
                            VALUES ($1, $2, $3, $4, $5, $6)`
		for i, tier := range event.Tiers {
			if _, err := tx.Exec(ctx, insertTier, event.ID, i, tier.Label, tier.UnitPrice, tier.QuantityTotal, tier.QuantitySold); err != nil {
				var pgErr *pgconn.PgError
				if errors.As(err, &pgErr) && pgErr.Code == "23505" {
					return domainErrors.ErrAlreadyExists
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	const eventQuery = `SELECT id, organizer_id, title, description, location, start_date, end_date, published, created_at
                        FROM events WHERE id=$1`
	var e model.Event
	err := r.storage.pool.QueryRow(ctx, eventQuery, id).Scan(
		&e.ID, &e.OrganizerID, &e.Title, &e.Description, &e.Location,
		&e.StartDate, &e.EndDate, &e.Published, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrEventNotFound
		}
		return nil, err
	}

	const tierQuery = `SELECT label, unit_price, quantity_total, quantity_sold
                       FROM ticket_tiers WHERE event_id=$1 ORDER BY position`
	rows, err := r.storage.pool.Query(ctx, tierQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var t model.TicketTier
		if err := rows.Scan(&t.Label, &t.UnitPrice, &t.QuantityTotal, &t.QuantitySold); err != nil {
			return nil, err
		}
		e.Tiers = append(e.Tiers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *eventRepository) ListPublished(ctx context.Context) ([]model.Event, error) {
	const query = `SELECT e.id, e.organizer_id, e.title, e.description, e.location, e.start_date, e.end_date, e.published, e.created_at,
                          t.label, t.unit_price, t.quantity_total, t.quantity_sold
                   FROM events e
                   LEFT JOIN ticket_tiers t ON t.event_id = e.id
                   WHERE e.published
                   ORDER BY e.created_at DESC, t.position`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Event
	index := make(map[string]int)
	for rows.Next() {
		var e model.Event
		var label *string
		var unitPrice *float64
		var total, sold *int
		if err := rows.Scan(
			&e.ID, &e.OrganizerID, &e.Title, &e.Description, &e.Location,
			&e.StartDate, &e.EndDate, &e.Published, &e.CreatedAt,
			&label, &unitPrice, &total, &sold,
		); err != nil {
			return nil, err
		}
		pos, seen := index[e.ID]
		if !seen {
			pos = len(result)
			index[e.ID] = pos
			result = append(result, e)
		}
		if label != nil {
			result[pos].Tiers = append(result[pos].Tiers, model.TicketTier{
				Label:         *label,
				UnitPrice:     *unitPrice,
				QuantityTotal: *total,
				QuantitySold:  *sold,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- InventoryRepository implementation ---

func (r *inventoryRepository) TierState(ctx context.Context, eventID, label string) (*model.TicketTier, error) {
	const query = `SELECT label, unit_price, quantity_total, quantity_sold
                   FROM ticket_tiers WHERE event_id=$1 AND label=$2`
	var t model.TicketTier
	err := r.storage.pool.QueryRow(ctx, query, eventID, label).Scan(&t.Label, &t.UnitPrice, &t.QuantityTotal, &t.QuantitySold)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrTierNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *inventoryRepository) CommitSale(ctx context.Context, eventID, label string, quantity int) error {
	// The capacity check and the increment run in one statement so that two
	// concurrent commits can never both pass the bound.
	const query = `UPDATE ticket_tiers
                   SET quantity_sold = quantity_sold + $3
                   WHERE event_id=$1 AND label=$2 AND quantity_sold + $3 <= quantity_total`
	tag, err := r.storage.pool.Exec(ctx, query, eventID, label, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	if _, err := r.TierState(ctx, eventID, label); err != nil {
		return err
	}
	return domainErrors.ErrInsufficientInventory
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	attendees, err := json.Marshal(order.Attendees)
	if err != nil {
		return nil, fmt.Errorf("marshal attendees: %w", err)
	}

	err = r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertOrder = `INSERT INTO orders (id, user_id, total_amount, payment_status, payment_provider, payment_reference, attendees)
                             VALUES ($1, $2, $3, $4, $5, $6, $7)
                             RETURNING created_at, updated_at`
		if err := tx.QueryRow(ctx, insertOrder,
			order.ID, order.UserID, order.TotalAmount, order.PaymentStatus,
			order.PaymentProvider, string(order.PaymentReference), attendees,
		).Scan(&order.CreatedAt, &order.UpdatedAt); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return domainErrors.ErrAlreadyExists
			}
			return err
		}

		const insertItem = `INSERT INTO order_items (order_id, position, event_id, ticket_label, unit_price, quantity)
                            VALUES ($1, $2, $3, $4, $5, $6)`
		for i, item := range order.Items {
			if _, err := tx.Exec(ctx, insertItem, order.ID, i, item.EventID, item.TicketLabel, item.UnitPrice, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

const orderColumns = `id, user_id, total_amount, payment_status, payment_provider, payment_reference, attendees, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	var ref string
	var attendees []byte
	err := row.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.PaymentStatus, &o.PaymentProvider, &ref, &attendees, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.PaymentReference = model.PaymentReference(ref)
	if len(attendees) > 0 {
		if err := json.Unmarshal(attendees, &o.Attendees); err != nil {
			return nil, fmt.Errorf("unmarshal attendees: %w", err)
		}
	}
	return &o, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	const query = `SELECT event_id, ticket_label, unit_price, quantity
                   FROM order_items WHERE order_id=$1 ORDER BY position`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.EventID, &item.TicketLabel, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *orderRepository) GetByPaymentReference(ctx context.Context, ref model.PaymentReference) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE payment_reference=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, string(ref)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrOrderNotFound
		}
		return nil, err
	}
	if order.Items, err = r.loadItems(ctx, order.ID); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
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

	for i := range result {
		if result[i].Items, err = r.loadItems(ctx, result[i].ID); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *orderRepository) ClaimPaid(ctx context.Context, ref model.PaymentReference) (*model.Order, bool, error) {
	// Flipping pending->paid by conditional update makes settlement
	// idempotent: a redelivered notification finds no pending row to claim.
	query := `UPDATE orders SET payment_status=$2, updated_at=NOW()
              WHERE payment_reference=$1 AND payment_status=$3
              RETURNING ` + orderColumns
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, string(ref), model.PaymentStatusPaid, model.PaymentStatusPending))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			existing, err := r.GetByPaymentReference(ctx, ref)
			if err != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	if order.Items, err = r.loadItems(ctx, order.ID); err != nil {
		return nil, false, err
	}
	return order, true, nil
}

func (r *orderRepository) SetStatus(ctx context.Context, orderID string, status model.PaymentStatus) error {
	const query = `UPDATE orders SET payment_status=$1, updated_at=NOW() WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, status, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) SelectPendingBatch(ctx context.Context, limit int, olderThan time.Duration) ([]model.Order, error) {
	selectQuery := `SELECT ` + orderColumns + `
                    FROM orders
                    WHERE payment_status='pending' AND updated_at < NOW() - make_interval(secs => $2)
                    ORDER BY updated_at
                    LIMIT $1
                    FOR UPDATE SKIP LOCKED`

	var orders []model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, limit, olderThan.Seconds())
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

		for _, order := range orders {
			if _, err := tx.Exec(ctx, `UPDATE orders SET updated_at=NOW() WHERE id=$1`, order.ID); err != nil {
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
