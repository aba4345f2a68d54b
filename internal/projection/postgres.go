package projection

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/luuthuong/go-ecommerce-order/internal/domain"
)

func isNoRows(err error) bool { return errors.Is(err, pgx.ErrNoRows) }

const readModelSchema = `
CREATE TABLE IF NOT EXISTS order_views (
	id              uuid PRIMARY KEY,
	customer_name   text NOT NULL,
	order_date      timestamptz NOT NULL,
	status          text NOT NULL,
	street          text NOT NULL,
	city            text NOT NULL,
	state           text NOT NULL,
	zip_code        text NOT NULL,
	country         text NOT NULL,
	total_amount    numeric(18,2) NOT NULL DEFAULT 0,
	payment_date    timestamptz,
	shipping_date   timestamptz,
	tracking_number text NOT NULL DEFAULT '',
	carrier         text NOT NULL DEFAULT '',
	version         integer NOT NULL
);
CREATE INDEX IF NOT EXISTS order_views_status_idx ON order_views (status);
CREATE INDEX IF NOT EXISTS order_views_customer_name_idx ON order_views (customer_name);

CREATE TABLE IF NOT EXISTS order_item_views (
	order_id     uuid NOT NULL REFERENCES order_views (id) ON DELETE CASCADE,
	ordinal      integer NOT NULL,
	product_id   uuid NOT NULL,
	product_name text NOT NULL,
	unit_price   numeric(18,2) NOT NULL,
	quantity     integer NOT NULL,
	total_price  numeric(18,2) NOT NULL,
	PRIMARY KEY (order_id, ordinal)
);
`

const summarySelect = `
SELECT o.id, o.customer_name, o.order_date, o.status, o.total_amount,
	(SELECT COUNT(*) FROM order_item_views i WHERE i.order_id = o.id) AS item_count
FROM order_views o`

// PostgresStore is the durable read-model store.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a read-model store on the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the read-model tables and their indexes.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, readModelSchema); err != nil {
		return domain.WrapError(domain.CodeStorageFailure, "create read model schema", err)
	}
	return nil
}

// Get implements Store.
func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	var o Order
	err := s.pool.QueryRow(ctx,
		`SELECT id, customer_name, order_date, status,
			street, city, state, zip_code, country,
			total_amount, payment_date, shipping_date,
			tracking_number, carrier, version
		 FROM order_views WHERE id = $1`,
		id,
	).Scan(&o.ID, &o.CustomerName, &o.OrderDate, &o.Status,
		&o.ShippingAddress.Street, &o.ShippingAddress.City, &o.ShippingAddress.State,
		&o.ShippingAddress.ZipCode, &o.ShippingAddress.Country,
		&o.TotalAmount, &o.PaymentDate, &o.ShippingDate,
		&o.TrackingNumber, &o.Carrier, &o.Version)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.Errorf(domain.CodeNotFound, "order %s not found", id)
		}
		return nil, domain.WrapError(domain.CodeStorageFailure, "read order view", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT order_id, product_id, product_name, unit_price, quantity, total_price
		 FROM order_item_views WHERE order_id = $1 ORDER BY ordinal ASC`,
		id,
	)
	if err != nil {
		return nil, domain.WrapError(domain.CodeStorageFailure, "read order item views", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.OrderID, &item.ProductID, &item.ProductName,
			&item.UnitPrice, &item.Quantity, &item.TotalPrice); err != nil {
			return nil, domain.WrapError(domain.CodeStorageFailure, "scan order item view", err)
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(domain.CodeStorageFailure, "read order item views", err)
	}
	return &o, nil
}

// Put implements Store. The row upsert plus item rewrite run in one
// transaction so readers never see a half-updated order.
func (s *PostgresStore) Put(ctx context.Context, o *Order) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.WrapError(domain.CodeStorageFailure, "begin put", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO order_views
			(id, customer_name, order_date, status,
			 street, city, state, zip_code, country,
			 total_amount, payment_date, shipping_date,
			 tracking_number, carrier, version)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 ON CONFLICT (id) DO UPDATE SET
			customer_name = EXCLUDED.customer_name,
			order_date = EXCLUDED.order_date,
			status = EXCLUDED.status,
			street = EXCLUDED.street,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			zip_code = EXCLUDED.zip_code,
			country = EXCLUDED.country,
			total_amount = EXCLUDED.total_amount,
			payment_date = EXCLUDED.payment_date,
			shipping_date = EXCLUDED.shipping_date,
			tracking_number = EXCLUDED.tracking_number,
			carrier = EXCLUDED.carrier,
			version = EXCLUDED.version`,
		o.ID, o.CustomerName, o.OrderDate, o.Status,
		o.ShippingAddress.Street, o.ShippingAddress.City, o.ShippingAddress.State,
		o.ShippingAddress.ZipCode, o.ShippingAddress.Country,
		o.TotalAmount, o.PaymentDate, o.ShippingDate,
		o.TrackingNumber, o.Carrier, o.Version,
	)
	if err != nil {
		return domain.WrapError(domain.CodeStorageFailure, "upsert order view", err)
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM order_item_views WHERE order_id = $1`, o.ID); err != nil {
		return domain.WrapError(domain.CodeStorageFailure, "clear order item views", err)
	}
	for ordinal, item := range o.Items {
		_, err = tx.Exec(ctx,
			`INSERT INTO order_item_views
				(order_id, ordinal, product_id, product_name, unit_price, quantity, total_price)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			o.ID, ordinal, item.ProductID, item.ProductName,
			item.UnitPrice, item.Quantity, item.TotalPrice,
		)
		if err != nil {
			return domain.WrapError(domain.CodeStorageFailure, "insert order item view", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.WrapError(domain.CodeStorageFailure, "commit put", err)
	}
	return nil
}

// List implements Store.
func (s *PostgresStore) List(ctx context.Context, customerName string) ([]OrderSummary, error) {
	query := summarySelect + ` ORDER BY o.order_date DESC`
	args := []any{}
	if customerName != "" {
		query = summarySelect + ` WHERE o.customer_name = $1 ORDER BY o.order_date DESC`
		args = append(args, customerName)
	}
	return s.listSummaries(ctx, query, args...)
}

// ListByStatus implements Store.
func (s *PostgresStore) ListByStatus(ctx context.Context, status string) ([]OrderSummary, error) {
	return s.listSummaries(ctx,
		summarySelect+` WHERE o.status = $1 ORDER BY o.order_date DESC`, status)
}

func (s *PostgresStore) listSummaries(ctx context.Context, query string, args ...any) ([]OrderSummary, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.WrapError(domain.CodeStorageFailure, "list order views", err)
	}
	defer rows.Close()

	summaries := make([]OrderSummary, 0)
	for rows.Next() {
		var sum OrderSummary
		if err := rows.Scan(&sum.ID, &sum.CustomerName, &sum.OrderDate,
			&sum.Status, &sum.TotalAmount, &sum.ItemCount); err != nil {
			return nil, domain.WrapError(domain.CodeStorageFailure, "scan order summary", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(domain.CodeStorageFailure, "list order views", err)
	}
	return summaries, nil
}
