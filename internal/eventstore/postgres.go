package eventstore

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/luuthuong/go-ecommerce-order/internal/domain"
)

const eventsSchema = `
CREATE TABLE IF NOT EXISTS order_events (
	event_id        uuid PRIMARY KEY,
	aggregate_id    uuid NOT NULL,
	created_at      timestamptz NOT NULL,
	sequence_number integer NOT NULL,
	event_type      text NOT NULL,
	payload         jsonb NOT NULL,
	UNIQUE (aggregate_id, sequence_number)
);
CREATE INDEX IF NOT EXISTS order_events_aggregate_id_idx ON order_events (aggregate_id);
CREATE INDEX IF NOT EXISTS order_events_event_type_idx ON order_events (event_type);
`

// PostgresStore is the durable Store backed by Postgres. All events of one
// append land in a single transaction; the unique (aggregate_id,
// sequence_number) constraint is the last line of defense against concurrent
// writers that slip past the expected-version check.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
	retry  RetryConfig

	mu       sync.Mutex
	handlers []Handler
}

// NewPostgresStore creates a Store on the given pool.
func NewPostgresStore(pool *pgxpool.Pool, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{pool: pool, logger: logger, retry: DefaultRetryConfig()}
}

// EnsureSchema creates the events table and its indexes.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, eventsSchema); err != nil {
		return domain.WrapError(domain.CodeStorageFailure, "create events schema", err)
	}
	return nil
}

// Append implements Store.
func (s *PostgresStore) Append(ctx context.Context, aggregateID uuid.UUID, expectedVersion int, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	records, err := buildRecords(events, expectedVersion)
	if err != nil {
		return err
	}

	err = retryWithBackoff(ctx, s.retry, isTransient, func() error {
		return s.appendTx(ctx, aggregateID, expectedVersion, records)
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "events appended",
		"aggregate_id", aggregateID, "count", len(records))

	s.mu.Lock()
	handlers := append([]Handler(nil), s.handlers...)
	s.mu.Unlock()

	// The transaction is committed; a failing subscriber must not undo it.
	return broadcast(ctx, handlers, events)
}

func (s *PostgresStore) appendTx(ctx context.Context, aggregateID uuid.UUID, expectedVersion int, records []Record) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.WrapError(domain.CodeStorageFailure, "begin append", err)
	}
	defer tx.Rollback(ctx)

	var latest int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(sequence_number), -1) FROM order_events WHERE aggregate_id = $1`,
		aggregateID,
	).Scan(&latest)
	if err != nil {
		return domain.WrapError(domain.CodeStorageFailure, "read latest sequence", err)
	}
	if latest != expectedVersion {
		return domain.Errorf(domain.CodeVersionConflict,
			"aggregate %s is at version %d, expected %d", aggregateID, latest, expectedVersion)
	}

	for _, rec := range records {
		_, err = tx.Exec(ctx,
			`INSERT INTO order_events
				(event_id, aggregate_id, created_at, sequence_number, event_type, payload)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			rec.EventID, rec.AggregateID, rec.CreatedAt, rec.SequenceNumber,
			string(rec.EventType), rec.Payload,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.Errorf(domain.CodeVersionConflict,
					"aggregate %s sequence %d already written", aggregateID, rec.SequenceNumber)
			}
			return domain.WrapError(domain.CodeStorageFailure, "insert event", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.WrapError(domain.CodeStorageFailure, "commit append", err)
	}
	return nil
}

// Read implements Store.
func (s *PostgresStore) Read(ctx context.Context, aggregateID uuid.UUID) ([]domain.Event, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT event_type, payload
		 FROM order_events
		 WHERE aggregate_id = $1
		 ORDER BY sequence_number ASC`,
		aggregateID,
	)
	if err != nil {
		return nil, domain.WrapError(domain.CodeStorageFailure, "read events", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var eventType string
		var payload []byte
		if err := rows.Scan(&eventType, &payload); err != nil {
			return nil, domain.WrapError(domain.CodeStorageFailure, "scan event", err)
		}
		e, err := Decode(payload, domain.EventType(eventType))
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(domain.CodeStorageFailure, "read events", err)
	}
	return events, nil
}

// Subscribe registers a committed-event handler.
func (s *PostgresStore) Subscribe(h Handler) {
	s.mu.Lock()
	s.handlers = append(s.handlers, h)
	s.mu.Unlock()
}

// isTransient reports whether a storage failure is worth retrying: connection
// loss, serialization failures, and deadlocks. Version conflicts and codec
// failures are terminal for the attempt.
func isTransient(err error) bool {
	var de *domain.Error
	if errors.As(err, &de) && de.Code != domain.CodeStorageFailure {
		return false
	}
	if pgconn.SafeToRetry(err) {
		return true
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01": // serialization failure, deadlock detected
			return true
		}
		return pgerrClass(pgErr.Code) == "08" // connection exceptions
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func pgerrClass(code string) string {
	if len(code) < 2 {
		return code
	}
	return code[:2]
}
