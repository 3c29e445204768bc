package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/easytransfer/backend/internal/models"
)

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	db *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &PostgresStore{db: pool}, nil
}

func (s *PostgresStore) Close() {
	s.db.Close()
}

func (s *PostgresStore) CreateRequest(ctx context.Context, accountID int64, phoneNumber string, amount float64) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx,
		`INSERT INTO requests (account_id, phone_number, amount, status)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		accountID, phoneNumber, amount, models.StatusPending,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("request insert failed: %w", err)
	}
	return id, nil
}

// ClaimNextPending flips the oldest Pending row to Processing in a single
// statement. SKIP LOCKED makes a concurrent claimer move on to the next row
// instead of blocking on one that is already being claimed.
func (s *PostgresStore) ClaimNextPending(ctx context.Context, accountID int64) (*models.Request, error) {
	var req models.Request
	err := s.db.QueryRow(ctx,
		`UPDATE requests SET status = $1
		 WHERE id = (
		   SELECT id FROM requests
		   WHERE account_id = $2 AND status = $3
		   ORDER BY created_at, id
		   LIMIT 1
		   FOR UPDATE SKIP LOCKED
		 )
		 RETURNING id, account_id, phone_number, amount, status, created_at`,
		models.StatusProcessing, accountID, models.StatusPending,
	).Scan(&req.ID, &req.AccountID, &req.PhoneNumber, &req.Amount, &req.Status, &req.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoPendingRequests
		}
		return nil, fmt.Errorf("claim failed: %w", err)
	}
	return &req, nil
}

func (s *PostgresStore) RecordResult(ctx context.Context, accountID, requestID int64, resultStatus, message, finalStatus string) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("tx begin failed: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the request row, scoped by account. A foreign request id scans
	// like a missing one.
	var currentStatus string
	err = tx.QueryRow(ctx,
		`SELECT status FROM requests WHERE id = $1 AND account_id = $2 FOR UPDATE`,
		requestID, accountID,
	).Scan(&currentStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrRequestNotFound
		}
		return fmt.Errorf("request lock failed: %w", err)
	}
	if currentStatus == models.StatusDone || currentStatus == models.StatusFailed {
		return ErrRequestFinalized
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO results (account_id, request_id, status, message) VALUES ($1, $2, $3, $4)`,
		accountID, requestID, resultStatus, message,
	)
	if err != nil {
		return fmt.Errorf("result insert failed: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE requests SET status = $1 WHERE id = $2 AND account_id = $3`,
		finalStatus, requestID, accountID,
	)
	if err != nil {
		return fmt.Errorf("status update failed: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("tx commit failed: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetRequest(ctx context.Context, accountID, requestID int64) (*models.Request, error) {
	var req models.Request
	err := s.db.QueryRow(ctx,
		`SELECT id, account_id, phone_number, amount, status, created_at
		 FROM requests WHERE id = $1 AND account_id = $2`,
		requestID, accountID,
	).Scan(&req.ID, &req.AccountID, &req.PhoneNumber, &req.Amount, &req.Status, &req.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("request query failed: %w", err)
	}
	return &req, nil
}

func (s *PostgresStore) CreateContact(ctx context.Context, accountID int64, phoneNumber, name string, maxPerAccount int) (int64, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("tx begin failed: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serialize contact writes per account. Row locks on the existing
	// contacts cannot block a concurrent insert, so the cap and duplicate
	// checks need an account-level lock to rule out phantoms.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, accountID); err != nil {
		return 0, fmt.Errorf("account lock failed: %w", err)
	}

	rows, err := tx.Query(ctx,
		`SELECT name FROM contacts WHERE account_id = $1`, accountID)
	if err != nil {
		return 0, fmt.Errorf("contact scan failed: %w", err)
	}

	count := 0
	duplicate := false
	for rows.Next() {
		var existing string
		if err := rows.Scan(&existing); err != nil {
			rows.Close()
			return 0, fmt.Errorf("contact scan failed: %w", err)
		}
		count++
		if strings.EqualFold(existing, name) {
			duplicate = true
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("contact scan failed: %w", err)
	}

	if count >= maxPerAccount {
		return 0, ErrContactLimitReached
	}
	if duplicate {
		return 0, ErrDuplicateContactName
	}

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO contacts (account_id, phone_number, name) VALUES ($1, $2, $3) RETURNING id`,
		accountID, phoneNumber, name,
	).Scan(&id)
	if err != nil {
		// The unique index on (account_id, lower(name)) backstops the
		// duplicate check.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrDuplicateContactName
		}
		return 0, fmt.Errorf("contact insert failed: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("tx commit failed: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) DeleteContact(ctx context.Context, accountID, contactID int64) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM contacts WHERE id = $1 AND account_id = $2`, contactID, accountID)
	if err != nil {
		return fmt.Errorf("contact delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrContactNotFound
	}
	return nil
}

func (s *PostgresStore) ListContacts(ctx context.Context, accountID int64) ([]models.Contact, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, account_id, phone_number, name, date_added
		 FROM contacts WHERE account_id = $1 ORDER BY date_added DESC, id DESC`,
		accountID)
	if err != nil {
		return nil, fmt.Errorf("contact query failed: %w", err)
	}
	defer rows.Close()

	contacts := []models.Contact{}
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.AccountID, &c.PhoneNumber, &c.Name, &c.DateAdded); err != nil {
			return nil, fmt.Errorf("contact scan failed: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("contact query failed: %w", err)
	}
	return contacts, nil
}
