package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"skibazar/internal/registration/models"
	"skibazar/internal/registration/store/migrations"
	"skibazar/pkg/platform/sentinel"
)

// PostgresStore persists registrations in PostgreSQL. Every operation runs
// in its own transaction; the line_items table cascades on registration
// deletion and carries the submission order in its position column.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres wraps an open database handle.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Open connects to PostgreSQL via the pgx stdlib driver and applies pending
// migrations.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration: %w", err)
	}
	return db, nil
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	return goose.UpContext(ctx, db, ".")
}

func (s *PostgresStore) Create(ctx context.Context, reg *models.Registration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var rowID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO registrations (identifier, full_name, phone, email, note, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		reg.Identifier, reg.Name, reg.Phone, reg.Email, reg.Note, reg.CreatedAt,
	).Scan(&rowID)
	if err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}

	if err := insertItems(ctx, tx, rowID, reg.Items); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetByIdentifier(ctx context.Context, identifier string) (*models.Registration, error) {
	var (
		rowID int64
		reg   models.Registration
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, identifier, full_name, phone, email, note, created_at
		 FROM registrations
		 WHERE identifier = $1`,
		identifier,
	).Scan(&rowID, &reg.Identifier, &reg.Name, &reg.Phone, &reg.Email, &reg.Note, &reg.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("select registration: %w", err)
	}

	items, err := s.loadItems(ctx, rowID)
	if err != nil {
		return nil, err
	}
	reg.Items = items
	return &reg, nil
}

func (s *PostgresStore) Replace(ctx context.Context, reg *models.Registration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var rowID int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM registrations WHERE identifier = $1 FOR UPDATE`,
		reg.Identifier,
	).Scan(&rowID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("lock registration: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE registrations SET full_name = $1, phone = $2, email = $3, note = $4 WHERE id = $5`,
		reg.Name, reg.Phone, reg.Email, reg.Note, rowID,
	)
	if err != nil {
		return fmt.Errorf("update registration: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM line_items WHERE registration_id = $1`, rowID); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}

	if err := insertItems(ctx, tx, rowID, reg.Items); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]*models.Registration, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, identifier, full_name, phone, email, note, created_at
		 FROM registrations
		 ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var (
		result []*models.Registration
		byID   = make(map[int64]*models.Registration)
		ids    []int64
	)
	for rows.Next() {
		var (
			rowID int64
			reg   models.Registration
		)
		if err := rows.Scan(&rowID, &reg.Identifier, &reg.Name, &reg.Phone, &reg.Email, &reg.Note, &reg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		reg.Items = []models.LineItem{}
		result = append(result, &reg)
		byID[rowID] = &reg
		ids = append(ids, rowID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registrations: %w", err)
	}
	if len(ids) == 0 {
		return result, nil
	}

	itemRows, err := s.db.QueryContext(ctx,
		`SELECT li.registration_id, li.description, li.size, li.price
		 FROM line_items li
		 ORDER BY li.registration_id, li.position`,
	)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			regID int64
			item  models.LineItem
		)
		if err := itemRows.Scan(&regID, &item.Description, &item.Size, &item.Price); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if reg, ok := byID[regID]; ok {
			reg.Items = append(reg.Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return result, nil
}

func (s *PostgresStore) loadItems(ctx context.Context, rowID int64) ([]models.LineItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT description, size, price
		 FROM line_items
		 WHERE registration_id = $1
		 ORDER BY position`,
		rowID,
	)
	if err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}
	defer rows.Close()

	items := []models.LineItem{}
	for rows.Next() {
		var item models.LineItem
		if err := rows.Scan(&item.Description, &item.Size, &item.Price); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

func insertItems(ctx context.Context, tx *sql.Tx, rowID int64, items []models.LineItem) error {
	for position, item := range items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO line_items (registration_id, position, description, size, price)
			 VALUES ($1, $2, $3, $4, $5)`,
			rowID, position, item.Description, item.Size, item.Price,
		)
		if err != nil {
			return fmt.Errorf("insert item %d: %w", position, err)
		}
	}
	return nil
}
