package localcart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "modernc.org/sqlite"

	"github.com/trunglearn/PerfumeShop-sub001/internal/domain"
)

// SQLiteStore keeps the guest cart in an embedded sqlite database, the
// durable local storage for visitors without a session.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Items(ctx context.Context, guestID string) ([]domain.CartLineItem, error) {
	query := `
		SELECT product_id, quantity
		FROM guest_cart_items
		WHERE guest_id = ?
		ORDER BY added_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, guestID)
	if err != nil {
		return nil, fmt.Errorf("failed to query guest cart: %w", err)
	}
	defer rows.Close()

	var items []domain.CartLineItem
	for rows.Next() {
		var item domain.CartLineItem
		if err := rows.Scan(&item.ProductID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cart lines: %w", err)
	}

	return items, nil
}

func (s *SQLiteStore) Merge(ctx context.Context, guestID string, item domain.CartLineItem) error {
	// added_at is bumped on merge so the line moves to the front of the
	// most-recently-added ordering.
	query := `
		INSERT INTO guest_cart_items (guest_id, product_id, quantity, added_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (guest_id, product_id)
		DO UPDATE SET quantity = quantity + excluded.quantity, added_at = excluded.added_at
	`

	_, err := s.db.ExecContext(ctx, query, guestID, item.ProductID, item.Quantity, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to merge cart line: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SetQuantity(ctx context.Context, guestID, productID string, quantity int) error {
	query := `
		UPDATE guest_cart_items
		SET quantity = ?
		WHERE guest_id = ? AND product_id = ?
	`

	res, err := s.db.ExecContext(ctx, query, quantity, guestID, productID)
	if err != nil {
		return fmt.Errorf("failed to update cart line: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, guestID, productID string) error {
	query := `DELETE FROM guest_cart_items WHERE guest_id = ? AND product_id = ?`

	if _, err := s.db.ExecContext(ctx, query, guestID, productID); err != nil {
		return fmt.Errorf("failed to delete cart line: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context, guestID string) error {
	query := `DELETE FROM guest_cart_items WHERE guest_id = ?`

	if _, err := s.db.ExecContext(ctx, query, guestID); err != nil {
		return fmt.Errorf("failed to clear guest cart: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
