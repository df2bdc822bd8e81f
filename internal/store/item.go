package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ayusman/showreel/internal/gallery"
)

// ItemRepository persists the ordered item set.
type ItemRepository struct {
	db *sql.DB
}

// Items returns the item repository for this store.
func (s *Store) Items() *ItemRepository {
	return &ItemRepository{db: s.db}
}

// ReplaceAll swaps the stored set for items in a single transaction.
func (r *ItemRepository) ReplaceAll(items []gallery.Item) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM items`); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO items (position, id, url, title, category, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for i, item := range items {
		if _, err := stmt.Exec(i, item.ID, item.URL, item.Title, item.Category, now); err != nil {
			return fmt.Errorf("failed to insert item %s: %w", item.ID, err)
		}
	}

	return tx.Commit()
}

// List returns the stored set in order. An empty store yields an empty slice.
func (r *ItemRepository) List() ([]gallery.Item, error) {
	rows, err := r.db.Query(
		`SELECT id, url, title, category FROM items ORDER BY position`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []gallery.Item{}
	for rows.Next() {
		var item gallery.Item
		if err := rows.Scan(&item.ID, &item.URL, &item.Title, &item.Category); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// Count returns the number of stored items.
func (r *ItemRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&n)
	return n, err
}

// LoadOrSeed returns the stored set, writing and returning defaults when the
// store is empty.
func (r *ItemRepository) LoadOrSeed(defaults []gallery.Item) ([]gallery.Item, error) {
	items, err := r.List()
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		return items, nil
	}
	if err := r.ReplaceAll(defaults); err != nil {
		return nil, err
	}
	out := make([]gallery.Item, len(defaults))
	copy(out, defaults)
	return out, nil
}
