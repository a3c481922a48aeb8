package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"loom/internal/knowledge"
)

// SaveKnowledgeItem inserts or updates a knowledge item.
func (s *Store) SaveKnowledgeItem(ctx context.Context, item *knowledge.Item) error {
	if item == nil {
		return errors.New("knowledge item is nil")
	}

	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	_, err := s.execWithRetry(ensureContext(ctx),
		`INSERT INTO knowledge_items (id, title, content_html, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content_html = excluded.content_html,
			updated_at = excluded.updated_at`,
		item.ID, item.Title, item.ContentHTML,
		item.CreatedAt.Format(time.RFC3339Nano), item.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save knowledge item: %w", err)
	}
	return nil
}

// GetKnowledgeItem fetches a knowledge item by id, or nil when absent.
func (s *Store) GetKnowledgeItem(ctx context.Context, id string) (*knowledge.Item, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT id, title, content_html, created_at, updated_at FROM knowledge_items WHERE id = ?`, id)
	item, err := scanKnowledgeItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get knowledge item: %w", err)
	}
	return item, nil
}

// ListKnowledgeItems returns all knowledge items ordered by title.
func (s *Store) ListKnowledgeItems(ctx context.Context) ([]*knowledge.Item, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT id, title, content_html, created_at, updated_at FROM knowledge_items ORDER BY title, id`)
	if err != nil {
		return nil, fmt.Errorf("list knowledge items: %w", err)
	}
	defer rows.Close()

	var items []*knowledge.Item
	for rows.Next() {
		item, err := scanKnowledgeItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan knowledge item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate knowledge items: %w", err)
	}
	return items, nil
}

// DeleteKnowledgeItem removes a knowledge item. Task links referencing it are
// left as dangling ids; the reading surface treats those as plain text.
func (s *Store) DeleteKnowledgeItem(ctx context.Context, id string) error {
	if _, err := s.execWithRetry(ensureContext(ctx), `DELETE FROM knowledge_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete knowledge item: %w", err)
	}
	return nil
}

func scanKnowledgeItem(row rowScanner) (*knowledge.Item, error) {
	var (
		item      knowledge.Item
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&item.ID, &item.Title, &item.ContentHTML, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	item.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	item.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &item, nil
}
