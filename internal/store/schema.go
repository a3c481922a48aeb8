package store

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS workflows (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL DEFAULT '',
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		version     INTEGER NOT NULL DEFAULT 1,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id                TEXT PRIMARY KEY,
		workflow_id       TEXT NOT NULL REFERENCES workflows(id) ON DELETE CASCADE,
		step_number       INTEGER NOT NULL,
		title             TEXT NOT NULL,
		description       TEXT NOT NULL DEFAULT '',
		instructions_html TEXT NOT NULL DEFAULT '',
		knowledge_links   TEXT NOT NULL DEFAULT '[]',
		image_url         TEXT NOT NULL DEFAULT '',
		importance        TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_workflow_step ON tasks(workflow_id, step_number)`,
	`CREATE TABLE IF NOT EXISTS executions (
		id                 TEXT PRIMARY KEY,
		workflow_id        TEXT NOT NULL,
		workflow_version   INTEGER NOT NULL,
		completed_task_ids TEXT NOT NULL DEFAULT '[]',
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL,
		UNIQUE (workflow_id, workflow_version)
	)`,
	`CREATE TABLE IF NOT EXISTS knowledge_items (
		id           TEXT PRIMARY KEY,
		title        TEXT NOT NULL,
		content_html TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,
}

func (s *Store) initSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.execWithRetry(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
