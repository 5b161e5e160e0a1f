package hostapp

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/spetersoncode/storebridge/model"
)

const indexSchema = `
CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    snippet TEXT NOT NULL DEFAULT '',
    tags_json TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS idx_documents_title ON documents(title);
`

// Index is the SQLite document index behind the search effect.
type Index struct {
	sqlDB *sql.DB
}

// OpenIndex opens (or creates) a document index. ":memory:" opens a private
// in-memory index.
func OpenIndex(path string) (*Index, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = ":memory:"
	}
	dsn := ":memory:"
	if path != ":memory:" {
		dsn = "file:" + filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open search index: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping search index: %w", err)
	}
	if _, err := sqlDB.Exec(indexSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ensure search index schema: %w", err)
	}
	return &Index{sqlDB: sqlDB}, nil
}

// Close closes the index.
func (i *Index) Close() error {
	if i == nil || i.sqlDB == nil {
		return nil
	}
	return i.sqlDB.Close()
}

// Put inserts or replaces documents.
func (i *Index) Put(ctx context.Context, docs ...model.Document) error {
	tx, err := i.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin index write: %w", err)
	}
	defer tx.Rollback()

	for _, d := range docs {
		if strings.TrimSpace(d.ID) == "" {
			return fmt.Errorf("document id is required")
		}
		tags, err := json.Marshal(nonNil(d.Tags))
		if err != nil {
			return fmt.Errorf("encode tags of %s: %w", d.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO documents (id, title, snippet, tags_json) VALUES (?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET title = excluded.title, snippet = excluded.snippet, tags_json = excluded.tags_json`,
			d.ID, d.Title, d.Snippet, string(tags)); err != nil {
			return fmt.Errorf("index document %s: %w", d.ID, err)
		}
	}
	return tx.Commit()
}

// Search returns the documents matching q, ordered by title. An empty query
// text matches every document.
func (i *Index) Search(ctx context.Context, q model.Query) ([]model.Document, error) {
	pattern := "%" + escapeLike(strings.TrimSpace(q.Q)) + "%"

	var where string
	var args []any
	switch q.Scope {
	case model.ScopeTitles:
		where = `title LIKE ? ESCAPE '\'`
		args = []any{pattern}
	case model.ScopeTags:
		where = `tags_json LIKE ? ESCAPE '\'`
		args = []any{pattern}
	default:
		where = `title LIKE ? ESCAPE '\' OR snippet LIKE ? ESCAPE '\' OR tags_json LIKE ? ESCAPE '\'`
		args = []any{pattern, pattern, pattern}
	}

	rows, err := i.sqlDB.QueryContext(ctx,
		`SELECT id, title, snippet, tags_json FROM documents WHERE `+where+` ORDER BY title, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	defer rows.Close()

	docs := []model.Document{}
	for rows.Next() {
		var (
			d        model.Document
			tagsJSON string
		)
		if err := rows.Scan(&d.ID, &d.Title, &d.Snippet, &tagsJSON); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		if err := json.Unmarshal([]byte(tagsJSON), &d.Tags); err != nil {
			return nil, fmt.Errorf("decode tags of %s: %w", d.ID, err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	return docs, nil
}

// Count returns the number of indexed documents.
func (i *Index) Count(ctx context.Context) (int, error) {
	var n int
	if err := i.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
