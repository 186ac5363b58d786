// Package history records every exported quotation.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Simplici0/quotedoc/internal/pricing"
	"github.com/Simplici0/quotedoc/internal/quote"
)

const timeLayout = "2006-01-02 15:04:05"

// Record is one saved export.
type Record struct {
	PublicID        string                    `json:"id"`
	CreatedAt       time.Time                 `json:"createdAt"`
	ClientName      string                    `json:"clientName"`
	Title           string                    `json:"title"`
	FileName        string                    `json:"fileName"`
	Location        string                    `json:"location,omitempty"`
	PageCount       int                       `json:"pageCount"`
	SettingsVersion int                       `json:"settingsVersion"`
	Params          pricing.ProjectParameters `json:"params"`
	Totals          quote.Totals              `json:"totals"`
}

// Repo stores records in the quotes table.
type Repo struct {
	db *sql.DB
}

// NewRepo returns a Repo backed by db.
func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Save inserts rec, filling PublicID and CreatedAt when they are zero.
func (r *Repo) Save(ctx context.Context, rec Record) (Record, error) {
	if rec.PublicID == "" {
		rec.PublicID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC().Truncate(time.Second)

	params, err := json.Marshal(rec.Params)
	if err != nil {
		return Record{}, fmt.Errorf("encode quote params: %w", err)
	}
	totals, err := json.Marshal(rec.Totals)
	if err != nil {
		return Record{}, fmt.Errorf("encode quote totals: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO quotes (
			public_id,
			created_at,
			client_name,
			title,
			file_name,
			location,
			page_count,
			settings_version,
			params_json,
			totals_json
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.PublicID, rec.CreatedAt.Format(timeLayout), rec.ClientName, rec.Title, rec.FileName,
		rec.Location, rec.PageCount, rec.SettingsVersion, string(params), string(totals)); err != nil {
		return Record{}, fmt.Errorf("insert quote: %w", err)
	}
	return rec, nil
}

// List returns records newest first. A non-empty query filters by client
// name or title.
func (r *Repo) List(ctx context.Context, query string) ([]Record, error) {
	search := "%" + query + "%"
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			public_id,
			created_at,
			client_name,
			COALESCE(title, ''),
			file_name,
			COALESCE(location, ''),
			page_count,
			settings_version,
			params_json,
			totals_json
		FROM quotes
		WHERE (? = '' OR client_name LIKE ? OR COALESCE(title, '') LIKE ?)
		ORDER BY datetime(created_at) DESC, id DESC
	`, query, search, search)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var rec Record
		var created, params, totals string
		if err := rows.Scan(&rec.PublicID, &created, &rec.ClientName, &rec.Title, &rec.FileName,
			&rec.Location, &rec.PageCount, &rec.SettingsVersion, &params, &totals); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		rec.CreatedAt = parseTime(created)
		// Snapshots are informational; a row we cannot decode still lists.
		_ = json.Unmarshal([]byte(params), &rec.Params)
		_ = json.Unmarshal([]byte(totals), &rec.Totals)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}

	return records, nil
}

// parseTime accepts the layouts sqlite hands back for DATETIME columns.
func parseTime(s string) time.Time {
	for _, layout := range []string{timeLayout, time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
