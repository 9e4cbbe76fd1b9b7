package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/christopherklint97/timecard/internal/timesheet"
)

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Document is one processed input file.
type Document struct {
	ID          int64
	Input       string
	Employee    string
	Period      string
	Outputs     []string
	Status      string
	Error       string
	ProcessedAt time.Time
	Days        []Day
}

type Day struct {
	DocumentID   int64
	Day          int
	Project      string
	Hours001     decimal.Decimal
	Hours002     decimal.Decimal
	Kind         string
	Arrival      string
	Departure    string
	BreakMinutes int
	Secondary    bool
}

// DaysFromRecords snapshots records for storage.
func DaysFromRecords(records []*timesheet.DayRecord, secondary bool) []Day {
	days := make([]Day, 0, len(records))
	for _, r := range records {
		d := Day{
			Day:       r.Day,
			Project:   r.ProjectCode,
			Hours001:  r.Hours001(),
			Hours002:  r.Hours002(),
			Kind:      r.Kind().String(),
			Secondary: secondary,
		}
		if t, ok := r.Times(); ok {
			d.Arrival = t.Arrival.String()
			d.Departure = t.Departure.String()
			d.BreakMinutes = t.BreakMinutes
		}
		days = append(days, d)
	}
	return days
}

// InsertDocument stores doc and its days in one transaction and returns
// the new document id.
func (db *DB) InsertDocument(ctx context.Context, doc *Document) (int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	processed := doc.ProcessedAt
	if processed.IsZero() {
		processed = time.Now()
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO documents (input, employee, period, outputs, status, error, processed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		doc.Input, doc.Employee, doc.Period, strings.Join(doc.Outputs, "\n"),
		doc.Status, nullString(doc.Error),
		processed.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting document: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading document id: %w", err)
	}

	for _, d := range doc.Days {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO days (document_id, day, project, hours_001, hours_002, kind, arrival, departure, break_minutes, secondary)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, d.Day, d.Project, d.Hours001, d.Hours002, d.Kind,
			nullString(d.Arrival), nullString(d.Departure), d.BreakMinutes, d.Secondary,
		); err != nil {
			return 0, fmt.Errorf("inserting day %d: %w", d.Day, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing document: %w", err)
	}
	doc.ID = id
	return id, nil
}

// ListDocuments returns the most recently processed documents first,
// without their days.
func (db *DB) ListDocuments(ctx context.Context, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.QueryContext(ctx,
		`SELECT id, input, employee, period, outputs, status, error, processed_at
		 FROM documents
		 ORDER BY processed_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		var outputs, processed string
		var errText sql.NullString

		if err := rows.Scan(&d.ID, &d.Input, &d.Employee, &d.Period, &outputs, &d.Status, &errText, &processed); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		if outputs != "" {
			d.Outputs = strings.Split(outputs, "\n")
		}
		d.Error = errText.String
		if t, err := time.Parse(time.RFC3339, processed); err == nil {
			d.ProcessedAt = t
		}
		docs = append(docs, d)
	}

	return docs, rows.Err()
}

// DaysFor returns the stored days of a document, primary before secondary.
func (db *DB) DaysFor(ctx context.Context, documentID int64) ([]Day, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT document_id, day, project, hours_001, hours_002, kind, arrival, departure, break_minutes, secondary
		 FROM days
		 WHERE document_id = ?
		 ORDER BY secondary ASC, day ASC`,
		documentID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying days: %w", err)
	}
	defer rows.Close()

	var days []Day
	for rows.Next() {
		var d Day
		var arrival, departure sql.NullString

		if err := rows.Scan(
			&d.DocumentID, &d.Day, &d.Project, &d.Hours001, &d.Hours002, &d.Kind,
			&arrival, &departure, &d.BreakMinutes, &d.Secondary,
		); err != nil {
			return nil, fmt.Errorf("scanning day: %w", err)
		}
		d.Arrival = arrival.String
		d.Departure = departure.String
		days = append(days, d)
	}

	return days, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
