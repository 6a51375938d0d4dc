package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/philipobrien-sdm/StratOS/internal/db"
	"github.com/philipobrien-sdm/StratOS/internal/events"
	"github.com/philipobrien-sdm/StratOS/internal/reasoner"
)

const timeLayout = time.RFC3339Nano

// Store records session events and provider calls.
type Store struct {
	db  *db.DB
	now func() time.Time
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database, now: time.Now}
}

// Log inserts a new audit entry. If entry.ID is empty a UUID is generated.
func (s *Store) Log(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_events (id, timestamp, type, version, subject, summary)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Timestamp.UTC().Format(timeLayout),
		string(entry.Type),
		entry.Version,
		entry.Subject,
		entry.Summary,
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}

// Notify records e. It satisfies events.Sink; failures are logged, not returned.
func (s *Store) Notify(ctx context.Context, e events.Event) {
	err := s.Log(context.WithoutCancel(ctx), Entry{
		Timestamp: e.At,
		Type:      e.Type,
		Version:   e.Version,
		Subject:   e.Subject,
		Summary:   e.Summary,
	})
	if err != nil {
		log.Printf("audit: %v", err)
	}
}

// GetByID retrieves a single audit entry.
func (s *Store) GetByID(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, timestamp, type, version, subject, summary
		FROM session_events WHERE id = ?`, id)
	return scanEntry(row)
}

// QueryFilter controls which audit entries are returned by Query.
type QueryFilter struct {
	Type    events.Type
	Version int
	Subject string
	Since   *time.Time
	Limit   int
	Offset  int
}

// Query returns audit entries matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Entry, error) {
	var (
		clauses []string
		args    []any
	)

	if filter.Type != "" {
		clauses = append(clauses, "type = ?")
		args = append(args, string(filter.Type))
	}
	if filter.Version > 0 {
		clauses = append(clauses, "version = ?")
		args = append(args, filter.Version)
	}
	if filter.Subject != "" {
		clauses = append(clauses, "subject = ?")
		args = append(args, filter.Subject)
	}
	if filter.Since != nil {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, filter.Since.UTC().Format(timeLayout))
	}

	query := "SELECT id, timestamp, type, version, subject, summary FROM session_events"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY rowid DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	} else if filter.Offset > 0 {
		query += " LIMIT -1"
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// RecordCall inserts one provider call.
func (s *Store) RecordCall(ctx context.Context, c Call) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Timestamp.IsZero() {
		c.Timestamp = s.now()
	}
	var errText sql.NullString
	if c.Error != "" {
		errText = sql.NullString{String: c.Error, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO llm_calls (
			id, timestamp, operation, provider, model,
			input_tokens, output_tokens, cost_usd, duration_ms, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.Timestamp.UTC().Format(timeLayout),
		c.Operation,
		c.Provider,
		c.Model,
		c.InputTokens,
		c.OutputTokens,
		c.CostUSD,
		c.DurationMS,
		errText,
	)
	if err != nil {
		return fmt.Errorf("inserting llm call: %w", err)
	}
	return nil
}

// ObserveCall records a reasoner call. It has the shape of reasoner.Options.OnCall.
func (s *Store) ObserveCall(ctx context.Context, rc reasoner.Call) {
	c := Call{
		Operation:    rc.Operation,
		Provider:     rc.Provider,
		Model:        rc.Model,
		InputTokens:  rc.InputTokens,
		OutputTokens: rc.OutputTokens,
		CostUSD:      rc.CostUSD,
		DurationMS:   rc.Duration.Milliseconds(),
	}
	if rc.Err != nil {
		c.Error = rc.Err.Error()
	}
	if err := s.RecordCall(context.WithoutCancel(ctx), c); err != nil {
		log.Printf("audit: %v", err)
	}
}

// Calls returns recorded provider calls, newest first. limit <= 0 returns all.
func (s *Store) Calls(ctx context.Context, limit int) ([]Call, error) {
	query := `SELECT id, timestamp, operation, provider, model, input_tokens, output_tokens,
		cost_usd, duration_ms, error FROM llm_calls ORDER BY rowid DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying llm calls: %w", err)
	}
	defer rows.Close()

	calls := []Call{}
	for rows.Next() {
		var (
			c       Call
			ts      string
			errText sql.NullString
		)
		if err := rows.Scan(&c.ID, &ts, &c.Operation, &c.Provider, &c.Model,
			&c.InputTokens, &c.OutputTokens, &c.CostUSD, &c.DurationMS, &errText); err != nil {
			return nil, err
		}
		c.Timestamp, _ = time.Parse(timeLayout, ts)
		if errText.Valid {
			c.Error = errText.String
		}
		calls = append(calls, c)
	}
	return calls, rows.Err()
}

// Usage totals every recorded provider call.
func (s *Store) Usage(ctx context.Context) (Usage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT operation, COUNT(*), SUM(CASE WHEN error IS NULL THEN 0 ELSE 1 END),
			SUM(input_tokens), SUM(output_tokens), SUM(cost_usd)
		FROM llm_calls GROUP BY operation ORDER BY operation`)
	if err != nil {
		return Usage{}, fmt.Errorf("querying usage: %w", err)
	}
	defer rows.Close()

	u := Usage{ByOperation: map[string]OperationUsage{}}
	for rows.Next() {
		var (
			op     string
			ou     OperationUsage
			failed int
		)
		if err := rows.Scan(&op, &ou.Calls, &failed, &ou.InputTokens, &ou.OutputTokens, &ou.CostUSD); err != nil {
			return Usage{}, err
		}
		u.ByOperation[op] = ou
		u.Calls += ou.Calls
		u.Failed += failed
		u.InputTokens += ou.InputTokens
		u.OutputTokens += ou.OutputTokens
		u.CostUSD += ou.CostUSD
	}
	return u, rows.Err()
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (*Entry, error) {
	var (
		e     Entry
		ts    string
		etype string
	)
	if err := sc.Scan(&e.ID, &ts, &etype, &e.Version, &e.Subject, &e.Summary); err != nil {
		return nil, err
	}
	e.Type = events.Type(etype)
	if t, err := time.Parse(timeLayout, ts); err == nil {
		e.Timestamp = t
	} else if t, err := time.Parse(time.DateTime, ts); err == nil {
		e.Timestamp = t
	}
	return &e, nil
}
