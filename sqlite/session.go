package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/websift/websift"
)

// Compile-time interface verification.
var _ websift.SessionService = (*SessionService)(nil)

// SessionService implements websift.SessionService using SQLite.
// The per-page results, config, and error list are stored as JSON
// columns; the summary counters are relational for cheap listing.
type SessionService struct {
	db *DB
}

// NewSessionService creates a new SessionService.
func NewSessionService(db *DB) *SessionService {
	return &SessionService{db: db}
}

// SaveSession stores a completed session, assigning its ID.
func (s *SessionService) SaveSession(ctx context.Context, session *websift.ScrapingSession) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}

	config, err := json.Marshal(session.Config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	results, err := json.Marshal(session.Results)
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	errs, err := json.Marshal(session.Errors)
	if err != nil {
		return fmt.Errorf("failed to encode errors: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, start_time, config, results, total_pages_scraped, total_links_found, total_images_found, errors, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, session.ID, session.StartTime, string(config), string(results),
		session.TotalPagesScraped, session.TotalLinksFound, session.TotalImagesFound,
		string(errs), time.Now().UTC().Format(time.RFC3339))

	return err
}

// FindSessionByID retrieves a session by ID.
func (s *SessionService) FindSessionByID(ctx context.Context, id string) (*websift.ScrapingSession, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, start_time, config, results, total_pages_scraped, total_links_found, total_images_found, errors
		FROM sessions
		WHERE id = ?
	`, id)

	session, err := scanSession(row.Scan)
	if err == sql.ErrNoRows {
		return nil, websift.Errorf(websift.ENOTFOUND, "session not found")
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// FindSessions retrieves sessions matching the filter, newest first.
func (s *SessionService) FindSessions(ctx context.Context, filter websift.SessionFilter) ([]*websift.ScrapingSession, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, start_time, config, results, total_pages_scraped, total_links_found, total_images_found, errors FROM sessions WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}

	query.WriteString(" ORDER BY created_at DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*websift.ScrapingSession
	for rows.Next() {
		session, err := scanSession(rows.Scan)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// DeleteSessions removes all stored sessions.
func (s *SessionService) DeleteSessions(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sessions")
	return err
}

// scanSession reads one session row and decodes its JSON payloads.
func scanSession(scan func(dest ...any) error) (*websift.ScrapingSession, error) {
	var session websift.ScrapingSession
	var config, results, errs string

	err := scan(&session.ID, &session.StartTime, &config, &results,
		&session.TotalPagesScraped, &session.TotalLinksFound, &session.TotalImagesFound, &errs)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(config), &session.Config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := json.Unmarshal([]byte(results), &session.Results); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}
	if err := json.Unmarshal([]byte(errs), &session.Errors); err != nil {
		return nil, fmt.Errorf("failed to decode errors: %w", err)
	}

	return &session, nil
}
