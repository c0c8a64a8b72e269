package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/websift/websift"
)

// Compile-time interface verification.
var _ websift.ProfileService = (*ProfileService)(nil)

// ProfileService implements websift.ProfileService using SQLite.
type ProfileService struct {
	db *DB
}

// NewProfileService creates a new ProfileService.
func NewProfileService(db *DB) *ProfileService {
	return &ProfileService{db: db}
}

const profileColumns = "id, domain, pattern, main_content_selector, title_selector, comments_selector, extraction_mode, confidence, use_count, success_rate, created_at, last_used, notes"

// SaveProfile stores a profile, assigning its ID and timestamps.
func (s *ProfileService) SaveProfile(ctx context.Context, profile *websift.SiteProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	if profile.LastUsed.IsZero() {
		profile.LastUsed = now
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO profiles (`+profileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, profile.ID, profile.Domain, profile.Pattern, profile.MainContentSelector,
		profile.TitleSelector, profile.CommentsSelector, profile.ExtractionMode,
		profile.Confidence, profile.UseCount, profile.SuccessRate,
		profile.CreatedAt.Format(time.RFC3339), profile.LastUsed.Format(time.RFC3339),
		profile.Notes)

	return err
}

// FindProfileByID retrieves a profile by ID.
func (s *ProfileService) FindProfileByID(ctx context.Context, id string) (*websift.SiteProfile, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM profiles WHERE id = ?", id)

	profile, err := scanProfile(row.Scan)
	if err == sql.ErrNoRows {
		return nil, websift.Errorf(websift.ENOTFOUND, "profile not found")
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// FindProfileByDomain retrieves the highest-confidence profile for a domain.
func (s *ProfileService) FindProfileByDomain(ctx context.Context, domain string) (*websift.SiteProfile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+profileColumns+` FROM profiles
		WHERE domain = ?
		ORDER BY confidence DESC, last_used DESC
		LIMIT 1
	`, domain)

	profile, err := scanProfile(row.Scan)
	if err == sql.ErrNoRows {
		return nil, websift.Errorf(websift.ENOTFOUND, "no profile for domain %s", domain)
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// FindProfiles retrieves profiles matching the filter.
func (s *ProfileService) FindProfiles(ctx context.Context, filter websift.ProfileFilter) ([]*websift.SiteProfile, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + profileColumns + " FROM profiles WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Domain != nil {
		query.WriteString(" AND domain = ?")
		args = append(args, *filter.Domain)
	}

	query.WriteString(" ORDER BY domain ASC, confidence DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*websift.SiteProfile
	for rows.Next() {
		profile, err := scanProfile(rows.Scan)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	return profiles, rows.Err()
}

// DeleteProfile permanently removes a profile.
func (s *ProfileService) DeleteProfile(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM profiles WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return websift.Errorf(websift.ENOTFOUND, "profile not found")
	}
	return nil
}

// DeleteProfiles removes all stored profiles.
func (s *ProfileService) DeleteProfiles(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM profiles")
	return err
}

// TouchProfile increments a profile's use count and refreshes its
// last-used timestamp.
func (s *ProfileService) TouchProfile(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE profiles
		SET use_count = use_count + 1, last_used = ?
		WHERE id = ?
	`, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return websift.Errorf(websift.ENOTFOUND, "profile not found")
	}
	return nil
}

// Stats summarizes the stored profiles.
func (s *ProfileService) Stats(ctx context.Context) (*websift.ProfileStats, error) {
	var stats websift.ProfileStats

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT domain), COALESCE(SUM(use_count), 0), COALESCE(AVG(confidence), 0)
		FROM profiles
	`).Scan(&stats.TotalProfiles, &stats.TotalDomains, &stats.TotalUses, &stats.AvgConfidence)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// scanProfile reads one profile row, parsing its timestamps.
func scanProfile(scan func(dest ...any) error) (*websift.SiteProfile, error) {
	var profile websift.SiteProfile
	var createdAt, lastUsed string

	err := scan(&profile.ID, &profile.Domain, &profile.Pattern, &profile.MainContentSelector,
		&profile.TitleSelector, &profile.CommentsSelector, &profile.ExtractionMode,
		&profile.Confidence, &profile.UseCount, &profile.SuccessRate,
		&createdAt, &lastUsed, &profile.Notes)
	if err != nil {
		return nil, err
	}

	var parseErr error
	profile.CreatedAt, parseErr = parseRFC3339(createdAt, "created_at")
	if parseErr != nil {
		return nil, parseErr
	}
	profile.LastUsed, parseErr = parseRFC3339(lastUsed, "last_used")
	if parseErr != nil {
		return nil, parseErr
	}

	return &profile, nil
}
