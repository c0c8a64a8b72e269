package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/websift/websift"
	"github.com/websift/websift/sqlite"
)

func sessionFixture() *websift.ScrapingSession {
	return &websift.ScrapingSession{
		StartTime: "2026-02-10T12:00:00Z",
		Config: websift.ScrapingConfig{
			URLs:             []string{"https://example.com/list"},
			EnablePagination: true,
			MaxPages:         5,
			RateLimit:        2.0,
		},
		Results: []websift.ScrapingResult{
			{
				URL:       "https://example.com/list",
				Timestamp: "2026-02-10T12:00:01Z",
				Status:    websift.StatusSuccess,
				Content: websift.DetectedContent{
					Title:    "Listing",
					Content:  []string{"first block"},
					Links:    []websift.Link{{Text: "next", Href: "https://example.com/list/2"}},
					Images:   []websift.Image{},
					Metadata: map[string]string{"description": "a list"},
				},
				PageNumber:  1,
				ContentHash: "a1b2c3",
			},
		},
		TotalPagesScraped: 1,
		TotalLinksFound:   1,
		Errors:            []string{},
	}
}

func TestSessionService_SaveSession(t *testing.T) {
	t.Parallel()

	t.Run("assigns an ID on save", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewSessionService(setupTestDB(t))
		session := sessionFixture()

		err := svc.SaveSession(context.Background(), session)
		require.NoError(t, err)
		assert.NotEmpty(t, session.ID)
	})

	t.Run("keeps a caller-provided ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewSessionService(setupTestDB(t))
		session := sessionFixture()
		session.ID = "fixed-id"

		err := svc.SaveSession(context.Background(), session)
		require.NoError(t, err)
		assert.Equal(t, "fixed-id", session.ID)
	})
}

func TestSessionService_FindSessionByID(t *testing.T) {
	t.Parallel()

	t.Run("round-trips a saved session", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewSessionService(setupTestDB(t))
		ctx := context.Background()

		session := sessionFixture()
		require.NoError(t, svc.SaveSession(ctx, session))

		got, err := svc.FindSessionByID(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, session, got)
	})

	t.Run("returns ENOTFOUND for a missing session", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewSessionService(setupTestDB(t))

		_, err := svc.FindSessionByID(context.Background(), "missing")
		require.Error(t, err)
		assert.Equal(t, websift.ENOTFOUND, websift.ErrorCode(err))
	})
}

func TestSessionService_FindSessions(t *testing.T) {
	t.Parallel()

	t.Run("lists saved sessions", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewSessionService(setupTestDB(t))
		ctx := context.Background()

		first := sessionFixture()
		second := sessionFixture()
		require.NoError(t, svc.SaveSession(ctx, first))
		require.NoError(t, svc.SaveSession(ctx, second))

		sessions, err := svc.FindSessions(ctx, websift.SessionFilter{})
		require.NoError(t, err)
		assert.Len(t, sessions, 2)
	})

	t.Run("filters by ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewSessionService(setupTestDB(t))
		ctx := context.Background()

		first := sessionFixture()
		second := sessionFixture()
		require.NoError(t, svc.SaveSession(ctx, first))
		require.NoError(t, svc.SaveSession(ctx, second))

		sessions, err := svc.FindSessions(ctx, websift.SessionFilter{ID: &first.ID})
		require.NoError(t, err)
		require.Len(t, sessions, 1)
		assert.Equal(t, first.ID, sessions[0].ID)
	})

	t.Run("applies limit and offset", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewSessionService(setupTestDB(t))
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			require.NoError(t, svc.SaveSession(ctx, sessionFixture()))
		}

		sessions, err := svc.FindSessions(ctx, websift.SessionFilter{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, sessions, 2)

		sessions, err = svc.FindSessions(ctx, websift.SessionFilter{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Len(t, sessions, 1)
	})
}

func TestSessionService_DeleteSessions(t *testing.T) {
	t.Parallel()

	svc := sqlite.NewSessionService(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, svc.SaveSession(ctx, sessionFixture()))
	require.NoError(t, svc.SaveSession(ctx, sessionFixture()))

	require.NoError(t, svc.DeleteSessions(ctx))

	sessions, err := svc.FindSessions(ctx, websift.SessionFilter{})
	require.NoError(t, err)
	assert.Empty(t, sessions)
}
