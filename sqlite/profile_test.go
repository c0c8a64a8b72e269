package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/websift/websift"
	"github.com/websift/websift/sqlite"
)

func profileFixture() *websift.SiteProfile {
	return &websift.SiteProfile{
		Domain:              "example.com",
		MainContentSelector: "article",
		TitleSelector:       "h1",
		ExtractionMode:      "article",
		Confidence:          0.85,
		SuccessRate:         1.0,
	}
}

func TestProfileService_SaveProfile(t *testing.T) {
	t.Parallel()

	t.Run("assigns ID and timestamps", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProfileService(setupTestDB(t))
		profile := profileFixture()

		err := svc.SaveProfile(context.Background(), profile)
		require.NoError(t, err)

		assert.NotEmpty(t, profile.ID)
		assert.False(t, profile.CreatedAt.IsZero())
		assert.False(t, profile.LastUsed.IsZero())
	})

	t.Run("rejects a profile without a domain", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProfileService(setupTestDB(t))

		err := svc.SaveProfile(context.Background(), &websift.SiteProfile{ExtractionMode: "article"})
		require.Error(t, err)
		assert.Equal(t, websift.EINVALID, websift.ErrorCode(err))
	})

	t.Run("updates an existing profile in place", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProfileService(setupTestDB(t))
		ctx := context.Background()

		profile := profileFixture()
		require.NoError(t, svc.SaveProfile(ctx, profile))

		profile.MainContentSelector = "#story"
		require.NoError(t, svc.SaveProfile(ctx, profile))

		got, err := svc.FindProfileByID(ctx, profile.ID)
		require.NoError(t, err)
		assert.Equal(t, "#story", got.MainContentSelector)

		profiles, err := svc.FindProfiles(ctx, websift.ProfileFilter{})
		require.NoError(t, err)
		assert.Len(t, profiles, 1, "save with same ID must not duplicate")
	})
}

func TestProfileService_FindProfileByDomain(t *testing.T) {
	t.Parallel()

	t.Run("returns the highest-confidence profile for the domain", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProfileService(setupTestDB(t))
		ctx := context.Background()

		low := profileFixture()
		low.Confidence = 0.4
		require.NoError(t, svc.SaveProfile(ctx, low))

		high := profileFixture()
		high.Confidence = 0.9
		require.NoError(t, svc.SaveProfile(ctx, high))

		got, err := svc.FindProfileByDomain(ctx, "example.com")
		require.NoError(t, err)
		assert.Equal(t, high.ID, got.ID)
	})

	t.Run("returns ENOTFOUND for an unknown domain", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProfileService(setupTestDB(t))

		_, err := svc.FindProfileByDomain(context.Background(), "unknown.org")
		require.Error(t, err)
		assert.Equal(t, websift.ENOTFOUND, websift.ErrorCode(err))
	})
}

func TestProfileService_FindProfiles(t *testing.T) {
	t.Parallel()

	svc := sqlite.NewProfileService(setupTestDB(t))
	ctx := context.Background()

	a := profileFixture()
	require.NoError(t, svc.SaveProfile(ctx, a))

	b := profileFixture()
	b.Domain = "other.org"
	require.NoError(t, svc.SaveProfile(ctx, b))

	domain := "other.org"
	profiles, err := svc.FindProfiles(ctx, websift.ProfileFilter{Domain: &domain})
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "other.org", profiles[0].Domain)

	profiles, err = svc.FindProfiles(ctx, websift.ProfileFilter{})
	require.NoError(t, err)
	assert.Len(t, profiles, 2)
}

func TestProfileService_TouchProfile(t *testing.T) {
	t.Parallel()

	t.Run("increments use count", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProfileService(setupTestDB(t))
		ctx := context.Background()

		profile := profileFixture()
		require.NoError(t, svc.SaveProfile(ctx, profile))

		require.NoError(t, svc.TouchProfile(ctx, profile.ID))
		require.NoError(t, svc.TouchProfile(ctx, profile.ID))

		got, err := svc.FindProfileByID(ctx, profile.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.UseCount)
	})

	t.Run("returns ENOTFOUND for a missing profile", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProfileService(setupTestDB(t))

		err := svc.TouchProfile(context.Background(), "missing")
		require.Error(t, err)
		assert.Equal(t, websift.ENOTFOUND, websift.ErrorCode(err))
	})
}

func TestProfileService_DeleteProfile(t *testing.T) {
	t.Parallel()

	t.Run("removes the profile", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProfileService(setupTestDB(t))
		ctx := context.Background()

		profile := profileFixture()
		require.NoError(t, svc.SaveProfile(ctx, profile))

		require.NoError(t, svc.DeleteProfile(ctx, profile.ID))

		_, err := svc.FindProfileByID(ctx, profile.ID)
		assert.Equal(t, websift.ENOTFOUND, websift.ErrorCode(err))
	})

	t.Run("returns ENOTFOUND for a missing profile", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProfileService(setupTestDB(t))

		err := svc.DeleteProfile(context.Background(), "missing")
		require.Error(t, err)
		assert.Equal(t, websift.ENOTFOUND, websift.ErrorCode(err))
	})
}

func TestProfileService_Stats(t *testing.T) {
	t.Parallel()

	t.Run("summarizes stored profiles", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProfileService(setupTestDB(t))
		ctx := context.Background()

		a := profileFixture()
		a.Confidence = 0.8
		require.NoError(t, svc.SaveProfile(ctx, a))

		b := profileFixture()
		b.Domain = "other.org"
		b.Confidence = 0.6
		require.NoError(t, svc.SaveProfile(ctx, b))

		require.NoError(t, svc.TouchProfile(ctx, a.ID))

		stats, err := svc.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.TotalProfiles)
		assert.Equal(t, 2, stats.TotalDomains)
		assert.Equal(t, 1, stats.TotalUses)
		assert.InDelta(t, 0.7, stats.AvgConfidence, 0.0001)
	})

	t.Run("returns zeroes for an empty store", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProfileService(setupTestDB(t))

		stats, err := svc.Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, stats.TotalProfiles)
		assert.Equal(t, 0.0, stats.AvgConfidence)
	})
}
