package event

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/eventnexus/eventnexus/internal/test_utils"
	"github.com/eventnexus/eventnexus/pkg/city"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var db *pgxpool.Pool

func TestMain(m *testing.M) {
	var cleanup func()
	db, cleanup = test_utils.TestWithDB()
	code := m.Run()
	cleanup()
	os.Exit(code)
}

func setupTestRepository(t *testing.T) (context.Context, *RepositoryImpl) {
	ctx := context.Background()
	require.NoError(t, test_utils.CleanTables(ctx, db))
	return ctx, NewRepository(db)
}

func testRow(title string, start time.Time, cityId *int64) Row {
	stop := start.Add(DefaultDuration)
	return Row{
		EventTitle:  title,
		Start:       start,
		Stop:        &stop,
		Description: ptr("Something worth attending"),
		Image:       ptr("🎵"),
		CityId:      cityId,
		Location:    ptr("Berlin"),
	}
}

func TestRepositoryImpl_InsertEvent(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	start := time.Date(2026, time.November, 5, 18, 0, 0, 0, time.UTC)

	// when
	inserted, err := repo.InsertEvent(ctx, testRow("Jazz Night", start, nil))

	// then
	require.NoError(t, err)
	assert.Len(t, inserted.Id, 36)
	assert.False(t, inserted.CreatedAt.IsZero())

	stored, err := repo.GetEvent(ctx, inserted.Id)
	require.NoError(t, err)
	assert.Equal(t, "Jazz Night", stored.EventTitle)
	assert.True(t, start.Equal(stored.Start))
	assert.True(t, start.Add(2*time.Hour).Equal(*stored.Stop))
	assert.Nil(t, stored.LinkedCity)
	assert.Empty(t, stored.LinkedCategories)
}

func TestRepositoryImpl_ListEvents(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	berlin, err := city.NewRepository(db).CreateCity(ctx, "Berlin")
	require.NoError(t, err)

	later, err := repo.InsertEvent(ctx, testRow("Later", time.Date(2026, time.November, 6, 18, 0, 0, 0, time.UTC), &berlin.Id))
	require.NoError(t, err)
	_, err = repo.InsertEvent(ctx, testRow("Sooner", time.Date(2026, time.November, 5, 18, 0, 0, 0, time.UTC), nil))
	require.NoError(t, err)

	musicId, err := repo.FindVibeId(ctx, "music")
	require.NoError(t, err)
	festivalId, err := repo.FindVibeId(ctx, "FESTIVAL")
	require.NoError(t, err)
	require.NoError(t, repo.LinkVibe(ctx, later.Id, musicId))
	require.NoError(t, repo.LinkVibe(ctx, later.Id, festivalId))

	// when
	rows, err := repo.ListEvents(ctx)

	// then
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Sooner", rows[0].EventTitle)
	assert.Empty(t, rows[0].LinkedCategories)
	assert.Nil(t, rows[0].LinkedCity)

	assert.Equal(t, "Later", rows[1].EventTitle)
	assert.Equal(t, []CategoryLink{{"Music"}, {"Festival"}}, rows[1].LinkedCategories)
	require.NotNil(t, rows[1].LinkedCity)
	assert.Equal(t, "Berlin", rows[1].LinkedCity.CityName)

	normalized := Normalize(rows[1])
	assert.Equal(t, "music", normalized.Category)
	assert.Equal(t, []string{"music", "festival"}, normalized.Categories)
}

func TestRepositoryImpl_GetEvent_NotFound(t *testing.T) {
	ctx, repo := setupTestRepository(t)

	_, err := repo.GetEvent(ctx, "6f1c3f0e-4d7a-4b8e-9a55-0c2f8d1e7a10")

	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestRepositoryImpl_FindVibeId_NotFound(t *testing.T) {
	ctx, repo := setupTestRepository(t)

	_, err := repo.FindVibeId(ctx, "opera")

	assert.ErrorIs(t, err, ErrVibeNotFound)
}

func TestRepositoryImpl_UpdateEvent(t *testing.T) {
	t.Run("should update only the patched columns", func(t *testing.T) {
		// given
		ctx, repo := setupTestRepository(t)
		inserted, err := repo.InsertEvent(ctx, testRow("Old", time.Date(2026, time.November, 5, 18, 0, 0, 0, time.UTC), nil))
		require.NoError(t, err)

		// when
		err = repo.UpdateEvent(ctx, inserted.Id, nil, Patch{Title: ptr("New")})

		// then
		require.NoError(t, err)
		stored, err := repo.GetEvent(ctx, inserted.Id)
		require.NoError(t, err)
		assert.Equal(t, "New", stored.EventTitle)
		assert.Equal(t, "Something worth attending", *stored.Description)
		assert.Equal(t, "Berlin", *stored.Location)
	})

	t.Run("should move the event to another city with its location", func(t *testing.T) {
		// given
		ctx, repo := setupTestRepository(t)
		hamburg, err := city.NewRepository(db).CreateCity(ctx, "Hamburg")
		require.NoError(t, err)
		inserted, err := repo.InsertEvent(ctx, testRow("Moving", time.Date(2026, time.November, 5, 18, 0, 0, 0, time.UTC), nil))
		require.NoError(t, err)

		// when
		err = repo.UpdateEvent(ctx, inserted.Id, &hamburg.Id, Patch{Location: ptr("Hamburg")})

		// then
		require.NoError(t, err)
		stored, err := repo.GetEvent(ctx, inserted.Id)
		require.NoError(t, err)
		require.NotNil(t, stored.CityId)
		assert.Equal(t, hamburg.Id, *stored.CityId)
	})

	t.Run("should fail for an unknown event", func(t *testing.T) {
		ctx, repo := setupTestRepository(t)

		err := repo.UpdateEvent(ctx, "6f1c3f0e-4d7a-4b8e-9a55-0c2f8d1e7a10", nil, Patch{Title: ptr("x")})

		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}

func TestRepositoryImpl_ReplaceVibes(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	inserted, err := repo.InsertEvent(ctx, testRow("Retagged", time.Date(2026, time.November, 5, 18, 0, 0, 0, time.UTC), nil))
	require.NoError(t, err)
	musicId, err := repo.FindVibeId(ctx, "music")
	require.NoError(t, err)
	comedyId, err := repo.FindVibeId(ctx, "comedy")
	require.NoError(t, err)
	require.NoError(t, repo.LinkVibe(ctx, inserted.Id, musicId))

	// when
	err = repo.WithTransaction(ctx, func(tx Repository) error {
		return tx.ReplaceVibes(ctx, inserted.Id, comedyId)
	})

	// then
	require.NoError(t, err)
	stored, err := repo.GetEvent(ctx, inserted.Id)
	require.NoError(t, err)
	assert.Equal(t, []CategoryLink{{"Comedy"}}, stored.LinkedCategories)
}

func TestRepositoryImpl_WithTransaction_RollsBack(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	inserted, err := repo.InsertEvent(ctx, testRow("Kept", time.Date(2026, time.November, 5, 18, 0, 0, 0, time.UTC), nil))
	require.NoError(t, err)

	// when
	err = repo.WithTransaction(ctx, func(tx Repository) error {
		if err := tx.UpdateEvent(ctx, inserted.Id, nil, Patch{Title: ptr("Discarded")}); err != nil {
			return err
		}
		_, err := tx.FindVibeId(ctx, "opera")
		return err
	})

	// then
	assert.ErrorIs(t, err, ErrVibeNotFound)
	stored, err := repo.GetEvent(ctx, inserted.Id)
	require.NoError(t, err)
	assert.Equal(t, "Kept", stored.EventTitle)
}

func TestRepositoryImpl_DeleteEvent(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	inserted, err := repo.InsertEvent(ctx, testRow("Gone", time.Date(2026, time.November, 5, 18, 0, 0, 0, time.UTC), nil))
	require.NoError(t, err)
	musicId, err := repo.FindVibeId(ctx, "music")
	require.NoError(t, err)
	require.NoError(t, repo.LinkVibe(ctx, inserted.Id, musicId))

	// when
	err = repo.DeleteEvent(ctx, inserted.Id)

	// then
	require.NoError(t, err)
	_, err = repo.GetEvent(ctx, inserted.Id)
	assert.ErrorIs(t, err, ErrEventNotFound)
	assert.ErrorIs(t, repo.DeleteEvent(ctx, inserted.Id), ErrEventNotFound)
}
