package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/wishlist/internal/domain"
)

func TestPlaceStoreCreate(t *testing.T) {
	d := openTestDB(t)
	ana := createUser(t, d, "ana")
	store := NewPlaceStore(d)

	place, err := store.Create(context.Background(), ana.ID, "Kyoto")
	require.NoError(t, err)
	assert.NotZero(t, place.ID)
	assert.Equal(t, ana.ID, place.UserID)
	assert.Equal(t, "Kyoto", place.Name)
	assert.False(t, place.Visited)
	assert.Nil(t, place.Rating)
	assert.Nil(t, place.DateVisited)
	assert.False(t, place.HasPhoto())
}

func TestPlaceStoreCreateRejectsEmptyName(t *testing.T) {
	d := openTestDB(t)
	ana := createUser(t, d, "ana")
	store := NewPlaceStore(d)
	ctx := context.Background()

	_, err := store.Create(ctx, ana.ID, "")
	assert.Error(t, err)

	places, err := store.List(ctx, ana.ID, false)
	require.NoError(t, err)
	assert.Empty(t, places)
}

func TestPlaceStoreListOrderedAndScoped(t *testing.T) {
	d := openTestDB(t)
	ana := createUser(t, d, "ana")
	ben := createUser(t, d, "ben")
	store := NewPlaceStore(d)
	ctx := context.Background()

	for _, name := range []string{"Rome", "Accra", "Oslo"} {
		_, err := store.Create(ctx, ana.ID, name)
		require.NoError(t, err)
	}
	_, err := store.Create(ctx, ben.ID, "Berlin")
	require.NoError(t, err)

	places, err := store.List(ctx, ana.ID, false)
	require.NoError(t, err)
	require.Len(t, places, 3)
	assert.Equal(t, "Accra", places[0].Name)
	assert.Equal(t, "Oslo", places[1].Name)
	assert.Equal(t, "Rome", places[2].Name)

	benPlaces, err := store.List(ctx, ben.ID, false)
	require.NoError(t, err)
	require.Len(t, benPlaces, 1)
	assert.Equal(t, "Berlin", benPlaces[0].Name)
}

func TestPlaceStoreGet(t *testing.T) {
	d := openTestDB(t)
	ana := createUser(t, d, "ana")
	ben := createUser(t, d, "ben")
	store := NewPlaceStore(d)
	ctx := context.Background()

	place, err := store.Create(ctx, ana.ID, "Lima")
	require.NoError(t, err)

	got, err := store.Get(ctx, ana.ID, place.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lima", got.Name)

	_, err = store.Get(ctx, ben.ID, place.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = store.Get(ctx, ana.ID, place.ID+100)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPlaceStoreMarkVisited(t *testing.T) {
	d := openTestDB(t)
	ana := createUser(t, d, "ana")
	store := NewPlaceStore(d)
	ctx := context.Background()

	place, err := store.Create(ctx, ana.ID, "Cairo")
	require.NoError(t, err)

	require.NoError(t, store.MarkVisited(ctx, ana.ID, place.ID))
	require.NoError(t, store.MarkVisited(ctx, ana.ID, place.ID))

	unvisited, err := store.List(ctx, ana.ID, false)
	require.NoError(t, err)
	assert.Empty(t, unvisited)

	visited, err := store.List(ctx, ana.ID, true)
	require.NoError(t, err)
	require.Len(t, visited, 1)
	assert.True(t, visited[0].Visited)
	assert.Equal(t, place.ID, visited[0].ID)
}

func TestPlaceStoreMarkVisitedOtherOwner(t *testing.T) {
	d := openTestDB(t)
	ana := createUser(t, d, "ana")
	ben := createUser(t, d, "ben")
	store := NewPlaceStore(d)
	ctx := context.Background()

	place, err := store.Create(ctx, ana.ID, "Quito")
	require.NoError(t, err)

	err = store.MarkVisited(ctx, ben.ID, place.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := store.Get(ctx, ana.ID, place.ID)
	require.NoError(t, err)
	assert.False(t, got.Visited)

	err = store.MarkVisited(ctx, ana.ID, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPlaceStoreSaveReview(t *testing.T) {
	d := openTestDB(t)
	ana := createUser(t, d, "ana")
	store := NewPlaceStore(d)
	ctx := context.Background()

	place, err := store.Create(ctx, ana.ID, "Paris")
	require.NoError(t, err)
	require.NoError(t, store.MarkVisited(ctx, ana.ID, place.ID))

	visitedOn := time.Date(2024, time.May, 3, 0, 0, 0, 0, time.UTC)
	err = store.SaveReview(ctx, ana.ID, place.ID, domain.Review{Rating: 5, Notes: "Croissants", DateVisited: &visitedOn})
	require.NoError(t, err)

	got, err := store.Get(ctx, ana.ID, place.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Rating)
	assert.Equal(t, 5, *got.Rating)
	assert.Equal(t, "Croissants", got.Notes)
	require.NotNil(t, got.DateVisited)
	assert.Equal(t, "2024-05-03", got.DateVisited.Format("2006-01-02"))
}

func TestPlaceStoreSaveReviewRequiresVisited(t *testing.T) {
	d := openTestDB(t)
	ana := createUser(t, d, "ana")
	store := NewPlaceStore(d)
	ctx := context.Background()

	place, err := store.Create(ctx, ana.ID, "Hanoi")
	require.NoError(t, err)

	err = store.SaveReview(ctx, ana.ID, place.ID, domain.Review{Rating: 4})
	assert.ErrorIs(t, err, domain.ErrNotVisited)

	got, err := store.Get(ctx, ana.ID, place.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Rating)

	err = store.SaveReview(ctx, ana.ID, place.ID, domain.Review{Rating: 2, PhotoKey: "key.jpg", PhotoMime: "image/jpeg"})
	assert.ErrorIs(t, err, domain.ErrNotVisited)

	got, err = store.Get(ctx, ana.ID, place.ID)
	require.NoError(t, err)
	assert.False(t, got.HasPhoto())
}

func TestPlaceStoreSaveReviewOtherOwner(t *testing.T) {
	d := openTestDB(t)
	ana := createUser(t, d, "ana")
	ben := createUser(t, d, "ben")
	store := NewPlaceStore(d)
	ctx := context.Background()

	place, err := store.Create(ctx, ana.ID, "Seoul")
	require.NoError(t, err)
	require.NoError(t, store.MarkVisited(ctx, ana.ID, place.ID))

	err = store.SaveReview(ctx, ben.ID, place.ID, domain.Review{Rating: 1})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestPlaceStoreSaveReviewPhoto(t *testing.T) {
	d := openTestDB(t)
	ana := createUser(t, d, "ana")
	store := NewPlaceStore(d)
	ctx := context.Background()

	place, err := store.Create(ctx, ana.ID, "Nairobi")
	require.NoError(t, err)
	require.NoError(t, store.MarkVisited(ctx, ana.ID, place.ID))

	err = store.SaveReview(ctx, ana.ID, place.ID, domain.Review{Rating: 3, PhotoKey: "place_1/abc.png", PhotoMime: "image/png"})
	require.NoError(t, err)

	got, err := store.Get(ctx, ana.ID, place.ID)
	require.NoError(t, err)
	assert.True(t, got.HasPhoto())
	assert.Equal(t, "place_1/abc.png", got.PhotoKey)
	assert.Equal(t, "image/png", got.PhotoMime)

	// A review without a photo keeps the stored one.
	require.NoError(t, store.SaveReview(ctx, ana.ID, place.ID, domain.Review{Rating: 4}))

	got, err = store.Get(ctx, ana.ID, place.ID)
	require.NoError(t, err)
	assert.Equal(t, "place_1/abc.png", got.PhotoKey)
	require.NotNil(t, got.Rating)
	assert.Equal(t, 4, *got.Rating)
}

func TestPlaceStoreDelete(t *testing.T) {
	d := openTestDB(t)
	ana := createUser(t, d, "ana")
	ben := createUser(t, d, "ben")
	store := NewPlaceStore(d)
	ctx := context.Background()

	place, err := store.Create(ctx, ana.ID, "Dakar")
	require.NoError(t, err)

	err = store.Delete(ctx, ben.ID, place.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = store.Get(ctx, ana.ID, place.ID)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, ana.ID, place.ID))

	_, err = store.Get(ctx, ana.ID, place.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = store.Delete(ctx, ana.ID, place.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func newMockPlaceStore(t *testing.T) (*PlaceStore, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	return NewPlaceStore(sqlx.NewDb(mockDB, "sqlmock")), mock
}

func TestPlaceStoreListQueryError(t *testing.T) {
	store, mock := newMockPlaceStore(t)

	mock.ExpectQuery("SELECT (.+) FROM places").WillReturnError(errors.New("disk I/O error"))

	_, err := store.List(context.Background(), 1, false)
	assert.ErrorContains(t, err, "failed to list places")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceStoreMarkVisitedUpdateError(t *testing.T) {
	store, mock := newMockPlaceStore(t)

	rows := sqlmock.NewRows([]string{"id", "user_id", "name", "visited", "date_visited", "rating", "notes", "photo_key", "photo_mime", "created_at", "updated_at"}).
		AddRow(7, 1, "Tunis", false, nil, nil, "", "", "", time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM places WHERE id").WithArgs(7).WillReturnRows(rows)
	mock.ExpectExec("UPDATE places SET visited").WillReturnError(errors.New("database is locked"))

	err := store.MarkVisited(context.Background(), 1, 7)
	assert.ErrorContains(t, err, "failed to mark place visited")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceStoreDeleteExecError(t *testing.T) {
	store, mock := newMockPlaceStore(t)

	mock.ExpectExec("DELETE FROM places").WithArgs(7, 1).WillReturnError(errors.New("constraint failed"))

	err := store.Delete(context.Background(), 1, 7)
	assert.ErrorContains(t, err, "failed to delete place")
	assert.NoError(t, mock.ExpectationsWereMet())
}
