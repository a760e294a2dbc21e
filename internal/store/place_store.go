package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vbonduro/wishlist/internal/domain"
)

// PlaceStore persists places. Every method takes the id of the requesting
// user and only ever reads or mutates rows owned by that user: a row owned
// by someone else is reported as domain.ErrForbidden, a missing row as
// domain.ErrNotFound.
type PlaceStore struct {
	db *sqlx.DB
}

func NewPlaceStore(db *sqlx.DB) *PlaceStore {
	return &PlaceStore{db: db}
}

const placeColumns = `id, user_id, name, visited, date_visited, rating, notes, photo_key, photo_mime, created_at, updated_at`

func (s *PlaceStore) Create(ctx context.Context, userID int64, name string) (*domain.Place, error) {
	var id int64
	err := s.db.QueryRowxContext(ctx, s.db.Rebind(`
		INSERT INTO places (user_id, name) VALUES (?, ?) RETURNING id
	`), userID, name).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create place: %w", err)
	}

	return s.Get(ctx, userID, id)
}

// Get returns the place with id if it belongs to userID.
func (s *PlaceStore) Get(ctx context.Context, userID, id int64) (*domain.Place, error) {
	place := &domain.Place{}
	err := s.db.GetContext(ctx, place, s.db.Rebind(`
		SELECT `+placeColumns+` FROM places WHERE id = ?
	`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get place: %w", err)
	}
	if place.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return place, nil
}

// List returns the user's places with the given visited state, by name.
func (s *PlaceStore) List(ctx context.Context, userID int64, visited bool) ([]*domain.Place, error) {
	var places []*domain.Place
	err := s.db.SelectContext(ctx, &places, s.db.Rebind(`
		SELECT `+placeColumns+` FROM places
		WHERE user_id = ? AND visited = ?
		ORDER BY name ASC, id ASC
	`), userID, visited)
	if err != nil {
		return nil, fmt.Errorf("failed to list places: %w", err)
	}
	return places, nil
}

// MarkVisited flips the place to visited. Marking an already visited place
// succeeds without changes.
func (s *PlaceStore) MarkVisited(ctx context.Context, userID, id int64) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE places SET visited = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ? AND visited = ?
	`), true, id, userID, false)
	if err != nil {
		return fmt.Errorf("failed to mark place visited: %w", err)
	}
	return nil
}

// SaveReview writes the review fields onto a visited place. The stored
// photo is only replaced when review.PhotoKey is set. Places that have not
// been visited are rejected with domain.ErrNotVisited.
func (s *PlaceStore) SaveReview(ctx context.Context, userID, id int64, review domain.Review) error {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE places SET
			rating = ?,
			notes = ?,
			date_visited = ?,
			photo_key = COALESCE(NULLIF(?, ''), photo_key),
			photo_mime = COALESCE(NULLIF(?, ''), photo_mime),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ? AND visited = ?
	`), review.Rating, review.Notes, review.DateVisited, review.PhotoKey, review.PhotoMime, id, userID, true)
	if err != nil {
		return fmt.Errorf("failed to save review: %w", err)
	}
	return s.checkAffected(ctx, result, userID, id, true)
}

func (s *PlaceStore) Delete(ctx context.Context, userID, id int64) error {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(`
		DELETE FROM places WHERE id = ? AND user_id = ?
	`), id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete place: %w", err)
	}
	return s.checkAffected(ctx, result, userID, id, false)
}

// checkAffected explains why an owner-scoped statement touched no rows.
func (s *PlaceStore) checkAffected(ctx context.Context, result sql.Result, userID, id int64, requireVisited bool) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	place, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if requireVisited && !place.Visited {
		return domain.ErrNotVisited
	}
	return fmt.Errorf("place %d was not updated", id)
}
