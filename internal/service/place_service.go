package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/vbonduro/wishlist/internal/domain"
	"github.com/vbonduro/wishlist/internal/forms"
	"github.com/vbonduro/wishlist/internal/metrics"
	"github.com/vbonduro/wishlist/internal/photostore"
)

// placeRepository is the subset of store.PlaceStore that PlaceService
// requires. Every method is scoped to the requesting user.
type placeRepository interface {
	Create(ctx context.Context, userID int64, name string) (*domain.Place, error)
	Get(ctx context.Context, userID, id int64) (*domain.Place, error)
	List(ctx context.Context, userID int64, visited bool) ([]*domain.Place, error)
	MarkVisited(ctx context.Context, userID, id int64) error
	SaveReview(ctx context.Context, userID, id int64, review domain.Review) error
	Delete(ctx context.Context, userID, id int64) error
}

type PlaceService struct {
	places   placeRepository
	photoStg photostore.PhotoStore
	logger   *slog.Logger
}

func NewPlaceService(places placeRepository, photoStg photostore.PhotoStore, logger *slog.Logger) *PlaceService {
	return &PlaceService{places: places, photoStg: photoStg, logger: logger}
}

func (s *PlaceService) ListUnvisited(ctx context.Context, userID int64) ([]*domain.Place, error) {
	return s.places.List(ctx, userID, false)
}

func (s *PlaceService) ListVisited(ctx context.Context, userID int64) ([]*domain.Place, error) {
	return s.places.List(ctx, userID, true)
}

// CreatePlace validates form and adds the place to the user's wishlist.
// Invalid input returns forms.Errors and writes nothing.
func (s *PlaceService) CreatePlace(ctx context.Context, userID int64, form *forms.PlaceForm) (*domain.Place, error) {
	name, err := form.Clean()
	if err != nil {
		return nil, err
	}

	place, err := s.places.Create(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	s.logger.Info("place created", "user_id", userID, "place_id", place.ID)
	metrics.RecordPlaceEvent(metrics.EventCreated)
	return place, nil
}

// MarkVisited moves the place to the visited list. It is a no-op for places
// that are already visited.
func (s *PlaceService) MarkVisited(ctx context.Context, userID, placeID int64) error {
	if err := s.places.MarkVisited(ctx, userID, placeID); err != nil {
		return err
	}
	s.logger.Info("place marked visited", "user_id", userID, "place_id", placeID)
	metrics.RecordPlaceEvent(metrics.EventVisited)
	return nil
}

// PlaceDetail is a place plus, when it has been visited, its review form
// pre-populated with the stored review.
type PlaceDetail struct {
	Place  *domain.Place
	Review *forms.ReviewForm
}

func (s *PlaceService) GetDetail(ctx context.Context, userID, placeID int64) (*PlaceDetail, error) {
	place, err := s.places.Get(ctx, userID, placeID)
	if err != nil {
		return nil, err
	}

	detail := &PlaceDetail{Place: place}
	if place.Visited {
		detail.Review = forms.ReviewFormFromPlace(place)
	}
	return detail, nil
}

// Photo is an uploaded review photo whose type has already been verified.
type Photo struct {
	Data     []byte
	MimeType string
}

// SubmitReview validates the review and writes it onto place, which must
// come from an ownership-checked lookup such as GetDetail. photo is
// optional and replaces any stored photo. Invalid input returns
// forms.Errors and leaves the place unchanged.
func (s *PlaceService) SubmitReview(ctx context.Context, place *domain.Place, form *forms.ReviewForm, photo *Photo) (*domain.Place, error) {
	if !place.Visited {
		return nil, domain.ErrNotVisited
	}

	review, err := form.Clean()
	if err != nil {
		return nil, err
	}

	if photo != nil {
		key, err := s.photoStg.Save(ctx, fmt.Sprintf("place_%d", place.ID), photo.MimeType, bytes.NewReader(photo.Data))
		if err != nil {
			return nil, fmt.Errorf("failed to save photo: %w", err)
		}
		s.logger.Debug("review photo saved", "place_id", place.ID, "storage_key", key)
		review.PhotoKey = key
		review.PhotoMime = photo.MimeType
	}

	if err := s.places.SaveReview(ctx, place.UserID, place.ID, review); err != nil {
		if review.PhotoKey != "" {
			s.deletePhoto(ctx, place.ID, review.PhotoKey)
		}
		return nil, fmt.Errorf("failed to save review: %w", err)
	}

	if review.PhotoKey != "" && place.HasPhoto() {
		s.deletePhoto(ctx, place.ID, place.PhotoKey)
	}

	s.logger.Info("review saved", "user_id", place.UserID, "place_id", place.ID, "rating", review.Rating, "photo", review.PhotoKey != "")
	metrics.RecordPlaceEvent(metrics.EventReviewed)
	return s.places.Get(ctx, place.UserID, place.ID)
}

// DeletePlace removes the place and its review photo.
func (s *PlaceService) DeletePlace(ctx context.Context, userID, placeID int64) error {
	place, err := s.places.Get(ctx, userID, placeID)
	if err != nil {
		return err
	}

	if err := s.places.Delete(ctx, userID, placeID); err != nil {
		return err
	}
	if place.HasPhoto() {
		s.deletePhoto(ctx, placeID, place.PhotoKey)
	}

	s.logger.Info("place deleted", "user_id", userID, "place_id", placeID)
	metrics.RecordPlaceEvent(metrics.EventDeleted)
	return nil
}

// OpenPhoto returns the review photo of the user's place. The caller must
// close the reader.
func (s *PlaceService) OpenPhoto(ctx context.Context, userID, placeID int64) (io.ReadCloser, string, error) {
	place, err := s.places.Get(ctx, userID, placeID)
	if err != nil {
		return nil, "", err
	}
	if !place.HasPhoto() {
		return nil, "", domain.ErrNotFound
	}

	r, mimeType, err := s.photoStg.Get(ctx, place.PhotoKey)
	if errors.Is(err, photostore.ErrNotFound) {
		return nil, "", domain.ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to open photo: %w", err)
	}
	if place.PhotoMime != "" {
		mimeType = place.PhotoMime
	}
	return r, mimeType, nil
}

func (s *PlaceService) deletePhoto(ctx context.Context, placeID int64, key string) {
	if err := s.photoStg.Delete(ctx, key); err != nil {
		s.logger.Error("failed to delete photo file", "place_id", placeID, "storage_key", key, "error", err)
	}
}
