package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/vbonduro/wishlist/internal/domain"
	"github.com/vbonduro/wishlist/internal/forms"
	"github.com/vbonduro/wishlist/internal/service"
)

func (s *Server) handleListUnvisited(w http.ResponseWriter, r *http.Request, user *domain.User) {
	s.renderWishlist(w, r, user, http.StatusOK, &forms.PlaceForm{}, nil)
}

func (s *Server) renderWishlist(w http.ResponseWriter, r *http.Request, user *domain.User, status int, form *forms.PlaceForm, errs forms.Errors) {
	places, err := s.places.ListUnvisited(r.Context(), user.ID)
	if err != nil {
		s.writeError(w, r, err, "failed to list places", "user_id", user.ID)
		return
	}

	data := s.page(w, r, user, "wishlist")
	data["Places"] = places
	data["Form"] = form
	data["Errors"] = errs
	if err := s.renderPage(w, status, data, "pages/wishlist.html"); err != nil {
		s.logger.Error("failed to render wishlist", "error", err)
	}
}

func (s *Server) handleCreatePlace(w http.ResponseWriter, r *http.Request, user *domain.User) {
	form := &forms.PlaceForm{Name: r.PostFormValue("name")}
	_, err := s.places.CreatePlace(r.Context(), user.ID, form)
	var errs forms.Errors
	if errors.As(err, &errs) {
		s.renderWishlist(w, r, user, http.StatusBadRequest, form, errs)
		return
	}
	if err != nil {
		s.writeError(w, r, err, "failed to create place", "user_id", user.ID)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleListVisited(w http.ResponseWriter, r *http.Request, user *domain.User) {
	places, err := s.places.ListVisited(r.Context(), user.ID)
	if err != nil {
		s.writeError(w, r, err, "failed to list visited places", "user_id", user.ID)
		return
	}

	data := s.page(w, r, user, "visited")
	data["Places"] = places
	if err := s.renderPage(w, http.StatusOK, data, "pages/visited.html"); err != nil {
		s.logger.Error("failed to render visited list", "error", err)
	}
}

func (s *Server) handleMarkVisited(w http.ResponseWriter, r *http.Request, user *domain.User) {
	placeID, err := strconv.ParseInt(r.PostFormValue("place_id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid place id", http.StatusBadRequest)
		return
	}

	if err := s.places.MarkVisited(r.Context(), user.ID, placeID); err != nil {
		s.writeError(w, r, err, "failed to mark place visited", "place_id", placeID, "user_id", user.ID)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleGetPlace(w http.ResponseWriter, r *http.Request, user *domain.User) {
	id, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	detail, err := s.places.GetDetail(r.Context(), user.ID, id)
	if err != nil {
		s.writeError(w, r, err, "failed to get place", "place_id", id, "user_id", user.ID)
		return
	}
	s.renderDetail(w, r, user, http.StatusOK, detail, nil)
}

func (s *Server) renderDetail(w http.ResponseWriter, r *http.Request, user *domain.User, status int, detail *service.PlaceDetail, errs forms.Errors) {
	data := s.page(w, r, user, "")
	data["Place"] = detail.Place
	data["Review"] = detail.Review
	data["Errors"] = errs
	if err := s.renderPage(w, status, data, "pages/place_detail.html"); err != nil {
		s.logger.Error("failed to render place", "place_id", detail.Place.ID, "error", err)
	}
}

func (s *Server) handleDeletePlace(w http.ResponseWriter, r *http.Request, user *domain.User) {
	id, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := s.places.DeletePlace(r.Context(), user.ID, id); err != nil {
		s.writeError(w, r, err, "failed to delete place", "place_id", id, "user_id", user.ID)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleGetPhoto(w http.ResponseWriter, r *http.Request, user *domain.User) {
	id, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	rc, mimeType, err := s.places.OpenPhoto(r.Context(), user.ID, id)
	if err != nil {
		s.writeError(w, r, err, "failed to open photo", "place_id", id, "user_id", user.ID)
		return
	}
	defer closeWithLog(rc, fmt.Sprintf("photo for place %d", id), s.logger)

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Error("failed to stream photo", "place_id", id, "error", err)
	}
}
