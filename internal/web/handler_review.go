package web

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/vbonduro/wishlist/internal/domain"
	"github.com/vbonduro/wishlist/internal/forms"
	"github.com/vbonduro/wishlist/internal/service"
)

const (
	// multipartOverhead is the allowance for non-file fields and part headers.
	multipartOverhead = 1 << 20

	msgInvalidPhoto  = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	msgPhotoTooLarge = "The photo is too large."
)

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request, user *domain.User) {
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
	if !detail.Place.Visited {
		s.writeError(w, r, domain.ErrNotVisited, "review rejected", "place_id", id)
		return
	}

	if err := s.parseReviewRequest(w, r); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.renderDetail(w, r, user, http.StatusRequestEntityTooLarge, detail, forms.Errors{"photo": msgPhotoTooLarge})
			return
		}
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	form := &forms.ReviewForm{
		Rating:      r.PostFormValue("rating"),
		Notes:       r.PostFormValue("notes"),
		DateVisited: r.PostFormValue("date_visited"),
	}
	detail.Review = form

	photo, photoErr, err := s.readPhoto(r)
	if err != nil {
		s.logger.Error("failed to read photo upload", "place_id", id, "error", err)
		http.Error(w, "failed to read upload", http.StatusBadRequest)
		return
	}
	if photoErr != "" {
		errs := forms.Errors{"photo": photoErr}
		if _, err := form.Clean(); err != nil {
			var fieldErrs forms.Errors
			if errors.As(err, &fieldErrs) {
				for k, v := range fieldErrs {
					errs[k] = v
				}
			}
		}
		s.renderDetail(w, r, user, http.StatusBadRequest, detail, errs)
		return
	}

	_, err = s.places.SubmitReview(r.Context(), detail.Place, form, photo)
	var errs forms.Errors
	if errors.As(err, &errs) {
		s.renderDetail(w, r, user, http.StatusBadRequest, detail, errs)
		return
	}
	if err != nil {
		s.writeError(w, r, err, "failed to save review", "place_id", id, "user_id", user.ID)
		return
	}

	setFlash(w, "Review saved.")
	http.Redirect(w, r, fmt.Sprintf("/places/%d", id), http.StatusSeeOther)
}

// parseReviewRequest parses either a multipart or urlencoded review body,
// bounding its size by the photo limit.
func (s *Server) parseReviewRequest(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxPhotoBytes+multipartOverhead)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return r.ParseMultipartForm(s.maxPhotoBytes)
	}
	return r.ParseForm()
}

// readPhoto returns the uploaded photo, if any. A non-empty message reports
// a user-facing problem with the upload.
func (s *Server) readPhoto(r *http.Request) (*service.Photo, string, error) {
	if r.MultipartForm == nil {
		return nil, "", nil
	}

	file, header, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	defer closeWithLog(file, "uploaded photo", s.logger)

	if header.Size > s.maxPhotoBytes {
		return nil, msgPhotoTooLarge, nil
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", nil
	}

	mimeType, ok := allowedImageMIME(data)
	if !ok {
		return nil, msgInvalidPhoto, nil
	}
	return &service.Photo{Data: data, MimeType: mimeType}, "", nil
}

// allowedImageMIME sniffs data and reports its image MIME type when it is
// one of the accepted formats.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	switch ct := http.DetectContentType(data); ct {
	case "image/jpeg", "image/png", "image/gif":
		return ct, true
	}
	return "", false
}

// isWebP checks the RIFF....WEBP magic bytes.
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		bytes.Equal(data[0:4], []byte("RIFF")) &&
		bytes.Equal(data[8:12], []byte("WEBP"))
}
