package forms

import (
	"strconv"
	"strings"
	"time"

	"github.com/vbonduro/wishlist/internal/domain"
)

type PlaceForm struct {
	Name string `form:"name" validate:"required,max=200"`
}

// Clean trims the form and validates it, returning the place name.
func (f *PlaceForm) Clean() (string, error) {
	f.Name = strings.TrimSpace(f.Name)
	if errs := Validate(f); errs != nil {
		return "", errs
	}
	return f.Name, nil
}

// ReviewForm carries the raw review input so it can be redisplayed verbatim
// when validation fails. Photo uploads are validated by the web layer.
type ReviewForm struct {
	Rating      string `form:"rating" validate:"required,oneof=1 2 3 4 5"`
	Notes       string `form:"notes" validate:"max=2000"`
	DateVisited string `form:"date_visited" validate:"omitempty,datetime=2006-01-02,notfuture"`
}

// ReviewFormFromPlace pre-populates a review form with the stored values.
func ReviewFormFromPlace(p *domain.Place) *ReviewForm {
	f := &ReviewForm{Notes: p.Notes}
	if p.Rating != nil {
		f.Rating = strconv.Itoa(*p.Rating)
	}
	if p.DateVisited != nil {
		f.DateVisited = p.DateVisited.Format(dateLayout)
	}
	return f
}

// Clean trims and validates the form and converts it into a domain.Review.
func (f *ReviewForm) Clean() (domain.Review, error) {
	f.Rating = strings.TrimSpace(f.Rating)
	f.Notes = strings.TrimSpace(f.Notes)
	f.DateVisited = strings.TrimSpace(f.DateVisited)

	if errs := Validate(f); errs != nil {
		return domain.Review{}, errs
	}

	rating, err := strconv.Atoi(f.Rating)
	if err != nil {
		return domain.Review{}, Errors{"rating": "Enter a whole number."}
	}

	review := domain.Review{Rating: rating, Notes: f.Notes}
	if f.DateVisited != "" {
		d, err := time.Parse(dateLayout, f.DateVisited)
		if err != nil {
			return domain.Review{}, Errors{"date_visited": "Enter a valid date (YYYY-MM-DD)."}
		}
		review.DateVisited = &d
	}
	return review, nil
}

// Options lists the selectable rating values for templates.
func (f *ReviewForm) Options() []string {
	return []string{"1", "2", "3", "4", "5"}
}
