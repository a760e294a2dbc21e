package forms

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/wishlist/internal/domain"
)

func TestPlaceFormClean(t *testing.T) {
	f := &PlaceForm{Name: "  Machu Picchu  "}
	name, err := f.Clean()
	require.NoError(t, err)
	assert.Equal(t, "Machu Picchu", name)
	assert.Equal(t, "Machu Picchu", f.Name)
}

func TestPlaceFormCleanErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{name: "empty", input: "", wantMsg: "This field is required."},
		{name: "whitespace only", input: "   \t", wantMsg: "This field is required."},
		{name: "too long", input: strings.Repeat("a", 201), wantMsg: "Ensure this value has at most 200 characters."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &PlaceForm{Name: tt.input}
			_, err := f.Clean()
			var errs Errors
			require.ErrorAs(t, err, &errs)
			assert.Equal(t, tt.wantMsg, errs["name"])
		})
	}
}

func TestReviewFormClean(t *testing.T) {
	f := &ReviewForm{Rating: "5", Notes: " Loved it ", DateVisited: "2023-07-14"}
	review, err := f.Clean()
	require.NoError(t, err)

	assert.Equal(t, 5, review.Rating)
	assert.Equal(t, "Loved it", review.Notes)
	require.NotNil(t, review.DateVisited)
	assert.Equal(t, time.Date(2023, time.July, 14, 0, 0, 0, 0, time.UTC), *review.DateVisited)
}

func TestReviewFormCleanOptionalFields(t *testing.T) {
	f := &ReviewForm{Rating: "1"}
	review, err := f.Clean()
	require.NoError(t, err)
	assert.Equal(t, 1, review.Rating)
	assert.Empty(t, review.Notes)
	assert.Nil(t, review.DateVisited)
}

func TestReviewFormCleanErrors(t *testing.T) {
	tomorrow := time.Now().UTC().AddDate(0, 0, 2).Format("2006-01-02")

	tests := []struct {
		name      string
		form      ReviewForm
		wantField string
	}{
		{name: "missing rating", form: ReviewForm{}, wantField: "rating"},
		{name: "rating too high", form: ReviewForm{Rating: "6"}, wantField: "rating"},
		{name: "rating zero", form: ReviewForm{Rating: "0"}, wantField: "rating"},
		{name: "rating not a number", form: ReviewForm{Rating: "great"}, wantField: "rating"},
		{name: "notes too long", form: ReviewForm{Rating: "3", Notes: strings.Repeat("x", 2001)}, wantField: "notes"},
		{name: "bad date", form: ReviewForm{Rating: "3", DateVisited: "14/07/2023"}, wantField: "date_visited"},
		{name: "future date", form: ReviewForm{Rating: "3", DateVisited: tomorrow}, wantField: "date_visited"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.form
			_, err := f.Clean()
			var errs Errors
			require.ErrorAs(t, err, &errs)
			assert.Contains(t, errs, tt.wantField)
			assert.Len(t, errs, 1)
		})
	}
}

func TestReviewFormFromPlace(t *testing.T) {
	rating := 4
	visitedOn := time.Date(2022, time.March, 9, 0, 0, 0, 0, time.UTC)
	place := &domain.Place{Visited: true, Rating: &rating, Notes: "Windy", DateVisited: &visitedOn}

	f := ReviewFormFromPlace(place)
	assert.Equal(t, "4", f.Rating)
	assert.Equal(t, "Windy", f.Notes)
	assert.Equal(t, "2022-03-09", f.DateVisited)

	empty := ReviewFormFromPlace(&domain.Place{Visited: true})
	assert.Empty(t, empty.Rating)
	assert.Empty(t, empty.DateVisited)
}

func TestRegisterFormClean(t *testing.T) {
	f := &RegisterForm{Username: " ana.b ", Password: "correct horse", PasswordConfirm: "correct horse"}
	require.NoError(t, f.Clean())
	assert.Equal(t, "ana.b", f.Username)
}

func TestRegisterFormCleanErrors(t *testing.T) {
	tests := []struct {
		name      string
		form      RegisterForm
		wantField string
		wantMsg   string
	}{
		{
			name:      "short username",
			form:      RegisterForm{Username: "ab", Password: "password1", PasswordConfirm: "password1"},
			wantField: "username",
			wantMsg:   "Ensure this value has at least 3 characters.",
		},
		{
			name:      "bad username characters",
			form:      RegisterForm{Username: "ana b", Password: "password1", PasswordConfirm: "password1"},
			wantField: "username",
		},
		{
			name:      "short password",
			form:      RegisterForm{Username: "ana", Password: "short", PasswordConfirm: "short"},
			wantField: "password",
		},
		{
			name:      "password longer than 72 bytes",
			form:      RegisterForm{Username: "ana", Password: strings.Repeat("é", 40), PasswordConfirm: strings.Repeat("é", 40)},
			wantField: "password",
			wantMsg:   "Ensure this value has at most 72 bytes.",
		},
		{
			name:      "mismatched confirmation",
			form:      RegisterForm{Username: "ana", Password: "password1", PasswordConfirm: "password2"},
			wantField: "password_confirm",
			wantMsg:   "The two password fields didn't match.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.form
			err := f.Clean()
			var errs Errors
			require.ErrorAs(t, err, &errs)
			require.Contains(t, errs, tt.wantField)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, errs[tt.wantField])
			}
		})
	}
}

func TestLoginFormClean(t *testing.T) {
	f := &LoginForm{Username: "ana"}
	err := f.Clean()
	var errs Errors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "This field is required.", errs["password"])
}

func TestErrorsError(t *testing.T) {
	errs := Errors{"rating": "bad", "notes": "long"}
	assert.Equal(t, "invalid form: notes: long; rating: bad", errs.Error())
}

func TestRegisterFormPasswordByteLimit(t *testing.T) {
	ascii := strings.Repeat("a", 72)
	f := &RegisterForm{Username: "ana", Password: ascii, PasswordConfirm: ascii}
	require.NoError(t, f.Clean())

	// 36 two-byte runes is exactly 72 bytes.
	runes := strings.Repeat("é", 36)
	f = &RegisterForm{Username: "ana", Password: runes, PasswordConfirm: runes}
	require.NoError(t, f.Clean())

	over := ascii + "a"
	f = &RegisterForm{Username: "ana", Password: over, PasswordConfirm: over}
	var errs Errors
	require.ErrorAs(t, f.Clean(), &errs)
	assert.Contains(t, errs, "password")
}

func TestMustPanicsOnError(t *testing.T) {
	assert.Panics(t, func() { must(errors.New("bad tag")) })
	assert.NotPanics(t, func() { must(nil) })
}
