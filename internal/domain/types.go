package domain

import "time"

type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// Place is a wishlist entry. Review fields (DateVisited, Rating, Notes and
// the photo) only carry meaning once Visited is true.
type Place struct {
	ID          int64      `db:"id"`
	UserID      int64      `db:"user_id"`
	Name        string     `db:"name"`
	Visited     bool       `db:"visited"`
	DateVisited *time.Time `db:"date_visited"`
	Rating      *int       `db:"rating"`
	Notes       string     `db:"notes"`
	PhotoKey    string     `db:"photo_key"`
	PhotoMime   string     `db:"photo_mime"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

func (p *Place) HasPhoto() bool {
	return p.PhotoKey != ""
}

// Review is the set of visit-specific fields written onto a visited place.
// An empty PhotoKey keeps the place's current photo.
type Review struct {
	Rating      int
	Notes       string
	DateVisited *time.Time
	PhotoKey    string
	PhotoMime   string
}
