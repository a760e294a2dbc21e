package store

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/wishlist/internal/db"
	"github.com/vbonduro/wishlist/internal/domain"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func createUser(t *testing.T, d *sqlx.DB, username string) *domain.User {
	t.Helper()
	user, err := NewUserStore(d).Create(context.Background(), username, "hash")
	require.NoError(t, err)
	return user
}
