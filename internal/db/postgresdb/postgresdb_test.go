package postgresdb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/usersignup/internal/models"
)

const migrationsDir = `../../../cmd/usersvc/migrations`

// Runs only against a disposable database given in TEST_DATABASE_DSN,
// e.g. "host=localhost user=signup password=signup dbname=signup_test sslmode=disable".
func newTestDB(t *testing.T) *PostgresDB {
	t.Helper()

	databaseDSN := os.Getenv("TEST_DATABASE_DSN")
	if databaseDSN == "" {
		t.Skip("TEST_DATABASE_DSN is not set")
	}

	db, err := New(
		context.Background(),
		databaseDSN,
		5*time.Second,
		migrationsDir,
		WithDBPreReset(true),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	return db
}

func TestUsersRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	users, err := db.GetUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	first := models.UserRecord{ID: "a1", Name: "Asha", Mobile: "9876543210", State: "Delhi", City: "New Delhi", Address: "12 MG Road"}
	second := models.UserRecord{ID: "b2", Name: "Ravi", Mobile: "9123456780", State: "Karnataka", City: "Mysuru", Address: "4 Palace Road"}
	require.NoError(t, db.InsertUser(ctx, first))
	require.NoError(t, db.InsertUser(ctx, second))

	updated := first
	updated.Address = "14 MG Road"
	require.NoError(t, db.UpdateUser(ctx, updated))

	users, err = db.GetUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Users{updated, second}, users)

	assert.ErrorIs(t, db.UpdateUser(ctx, models.UserRecord{ID: "missing"}), models.ErrUserNotFound)
	assert.Error(t, db.InsertUser(ctx, first), "ids are unique")
	assert.NoError(t, db.Ping(ctx))
}
