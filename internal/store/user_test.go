package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestUserStoreUniqueEmailAndUsername(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, &models.User{Email: "a@example.com", Username: "a", FirstName: "A", LastName: "A", PasswordHash: "h"}))

	err := s.Create(ctx, &models.User{Email: "a@example.com", Username: "b", FirstName: "B", LastName: "B", PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrDuplicate)

	err = s.Create(ctx, &models.User{Email: "c@example.com", Username: "a", FirstName: "C", LastName: "C", PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUserStoreLookups(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	user := testhelpers.CreateUser(t, db, "lookup")

	byEmail, err := s.GetByEmail(ctx, "lookup@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	exists, err := s.Exists(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.Exists(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.UpdatePassword(ctx, user.ID, "new-hash"))
	reloaded, err := s.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", reloaded.PasswordHash)

	assert.ErrorIs(t, s.UpdatePassword(ctx, uuid.New(), "x"), ErrNotFound)
}

func TestUserStoreListPaginates(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	s := NewUserStore(db)

	for _, name := range []string{"u1", "u2", "u3"} {
		testhelpers.CreateUser(t, db, name)
	}

	users, total, err := s.List(context.Background(), Page{Offset: 1, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, users, 1)
}
