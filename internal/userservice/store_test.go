package userservice

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPassword(t *testing.T, plain string) Password {
	t.Helper()

	p, err := NewPassword(plain)
	require.NoError(t, err)

	return p
}

// testUserStore exercises the UserStore contract. newStore must return an empty store.
func testUserStore(t *testing.T, newStore func(t *testing.T) UserStore) {
	ctx := context.Background()

	t.Run("insert assigns an id", func(t *testing.T) {
		s := newStore(t)

		u := User{Username: "root", Name: "Superuser", Password: mustPassword(t, "sekret")}
		require.NoError(t, s.Insert(ctx, &u))
		assert.NotEqual(t, uuid.Nil, u.ID)
		assert.Empty(t, u.Blogs)

		got, err := s.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "root", got.Username)
		assert.Equal(t, "Superuser", got.Name)
		assert.True(t, got.Password.Verify("sekret"))
	})

	t.Run("username constraints", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Insert(ctx, &User{Username: "root", Password: mustPassword(t, "sekret")}))

		testCases := []struct {
			name     string
			username string
			wantErr  error
		}{
			{name: "missing", username: "", wantErr: ErrUsernameRequired},
			{name: "too short", username: "jo", wantErr: ErrUsernameTooShort},
			{name: "two characters in three bytes", username: "éa", wantErr: ErrUsernameTooShort},
			{name: "duplicate", username: "root", wantErr: ErrDuplicateUsername},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				err := s.Insert(ctx, &User{Username: tc.username, Password: mustPassword(t, "abc123")})
				assert.ErrorIs(t, err, tc.wantErr)

				users, err := s.GetAll(ctx)
				require.NoError(t, err)
				assert.Len(t, users, 1)
			})
		}
	})

	t.Run("lookups", func(t *testing.T) {
		s := newStore(t)

		u := User{Username: "mluukkai", Name: "Matti Luukkainen", Password: mustPassword(t, "salainen")}
		require.NoError(t, s.Insert(ctx, &u))

		got, err := s.GetByUsername(ctx, "mluukkai")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)

		_, err = s.GetByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = s.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("get all keeps creation order", func(t *testing.T) {
		s := newStore(t)

		for _, name := range []string{"first", "second", "third"} {
			require.NoError(t, s.Insert(ctx, &User{Username: name, Password: mustPassword(t, "abc123")}))
		}

		users, err := s.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, users, 3)
		assert.Equal(t, "first", users[0].Username)
		assert.Equal(t, "second", users[1].Username)
		assert.Equal(t, "third", users[2].Username)
	})

	t.Run("blog ids", func(t *testing.T) {
		s := newStore(t)

		u := User{Username: "root", Password: mustPassword(t, "sekret")}
		require.NoError(t, s.Insert(ctx, &u))

		first, second := uuid.New(), uuid.New()
		require.NoError(t, s.AddBlog(ctx, u.ID, first))
		require.NoError(t, s.AddBlog(ctx, u.ID, second))

		got, err := s.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{first, second}, got.Blogs)

		require.NoError(t, s.RemoveBlog(ctx, u.ID, first))

		got, err = s.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{second}, got.Blogs)

		assert.ErrorIs(t, s.AddBlog(ctx, uuid.New(), first), ErrNotFound)
		assert.ErrorIs(t, s.RemoveBlog(ctx, uuid.New(), first), ErrNotFound)
	})
}

func TestMemoryUserStore(t *testing.T) {
	testUserStore(t, func(t *testing.T) UserStore {
		return NewMemoryUserStore()
	})
}

func TestMemoryUserStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUserStore()

	u := User{Username: "root", Password: mustPassword(t, "sekret")}
	require.NoError(t, s.Insert(ctx, &u))
	require.NoError(t, s.AddBlog(ctx, u.ID, uuid.New()))

	got, err := s.GetByID(ctx, u.ID)
	require.NoError(t, err)
	got.Blogs[0] = uuid.Nil
	got.Username = "changed"

	again, err := s.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "root", again.Username)
	assert.NotEqual(t, uuid.Nil, again.Blogs[0])
	assert.Equal(t, 1, s.Len())
}
