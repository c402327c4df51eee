package userservice

import (
	"context"
	"database/sql"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/sushihentaime/bloglist/internal/common"
)

var (
	ErrDuplicateUsername = fmt.Errorf("%w: duplicate username", common.ErrConflict)
	ErrUsernameTooShort  = errors.New("username too short")
	ErrUsernameRequired  = errors.New("username required")
	ErrNotFound          = errors.New("user not found")
)

// UserModel is the postgres implementation of UserStore.
type UserModel struct {
	db *sql.DB
}

func NewUserModel(db *sql.DB) *UserModel {
	return &UserModel{db: db}
}

func checkUsername(username string) error {
	switch {
	case username == "":
		return ErrUsernameRequired
	case utf8.RuneCountInString(username) < MinLength:
		return ErrUsernameTooShort
	}
	return nil
}

func (m *UserModel) Insert(ctx context.Context, u *User) error {
	if err := checkUsername(u.Username); err != nil {
		return err
	}

	query := `
		INSERT INTO users (username, name, password)
		VALUES ($1, $2, $3)
		RETURNING id`

	args := []any{
		u.Username,
		u.Name,
		u.Password.hash,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&u.ID)
	if err != nil {
		var pqErr *pq.Error
		switch {
		case errors.As(err, &pqErr) && pqErr.Constraint == "users_username_key":
			return ErrDuplicateUsername
		case errors.As(err, &pqErr) && pqErr.Constraint == "users_username_length_check":
			return ErrUsernameTooShort
		default:
			return errors.Wrap(err, "insert user")
		}
	}

	u.Blogs = []uuid.UUID{}

	return nil
}

const selectUser = `
		SELECT id, username, name, password, blogs
		FROM users`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var (
		u     User
		blogs pq.StringArray
	)

	err := row.Scan(&u.ID, &u.Username, &u.Name, &u.Password.hash, &blogs)
	if err != nil {
		return nil, err
	}

	u.Blogs = make([]uuid.UUID, 0, len(blogs))
	for _, b := range blogs {
		id, err := uuid.Parse(b)
		if err != nil {
			return nil, errors.Wrapf(err, "parse blog id of user %s", u.ID)
		}
		u.Blogs = append(u.Blogs, id)
	}

	return &u, nil
}

func (m *UserModel) getOne(ctx context.Context, where string, arg any) (*User, error) {
	u, err := scanUser(m.db.QueryRowContext(ctx, selectUser+"\n\t\tWHERE "+where, arg))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, errors.Wrap(err, "get user")
		}
	}

	return u, nil
}

func (m *UserModel) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return m.getOne(ctx, "id = $1", id)
}

func (m *UserModel) GetByUsername(ctx context.Context, username string) (*User, error) {
	return m.getOne(ctx, "username = $1", username)
}

// GetAll returns every user in creation order.
func (m *UserModel) GetAll(ctx context.Context) ([]User, error) {
	rows, err := m.db.QueryContext(ctx, selectUser+"\n\t\tORDER BY created_at, id")
	if err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan user")
		}
		users = append(users, *u)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list users")
	}

	return users, nil
}

func (m *UserModel) updateBlogs(ctx context.Context, query string, userID, blogID uuid.UUID) error {
	res, err := m.db.ExecContext(ctx, query, blogID, userID)
	if err != nil {
		return errors.Wrap(err, "update user blogs")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return ErrNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}

func (m *UserModel) AddBlog(ctx context.Context, userID, blogID uuid.UUID) error {
	query := `
		UPDATE users
		SET blogs = array_append(blogs, $1)
		WHERE id = $2`

	return m.updateBlogs(ctx, query, userID, blogID)
}

func (m *UserModel) RemoveBlog(ctx context.Context, userID, blogID uuid.UUID) error {
	query := `
		UPDATE users
		SET blogs = array_remove(blogs, $1)
		WHERE id = $2`

	return m.updateBlogs(ctx, query, userID, blogID)
}
