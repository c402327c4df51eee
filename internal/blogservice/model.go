package blogservice

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/sushihentaime/bloglist/internal/common"
)

var (
	ErrUserForeignKey = errors.New("user_id does not exist")
)

// BlogModel is the postgres implementation of BlogStore.
type BlogModel struct {
	db *sql.DB
}

func NewBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

// ForeignKeyError is a helper function to check if the error is a foreign key constraint error.
func ForeignKeyError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23503" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

func (m *BlogModel) Insert(ctx context.Context, b *Blog) error {
	query := `
		INSERT INTO blogs (title, author, url, likes, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := m.db.QueryRowContext(ctx, query, b.Title, b.Author, b.URL, b.Likes, b.UserID).Scan(&b.ID)
	if err != nil {
		switch {
		case ForeignKeyError(err, "blogs_user_id_fkey"):
			return ErrUserForeignKey
		default:
			return errors.Wrap(err, "insert blog")
		}
	}

	return nil
}

func (m *BlogModel) Get(ctx context.Context, id uuid.UUID) (*Blog, error) {
	query := `
		SELECT id, title, author, url, likes, user_id
		FROM blogs
		WHERE id = $1`

	var b Blog
	err := m.db.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.Title, &b.Author, &b.URL, &b.Likes, &b.UserID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, errors.Wrap(err, "get blog")
		}
	}

	return &b, nil
}

// GetAll returns every blog in creation order.
func (m *BlogModel) GetAll(ctx context.Context) ([]Blog, error) {
	query := `
		SELECT id, title, author, url, likes, user_id
		FROM blogs
		ORDER BY created_at, id`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "list blogs")
	}
	defer rows.Close()

	blogs := []Blog{}
	for rows.Next() {
		var b Blog
		err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.URL, &b.Likes, &b.UserID)
		if err != nil {
			return nil, errors.Wrap(err, "scan blog")
		}
		blogs = append(blogs, b)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list blogs")
	}

	return blogs, nil
}

// Update overwrites the mutable fields of the blog; the last writer wins.
func (m *BlogModel) Update(ctx context.Context, b *Blog) error {
	query := `
		UPDATE blogs
		SET title = $1, author = $2, url = $3, likes = $4
		WHERE id = $5
		RETURNING user_id`

	err := m.db.QueryRowContext(ctx, query, b.Title, b.Author, b.URL, b.Likes, b.ID).Scan(&b.UserID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return common.ErrRecordNotFound
		default:
			return errors.Wrap(err, "update blog")
		}
	}

	return nil
}

func (m *BlogModel) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM blogs
		WHERE id = $1`

	res, err := m.db.ExecContext(ctx, query, id)
	if err != nil {
		return errors.Wrap(err, "delete blog")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return common.ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}
