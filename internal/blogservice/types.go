package blogservice

import (
	"context"

	"github.com/google/uuid"

	"github.com/sushihentaime/bloglist/internal/common"
	"github.com/sushihentaime/bloglist/internal/userservice"
)

type Blog struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Author string    `json:"author"`
	URL    string    `json:"url"`
	Likes  int       `json:"likes"`
	UserID uuid.UUID `json:"user_id"`
	// User is the owner projection filled in by reads that join against the users.
	User *Owner `json:"user,omitempty"`
}

type Owner struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
}

// BlogSummary is the favorite blog as reported by FavoriteBlog.
type BlogSummary struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Likes  int    `json:"likes"`
}

type Stats struct {
	Count      int          `json:"count"`
	TotalLikes int          `json:"total_likes"`
	Favorite   *BlogSummary `json:"favorite"`
}

// BlogRef is a blog as listed under its owner.
type BlogRef struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Author string    `json:"author"`
	URL    string    `json:"url"`
}

type UserWithBlogs struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
	Blogs    []BlogRef `json:"blogs"`
}

type CreateBlogRequest struct {
	Title  string `json:"title" validate:"required"`
	Author string `json:"author"`
	URL    string `json:"url" validate:"required"`
	Likes  *int   `json:"likes" validate:"omitempty,min=0"`
}

// UpdateBlogRequest holds the fields to change; nil fields are left untouched.
type UpdateBlogRequest struct {
	Title  *string `json:"title" validate:"omitempty,min=1"`
	Author *string `json:"author"`
	URL    *string `json:"url" validate:"omitempty,min=1"`
	Likes  *int    `json:"likes" validate:"omitempty,min=0"`
}

// BlogStore persists blogs and assigns their ids.
type BlogStore interface {
	Insert(ctx context.Context, b *Blog) error
	Get(ctx context.Context, id uuid.UUID) (*Blog, error)
	GetAll(ctx context.Context) ([]Blog, error)
	Update(ctx context.Context, b *Blog) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type TokenVerifier interface {
	Verify(token string) (*userservice.Claims, error)
}

// UserDirectory resolves blog owners and keeps their blog lists current.
type UserDirectory interface {
	GetUser(ctx context.Context, id uuid.UUID) (*userservice.User, error)
	ListUsers(ctx context.Context) ([]userservice.User, error)
	AddBlog(ctx context.Context, userID, blogID uuid.UUID) error
	RemoveBlog(ctx context.Context, userID, blogID uuid.UUID) error
}

type BlogService struct {
	m      BlogStore
	tokens TokenVerifier
	users  UserDirectory
	mb     common.MessageProducer
}
