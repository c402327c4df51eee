package userservice

import (
	"context"

	"github.com/google/uuid"

	"github.com/sushihentaime/bloglist/internal/common"
)

// MinLength is the shortest username or password accepted.
const MinLength = 3

type UserService struct {
	store  UserStore
	tokens *TokenIssuer
	mb     common.MessageProducer
	c      *common.Cache
}

// UserStore persists users. Insert enforces the username constraints itself so that every
// caller hits the same rules.
type UserStore interface {
	Insert(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetAll(ctx context.Context) ([]User, error)
	AddBlog(ctx context.Context, userID, blogID uuid.UUID) error
	RemoveBlog(ctx context.Context, userID, blogID uuid.UUID) error
}

type User struct {
	ID       uuid.UUID   `json:"id"`
	Username string      `json:"username"`
	Name     string      `json:"name"`
	Password Password    `json:"-"`
	Blogs    []uuid.UUID `json:"blogs"`
}

type Password struct {
	hash []byte
}

// Claims is the identity carried by a verified token.
type Claims struct {
	SubjectID uuid.UUID
	Username  string
}

type RegisterUserRequest struct {
	Username string  `json:"username"`
	Name     string  `json:"name"`
	Password *string `json:"password"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Name     string `json:"name"`
}
