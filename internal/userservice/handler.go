package userservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/sushihentaime/bloglist/internal/common"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
)

func NewUserService(store UserStore, tokens *TokenIssuer, mb common.MessageProducer, c *common.Cache) *UserService {
	return &UserService{
		store:  store,
		tokens: tokens,
		mb:     mb,
		c:      c,
	}
}

// RegisterUser validates the password, hashes it and stores a new user. Username rules are
// enforced by the store and reported as validation errors. A user.created event is
// published on success; if that fails the stored user is still returned together with an
// error wrapping common.ErrEventNotPublished.
func (s *UserService) RegisterUser(ctx context.Context, req *RegisterUserRequest) (*User, error) {
	v := common.NewValidator()
	validatePassword(v, req.Password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	pwd, err := NewPassword(*req.Password)
	if err != nil {
		return nil, err
	}

	u := User{
		Username: req.Username,
		Name:     req.Name,
		Password: pwd,
	}

	err = s.store.Insert(ctx, &u)
	if err != nil {
		if msg, ok := usernameError(err); ok {
			v.AddError("username", msg)
			return nil, v.ValidationError()
		}
		return nil, err
	}

	data, err := json.Marshal(struct {
		ID       uuid.UUID `json:"id"`
		Username string    `json:"username"`
	}{u.ID, u.Username})
	if err != nil {
		return &u, fmt.Errorf("%w: %w", common.ErrEventNotPublished, err)
	}

	err = s.mb.Publish(ctx, data, common.UserCreatedKey, common.UserExchange)
	if err != nil {
		return &u, fmt.Errorf("%w: %w", common.ErrEventNotPublished, err)
	}

	return &u, nil
}

// LoginUser checks the credentials and issues a bearer token for the user.
func (s *UserService) LoginUser(ctx context.Context, username, password string) (*LoginResponse, error) {
	u, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, ErrInvalidCredentials
		default:
			return nil, err
		}
	}

	if !u.Password.Verify(password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID, u.Username)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{Token: token, Username: u.Username, Name: u.Name}, nil
}

// GetUser returns the user with the given id, serving repeated lookups from the cache.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	key := common.CacheKeyUser(id)

	if cached, ok := s.c.Get(key); ok {
		return cloneUser(cached.(*User)), nil
	}

	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.c.Set(key, cloneUser(u))

	return u, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]User, error) {
	return s.store.GetAll(ctx)
}

// AddBlog appends blogID to the blogs of the user.
func (s *UserService) AddBlog(ctx context.Context, userID, blogID uuid.UUID) error {
	defer s.c.Delete(common.CacheKeyUser(userID))
	return s.store.AddBlog(ctx, userID, blogID)
}

// RemoveBlog drops blogID from the blogs of the user.
func (s *UserService) RemoveBlog(ctx context.Context, userID, blogID uuid.UUID) error {
	defer s.c.Delete(common.CacheKeyUser(userID))
	return s.store.RemoveBlog(ctx, userID, blogID)
}
