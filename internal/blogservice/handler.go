package blogservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/sushihentaime/bloglist/internal/common"
	"github.com/sushihentaime/bloglist/internal/userservice"
)

func NewBlogService(store BlogStore, tokens TokenVerifier, users UserDirectory, mb common.MessageProducer) *BlogService {
	return &BlogService{
		m:      store,
		tokens: tokens,
		users:  users,
		mb:     mb,
	}
}

type blogEvent struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	UserID uuid.UUID `json:"user_id"`
}

// authenticate verifies the token and loads the user it names.
func (s *BlogService) authenticate(ctx context.Context, token string) (*userservice.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	return s.users.GetUser(ctx, claims.SubjectID)
}

// publish emits a blog event. A failure is wrapped in common.ErrEventNotPublished since the
// write it reports on has already been committed.
func (s *BlogService) publish(ctx context.Context, b *Blog, key common.BindingKey) error {
	data, err := json.Marshal(blogEvent{ID: b.ID, Title: b.Title, UserID: b.UserID})
	if err == nil {
		err = s.mb.Publish(ctx, data, key, common.BlogExchange)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrEventNotPublished, err)
	}

	return nil
}

// owners resolves blog owners, looking each user up once.
type owners struct {
	users UserDirectory
	seen  map[uuid.UUID]*Owner
}

func (o *owners) get(ctx context.Context, id uuid.UUID) (*Owner, error) {
	if owner, ok := o.seen[id]; ok {
		return owner, nil
	}

	u, err := o.users.GetUser(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrNotFound):
			o.seen[id] = nil
			return nil, nil
		default:
			return nil, err
		}
	}

	owner := &Owner{ID: u.ID, Username: u.Username, Name: u.Name}
	o.seen[id] = owner

	return owner, nil
}

// List returns every blog with its owner attached.
func (s *BlogService) List(ctx context.Context) ([]Blog, error) {
	blogs, err := s.m.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	o := &owners{users: s.users, seen: make(map[uuid.UUID]*Owner)}
	for i := range blogs {
		blogs[i].User, err = o.get(ctx, blogs[i].UserID)
		if err != nil {
			return nil, err
		}
	}

	return blogs, nil
}

func (s *BlogService) GetBlog(ctx context.Context, id uuid.UUID) (*Blog, error) {
	b, err := s.m.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	o := &owners{users: s.users, seen: make(map[uuid.UUID]*Owner)}
	b.User, err = o.get(ctx, b.UserID)
	if err != nil {
		return nil, err
	}

	return b, nil
}

// CreateBlog stores a new blog owned by the token's user. Likes default to zero. The new
// blog is appended to the user's blogs and a blog.created event is published. When only
// the event fails, the stored blog is returned along with the publish error.
func (s *BlogService) CreateBlog(ctx context.Context, token string, req *CreateBlogRequest) (*Blog, error) {
	u, err := s.authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	req.Title = sanitizeText(req.Title)
	req.Author = sanitizeText(req.Author)
	req.URL = sanitizeText(req.URL)

	v := common.NewValidator()
	validateCreate(v, req)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	b := Blog{
		Title:  req.Title,
		Author: req.Author,
		URL:    req.URL,
		UserID: u.ID,
	}
	if req.Likes != nil {
		b.Likes = *req.Likes
	}

	err = s.m.Insert(ctx, &b)
	if err != nil {
		return nil, err
	}

	err = s.users.AddBlog(ctx, u.ID, b.ID)
	if err != nil {
		if delErr := s.m.Delete(ctx, b.ID); delErr != nil {
			return nil, errors.Join(err, delErr)
		}
		return nil, err
	}

	b.User = &Owner{ID: u.ID, Username: u.Username, Name: u.Name}

	return &b, s.publish(ctx, &b, common.BlogCreatedKey)
}

// DeleteBlog removes the blog if the token's user owns it. An error wrapping
// common.ErrEventNotPublished means the blog is gone but blog.deleted was not emitted.
func (s *BlogService) DeleteBlog(ctx context.Context, token string, id uuid.UUID) error {
	u, err := s.authenticate(ctx, token)
	if err != nil {
		return err
	}

	b, err := s.m.Get(ctx, id)
	if err != nil {
		return err
	}

	if b.UserID != u.ID {
		return common.ErrForbidden
	}

	err = s.m.Delete(ctx, id)
	if err != nil {
		return err
	}

	err = s.users.RemoveBlog(ctx, u.ID, id)
	if err != nil && !errors.Is(err, userservice.ErrNotFound) {
		return err
	}

	return s.publish(ctx, b, common.BlogDeletedKey)
}

// UpdateBlog applies the given fields to the blog. It takes no token: any caller may
// update any blog.
func (s *BlogService) UpdateBlog(ctx context.Context, id uuid.UUID, req *UpdateBlogRequest) (*Blog, error) {
	v := common.NewValidator()
	validateUpdate(v, req)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	b, err := s.m.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		b.Title = sanitizeText(*req.Title)
	}
	if req.Author != nil {
		b.Author = sanitizeText(*req.Author)
	}
	if req.URL != nil {
		b.URL = sanitizeText(*req.URL)
	}
	if req.Likes != nil {
		b.Likes = *req.Likes
	}

	err = s.m.Update(ctx, b)
	if err != nil {
		return nil, err
	}

	return b, nil
}

// Stats aggregates the likes over all blogs.
func (s *BlogService) Stats(ctx context.Context) (*Stats, error) {
	blogs, err := s.m.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	st := &Stats{
		Count:      len(blogs),
		TotalLikes: TotalLikes(blogs),
	}
	if fav, ok := FavoriteBlog(blogs); ok {
		st.Favorite = &fav
	}

	return st, nil
}

// ListUsersWithBlogs returns every user with their blogs expanded.
func (s *BlogService) ListUsersWithBlogs(ctx context.Context) ([]UserWithBlogs, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	blogs, err := s.m.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]Blog, len(blogs))
	for _, b := range blogs {
		byID[b.ID] = b
	}

	res := make([]UserWithBlogs, 0, len(users))
	for _, u := range users {
		uw := UserWithBlogs{ID: u.ID, Username: u.Username, Name: u.Name, Blogs: []BlogRef{}}
		for _, id := range u.Blogs {
			b, ok := byID[id]
			if !ok {
				continue
			}
			uw.Blogs = append(uw.Blogs, BlogRef{ID: b.ID, Title: b.Title, Author: b.Author, URL: b.URL})
		}
		res = append(res, uw)
	}

	return res, nil
}
