package controllers

import (
	"context"
	"fmt"
	"sync"

	"ardu.app/feed/models"
	"ardu.app/feed/session"
)

// fakeAPI records calls and can fail or hold them. When hold is set each
// call signals started and then waits for a value on release (or ctx).
type fakeAPI struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error // keyed by call prefix, e.g. "reject 43"

	hold    bool
	started chan string
	release chan struct{}

	posts    []models.Post
	pending  []models.Post
	comments []models.Comment // served by GetPublicComments when set
	nextID   int64
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		fail:    map[string]error{},
		started: make(chan string, 16),
		release: make(chan struct{}),
	}
}

func (f *fakeAPI) call(ctx context.Context, name string) error {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	err := f.fail[name]
	hold := f.hold
	f.mu.Unlock()

	if hold {
		f.started <- name
		select {
		case <-f.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) setHold(hold bool) {
	f.mu.Lock()
	f.hold = hold
	f.mu.Unlock()
}

func (f *fakeAPI) failOn(name string, err error) {
	f.mu.Lock()
	f.fail[name] = err
	f.mu.Unlock()
}

func (f *fakeAPI) React(ctx context.Context, postID int64, r models.Reaction) error {
	return f.call(ctx, fmt.Sprintf("react %d %s", postID, r))
}

func (f *fakeAPI) Unreact(ctx context.Context, postID int64) error {
	return f.call(ctx, fmt.Sprintf("unreact %d", postID))
}

func (f *fakeAPI) AddComment(ctx context.Context, postID int64, text string) (models.Comment, error) {
	if err := f.call(ctx, fmt.Sprintf("comment %d %s", postID, text)); err != nil {
		return models.Comment{}, err
	}
	f.mu.Lock()
	f.nextID++
	id := f.nextID
	f.mu.Unlock()
	return models.Comment{ID: id, PostID: postID, Text: text, AuthorName: "server"}, nil
}

func (f *fakeAPI) GetPublicComments(ctx context.Context, postID int64, page, size int) (models.Page[models.Comment], error) {
	if err := f.call(ctx, fmt.Sprintf("comments %d", postID)); err != nil {
		return models.Page[models.Comment]{}, err
	}
	all := []models.Comment{{ID: 1, PostID: postID, Text: "first"}, {ID: 2, PostID: postID, Text: "second"}}
	f.mu.Lock()
	if f.comments != nil {
		all = append([]models.Comment(nil), f.comments...)
	}
	f.mu.Unlock()
	return models.NewPage(all, page, size), nil
}

func (f *fakeAPI) SharePost(ctx context.Context, postID int64) error {
	return f.call(ctx, fmt.Sprintf("share %d", postID))
}

func (f *fakeAPI) GetPendingPosts(ctx context.Context) ([]models.Post, error) {
	if err := f.call(ctx, "pending"); err != nil {
		return nil, err
	}
	return append([]models.Post(nil), f.pending...), nil
}

func (f *fakeAPI) ApprovePost(ctx context.Context, postID int64) error {
	return f.call(ctx, fmt.Sprintf("approve %d", postID))
}

func (f *fakeAPI) RejectPost(ctx context.Context, postID int64) error {
	return f.call(ctx, fmt.Sprintf("reject %d", postID))
}

func (f *fakeAPI) GetPublicPosts(ctx context.Context) ([]models.Post, error) {
	if err := f.call(ctx, "public"); err != nil {
		return nil, err
	}
	return append([]models.Post(nil), f.posts...), nil
}

func (f *fakeAPI) GetMyPosts(ctx context.Context, userID int64) ([]models.Post, error) {
	if err := f.call(ctx, fmt.Sprintf("my %d", userID)); err != nil {
		return nil, err
	}
	var mine []models.Post
	for _, p := range f.posts {
		if p.Author.ID == userID {
			mine = append(mine, p)
		}
	}
	return mine, nil
}

func (f *fakeAPI) DeletePost(ctx context.Context, postID int64) error {
	return f.call(ctx, fmt.Sprintf("delete %d", postID))
}

func memberSession() *session.Session {
	return session.FromLogin(models.LoginResponse{
		ID: 5, Name: "Member", Role: models.RoleMember, Approval: models.ApprovalApproved,
		Jwt: models.JwtResponse{Token: "member-token"},
	})
}

func adminSession() *session.Session {
	return session.FromLogin(models.LoginResponse{
		ID: 1, Name: "Admin", Role: models.RoleAdmin, Approval: models.ApprovalApproved,
		Jwt: models.JwtResponse{Token: "admin-token"},
	})
}
