package client

import (
	"context"
	"fmt"
	"net/http"

	"ardu.app/feed/models"
	"ardu.app/feed/validation"
)

const (
	postsBase       = "/api/posts"
	publicPostsBase = "/api/public/posts"
)

func withMediaTypes(posts []models.Post) []models.Post {
	for i := range posts {
		posts[i] = withMediaType(posts[i])
	}
	return posts
}

func withMediaType(p models.Post) models.Post {
	if p.MediaType == models.MediaNone {
		p.MediaType = models.MediaTypeOf(p.MediaURL)
	}
	return p
}

// GetPublicPosts lists approved posts. With a session the server also fills
// in the caller's own reaction on each post.
func (c *Client) GetPublicPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := c.do(ctx, request{method: http.MethodGet, path: publicPostsBase, out: &posts}); err != nil {
		return nil, err
	}
	return withMediaTypes(posts), nil
}

func (c *Client) GetPublicComments(ctx context.Context, postID int64, page, size int) (models.Page[models.Comment], error) {
	var p models.Page[models.Comment]
	path := fmt.Sprintf("%s/%d/comments?page=%d&size=%d", publicPostsBase, postID, page, size)
	err := c.do(ctx, request{method: http.MethodGet, path: path, out: &p})
	return p, err
}

func (c *Client) GetPublicReactions(ctx context.Context, postID int64, page, size int) (models.Page[models.ReactionRecord], error) {
	var p models.Page[models.ReactionRecord]
	path := fmt.Sprintf("%s/%d/reactions?page=%d&size=%d", publicPostsBase, postID, page, size)
	err := c.do(ctx, request{method: http.MethodGet, path: path, out: &p})
	return p, err
}

// CreatePost submits a post for approval. The returned post is pending.
func (c *Client) CreatePost(ctx context.Context, req models.PostRequest) (models.Post, error) {
	if err := validation.Post(req); err != nil {
		return models.Post{}, err
	}
	var p models.Post
	err := c.do(ctx, request{method: http.MethodPost, path: postsBase + "/create", auth: true, body: req, out: &p})
	return withMediaType(p), err
}

func (c *Client) GetMyPosts(ctx context.Context, userID int64) ([]models.Post, error) {
	var posts []models.Post
	path := fmt.Sprintf("%s/my/%d", postsBase, userID)
	if err := c.do(ctx, request{method: http.MethodGet, path: path, auth: true, out: &posts}); err != nil {
		return nil, err
	}
	return withMediaTypes(posts), nil
}

func (c *Client) GetPendingPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := c.do(ctx, request{method: http.MethodGet, path: postsBase + "/pending", auth: true, out: &posts}); err != nil {
		return nil, err
	}
	return withMediaTypes(posts), nil
}

func (c *Client) ApprovePost(ctx context.Context, postID int64) error {
	return c.do(ctx, request{method: http.MethodPut, path: fmt.Sprintf("%s/%d/approve", postsBase, postID), auth: true})
}

func (c *Client) RejectPost(ctx context.Context, postID int64) error {
	return c.do(ctx, request{method: http.MethodPut, path: fmt.Sprintf("%s/%d/reject", postsBase, postID), auth: true})
}

func (c *Client) GetPost(ctx context.Context, postID int64) (models.Post, error) {
	var p models.Post
	err := c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("%s/%d", postsBase, postID), out: &p})
	return withMediaType(p), err
}

func (c *Client) DeletePost(ctx context.Context, postID int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("%s/%d", postsBase, postID), auth: true})
}

// React sets the caller's reaction, replacing any previous one.
func (c *Client) React(ctx context.Context, postID int64, r models.Reaction) error {
	path := fmt.Sprintf("%s/%d/reactions", postsBase, postID)
	return c.do(ctx, request{method: http.MethodPost, path: path, auth: true, body: models.ReactionRequest{Type: r}})
}

func (c *Client) Unreact(ctx context.Context, postID int64) error {
	path := fmt.Sprintf("%s/%d/reactions", postsBase, postID)
	return c.do(ctx, request{method: http.MethodDelete, path: path, auth: true})
}

func (c *Client) AddComment(ctx context.Context, postID int64, text string) (models.Comment, error) {
	var cm models.Comment
	path := fmt.Sprintf("%s/%d/comments", postsBase, postID)
	err := c.do(ctx, request{method: http.MethodPost, path: path, auth: true, body: models.CommentRequest{Text: text}, out: &cm})
	return cm, err
}

func (c *Client) SharePost(ctx context.Context, postID int64) error {
	return c.do(ctx, request{method: http.MethodPost, path: fmt.Sprintf("%s/%d/shares", postsBase, postID), auth: true})
}
