package controllers

import (
	"context"
	"sync"
	"time"

	"ardu.app/feed/models"
	"ardu.app/feed/session"
)

type PostCardAPI interface {
	ReactionAPI
	CommentAPI
	ShareAPI
}

type FeedAPI interface {
	PostCardAPI
	GetPublicPosts(ctx context.Context) ([]models.Post, error)
	GetMyPosts(ctx context.Context, userID int64) ([]models.Post, error)
	DeletePost(ctx context.Context, postID int64) error
}

// PostCard bundles the controllers behind one rendered post.
type PostCard struct {
	Post      models.Post
	Reactions *ReactionController
	Comments  *CommentController
	Shares    *ShareController
}

func NewPostCard(api PostCardAPI, sess *session.Session, p models.Post, timeout time.Duration) *PostCard {
	return &PostCard{
		Post:      p,
		Reactions: NewReactionController(api, sess, p.ID, p.MyReaction, p.ReactionCount, timeout),
		Comments:  NewCommentController(api, sess, p.ID, p.CommentCount, timeout),
		Shares:    NewShareController(api, sess, p.ID, p.ShareCount, timeout),
	}
}

func (c *PostCard) Unmount() {
	c.Reactions.Unmount()
	c.Comments.Unmount()
	c.Shares.Unmount()
}

// Feed is a list of post cards loaded from the server. Reloading unmounts
// the old cards, so late responses for them are ignored.
type Feed struct {
	api     FeedAPI
	sess    *session.Session
	timeout time.Duration

	mu    sync.Mutex
	cards []*PostCard
}

func NewFeed(api FeedAPI, sess *session.Session, timeout time.Duration) *Feed {
	return &Feed{api: api, sess: sess, timeout: timeout}
}

// Load mounts the public feed of approved posts.
func (f *Feed) Load(ctx context.Context) error {
	posts, err := f.api.GetPublicPosts(ctx)
	if err != nil {
		return err
	}
	f.mount(posts)
	return nil
}

// LoadMine mounts the signed-in user's own posts, pending ones included.
func (f *Feed) LoadMine(ctx context.Context) error {
	if !f.sess.Authenticated() {
		return ErrNotSignedIn
	}
	posts, err := f.api.GetMyPosts(ctx, f.sess.UserID())
	if err != nil {
		return err
	}
	f.mount(posts)
	return nil
}

func (f *Feed) mount(posts []models.Post) {
	cards := make([]*PostCard, 0, len(posts))
	for _, p := range posts {
		cards = append(cards, NewPostCard(f.api, f.sess, p, f.timeout))
	}
	f.mu.Lock()
	old := f.cards
	f.cards = cards
	f.mu.Unlock()
	for _, c := range old {
		c.Unmount()
	}
}

func (f *Feed) Cards() []*PostCard {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*PostCard(nil), f.cards...)
}

func (f *Feed) Card(postID int64) (*PostCard, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.cards {
		if c.Post.ID == postID {
			return c, true
		}
	}
	return nil, false
}

// Delete removes a post the caller owns, or any post for an admin. The card
// is dropped only after the server confirms.
func (f *Feed) Delete(ctx context.Context, postID int64) error {
	if !f.sess.Authenticated() {
		return ErrNotSignedIn
	}
	card, ok := f.Card(postID)
	if ok && !f.sess.IsAdmin() && card.Post.Author.ID != f.sess.UserID() {
		return ErrForbidden
	}
	if err := f.api.DeletePost(ctx, postID); err != nil {
		return err
	}
	f.mu.Lock()
	kept := f.cards[:0:0]
	for _, c := range f.cards {
		if c.Post.ID == postID {
			c.Unmount()
			continue
		}
		kept = append(kept, c)
	}
	f.cards = kept
	f.mu.Unlock()
	return nil
}

func (f *Feed) Unmount() {
	f.mu.Lock()
	cards := f.cards
	f.cards = nil
	f.mu.Unlock()
	for _, c := range cards {
		c.Unmount()
	}
}
