// Package database holds the persistence layer of the reference backend.
package database

import (
	"context"
	"errors"
	"time"

	"ardu.app/feed/models"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email is already registered")
	ErrNotPending = errors.New("post is not pending")
)

// Store is implemented by the Postgres store and the in-memory store.
// viewerID is 0 for anonymous callers; it only fills Post.MyReaction.
type Store interface {
	CreateUser(ctx context.Context, u models.User, passwordHash string) (models.User, error)
	UserByEmail(ctx context.Context, email string) (models.User, string, error)
	UserByID(ctx context.Context, id int64) (models.User, error)
	ApproveUser(ctx context.Context, id int64) error
	RejectUser(ctx context.Context, id int64) error
	// Users lists accounts oldest first; an empty status lists all of them.
	Users(ctx context.Context, status models.ApprovalStatus) ([]models.User, error)
	UpdateUser(ctx context.Context, id int64, req models.UserUpdateRequest) (models.User, error)

	CreatePost(ctx context.Context, authorID int64, req models.PostRequest) (models.Post, error)
	PublicPosts(ctx context.Context, viewerID int64) ([]models.Post, error)
	PostsByUser(ctx context.Context, userID, viewerID int64) ([]models.Post, error)
	PendingPosts(ctx context.Context) ([]models.Post, error)
	PostByID(ctx context.Context, id, viewerID int64) (models.Post, error)
	SetPostStatus(ctx context.Context, id int64, status models.PostStatus) (models.Post, error)
	DeletePost(ctx context.Context, id int64) error

	SetReaction(ctx context.Context, postID, userID int64, r models.Reaction) error
	ClearReaction(ctx context.Context, postID, userID int64) error
	Reactions(ctx context.Context, postID int64, page, size int) (models.Page[models.ReactionRecord], error)
	AddComment(ctx context.Context, postID, userID int64, text string) (models.Comment, error)
	Comments(ctx context.Context, postID int64, page, size int) (models.Page[models.Comment], error)
	AddShare(ctx context.Context, postID, userID int64) error

	// ArchiveExpired moves posts created before cutoff into the archive and
	// returns how many were moved.
	ArchiveExpired(ctx context.Context, cutoff time.Time) (int, error)

	Close() error
}
