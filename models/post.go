package models

import (
	"strings"
	"time"
)

type PostStatus string

const (
	StatusPending  PostStatus = "pending"
	StatusApproved PostStatus = "approved"
	StatusRejected PostStatus = "rejected"
)

type MediaType string

const (
	MediaNone  MediaType = ""
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// MediaTypeOf derives the media tag from the content URL. Upload hosts put
// "video" in the path of video assets; anything else is rendered as an image.
func MediaTypeOf(url string) MediaType {
	switch {
	case url == "":
		return MediaNone
	case strings.Contains(strings.ToLower(url), "video"):
		return MediaVideo
	default:
		return MediaImage
	}
}

type Author struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username,omitempty"`
	AvatarURL string `json:"imageUrl,omitempty"`
	Role      Role   `json:"role"`
}

type Post struct {
	ID            int64      `json:"id"`
	Author        Author     `json:"user"`
	Caption       string     `json:"caption"`
	MediaURL      string     `json:"contentUrl,omitempty"`
	MediaType     MediaType  `json:"contentType,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	Status        PostStatus `json:"status"`
	ReactionCount int        `json:"reactionCount"`
	CommentCount  int        `json:"commentCount"`
	ShareCount    int        `json:"shareCount"`
	MyReaction    Reaction   `json:"myReaction,omitempty"`
}

// Visible reports whether viewer may see the post outside the admin queue.
func (p Post) Visible(viewerID int64, viewerRole Role) bool {
	if p.Status == StatusApproved || viewerRole == RoleAdmin {
		return true
	}
	return viewerID != 0 && viewerID == p.Author.ID
}

type PostRequest struct {
	Caption  string `json:"caption" validate:"required_without=MediaURL,max=2000"`
	MediaURL string `json:"mediaUrl,omitempty" validate:"omitempty,url"`
}
