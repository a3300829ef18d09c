package models

import (
	"fmt"
	"strings"
	"time"
)

// Reaction is the single reaction a user holds on a post. The zero value
// means no reaction.
type Reaction string

const (
	ReactionNone  Reaction = ""
	ReactionLike  Reaction = "like"
	ReactionLove  Reaction = "love"
	ReactionHaha  Reaction = "haha"
	ReactionWow   Reaction = "wow"
	ReactionSad   Reaction = "sad"
	ReactionAngry Reaction = "angry"
)

var Reactions = []Reaction{ReactionLike, ReactionLove, ReactionHaha, ReactionWow, ReactionSad, ReactionAngry}

func (r Reaction) Valid() bool {
	for _, v := range Reactions {
		if r == v {
			return true
		}
	}
	return false
}

func ParseReaction(s string) (Reaction, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "none" {
		return ReactionNone, nil
	}
	r := Reaction(s)
	if !r.Valid() {
		return ReactionNone, fmt.Errorf("unknown reaction %q", s)
	}
	return r, nil
}

type ReactionRequest struct {
	Type Reaction `json:"type"`
}

type ReactionRecord struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"postId"`
	UserID    int64     `json:"userId"`
	UserName  string    `json:"userName"`
	Type      Reaction  `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

type Comment struct {
	ID         int64     `json:"id"`
	PostID     int64     `json:"postId"`
	AuthorID   int64     `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
}

type CommentRequest struct {
	Text string `json:"text"`
}

// Page mirrors the paged listings served under /api/public/posts/{id}.
type Page[T any] struct {
	Content       []T `json:"content"`
	Number        int `json:"number"`
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}

func NewPage[T any](all []T, page, size int) Page[T] {
	if size <= 0 {
		size = 10
	}
	if page < 0 {
		page = 0
	}
	p := Page[T]{Number: page, Size: size, TotalElements: len(all), Content: []T{}}
	p.TotalPages = (len(all) + size - 1) / size
	start := page * size
	if start >= len(all) {
		return p
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	p.Content = append(p.Content, all[start:end]...)
	return p
}
