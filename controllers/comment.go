package controllers

import (
	"context"
	"sync/atomic"
	"time"

	"ardu.app/feed/models"
	"ardu.app/feed/session"
	"ardu.app/feed/validation"
)

type CommentAPI interface {
	AddComment(ctx context.Context, postID int64, text string) (models.Comment, error)
	GetPublicComments(ctx context.Context, postID int64, page, size int) (models.Page[models.Comment], error)
}

type CommentState struct {
	Comments []models.Comment // oldest first; unsent comments carry negative IDs
	Count    int
	Draft    string
	Sending  int
	Err      error
}

// CommentController appends comments to one post. Each submission bumps
// the counter and shows a placeholder right away; a failed one is taken
// back out and its text returned to the draft.
type CommentController struct {
	api    CommentAPI
	sess   *session.Session
	postID int64
	view   *View[CommentState]
	tempID atomic.Int64
}

func NewCommentController(api CommentAPI, sess *session.Session, postID int64, count int, timeout time.Duration) *CommentController {
	if count < 0 {
		count = 0
	}
	return &CommentController{
		api:    api,
		sess:   sess,
		postID: postID,
		view:   newView(CommentState{Count: count}, false, timeout),
	}
}

func (c *CommentController) State() CommentState { return c.view.State() }

func (c *CommentController) Unmount() { c.view.Unmount() }

func (c *CommentController) SetDraft(text string) {
	c.view.update(func(s CommentState) CommentState {
		s.Draft = text
		return s
	})
}

// Load fetches one page of comments. Page 0 replaces the loaded list, later
// pages are appended. The counter never goes down.
func (c *CommentController) Load(ctx context.Context, page, size int) error {
	p, err := c.api.GetPublicComments(ctx, c.postID, page, size)
	if err != nil {
		return err
	}
	c.view.update(func(s CommentState) CommentState {
		var sending []models.Comment
		for _, cm := range s.Comments {
			if cm.ID < 0 {
				sending = append(sending, cm)
			}
		}
		var list []models.Comment
		if page > 0 {
			for _, cm := range s.Comments {
				if cm.ID > 0 {
					list = append(list, cm)
				}
			}
		}
		list = append(list, p.Content...)
		s.Comments = append(list, sending...)
		if p.TotalElements > s.Count {
			s.Count = p.TotalElements
		}
		return s
	})
	return nil
}

// SubmitDraft submits the current draft.
func (c *CommentController) SubmitDraft(ctx context.Context) error {
	return c.Submit(ctx, c.view.State().Draft)
}

// Submit posts text as a new comment. Empty or whitespace-only text is
// rejected locally without a request.
func (c *CommentController) Submit(ctx context.Context, text string) error {
	if !c.sess.Authenticated() {
		return ErrNotSignedIn
	}
	text, err := validation.Comment(text)
	if err != nil {
		return err
	}

	tempID := -c.tempID.Add(1)
	placeholder := models.Comment{
		ID:         tempID,
		PostID:     c.postID,
		AuthorID:   c.sess.UserID(),
		AuthorName: c.sess.Name(),
		Text:       text,
		CreatedAt:  time.Now(),
	}
	var created models.Comment

	return c.view.speculate(ctx, func(cur CommentState) (step[CommentState], error) {
		next := cur
		next.Comments = append(append([]models.Comment(nil), cur.Comments...), placeholder)
		next.Count++
		next.Draft = ""
		next.Sending++
		next.Err = nil

		return step[CommentState]{
			next: next,
			remote: func(ctx context.Context) error {
				cm, err := c.api.AddComment(ctx, c.postID, text)
				if err == nil {
					created = cm
				}
				return err
			},
			commit: func(s CommentState) CommentState {
				if created.ID == 0 {
					// server sent no body; keep the local copy
					created = placeholder
					created.ID = 0
				}
				if created.ID != 0 && commentIndex(s.Comments, created.ID) >= 0 {
					// a reload already brought the stored copy in
					s.Comments = replaceComment(s.Comments, tempID, nil)
				} else {
					s.Comments = replaceComment(s.Comments, tempID, &created)
				}
				s.Sending--
				return s
			},
			revert: func(s CommentState, err error) CommentState {
				s.Comments = replaceComment(s.Comments, tempID, nil)
				if s.Count > 0 {
					s.Count--
				}
				if s.Draft == "" {
					s.Draft = text
				}
				s.Sending--
				s.Err = err
				return s
			},
		}, nil
	})
}

// replaceComment returns a copy of list with the comment id swapped for
// with, or dropped when with is nil.
func replaceComment(list []models.Comment, id int64, with *models.Comment) []models.Comment {
	out := make([]models.Comment, 0, len(list))
	for _, cm := range list {
		if cm.ID != id {
			out = append(out, cm)
			continue
		}
		if with != nil {
			out = append(out, *with)
		}
	}
	return out
}

func commentIndex(list []models.Comment, id int64) int {
	for i, cm := range list {
		if cm.ID == id {
			return i
		}
	}
	return -1
}
