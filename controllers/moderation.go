package controllers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ardu.app/feed/models"
	"ardu.app/feed/session"
)

var (
	ErrNotPending      = errors.New("post is not in the pending queue")
	ErrInvalidDecision = errors.New("decision must be approve or reject")
)

type Decision string

const (
	Approve Decision = "approve"
	Reject  Decision = "reject"
)

type ModerationAPI interface {
	GetPendingPosts(ctx context.Context) ([]models.Post, error)
	ApprovePost(ctx context.Context, postID int64) error
	RejectPost(ctx context.Context, postID int64) error
}

type PendingRow struct {
	Post       models.Post
	Processing bool
	Err        error // scoped to this row; the admin may retry
}

type ModerationState struct {
	Rows   []PendingRow
	Loaded bool
	Err    error // queue-level load failure
}

// ModerationController is the admin review queue. The pending set is
// loaded once; a successful decision removes the row, a failed one leaves
// it in place with an error.
type ModerationController struct {
	api  ModerationAPI
	sess *session.Session
	view *View[ModerationState]
}

func NewModerationController(api ModerationAPI, sess *session.Session, timeout time.Duration) *ModerationController {
	return &ModerationController{
		api:  api,
		sess: sess,
		// rows guard themselves; decisions on different posts may overlap
		view: newView(ModerationState{}, false, timeout),
	}
}

func (c *ModerationController) State() ModerationState { return c.view.State() }

func (c *ModerationController) Unmount() { c.view.Unmount() }

func (c *ModerationController) Load(ctx context.Context) error {
	if !c.sess.IsAdmin() {
		return ErrForbidden
	}
	posts, err := c.api.GetPendingPosts(ctx)
	c.view.update(func(s ModerationState) ModerationState {
		if err != nil {
			s.Err = err
			return s
		}
		rows := make([]PendingRow, 0, len(posts))
		for _, p := range posts {
			row := PendingRow{Post: p}
			// decisions still in flight keep their row state
			if i := rowIndex(s.Rows, p.ID); i >= 0 {
				row.Processing = s.Rows[i].Processing
				row.Err = s.Rows[i].Err
			}
			rows = append(rows, row)
		}
		return ModerationState{Rows: rows, Loaded: true}
	})
	return err
}

func (c *ModerationController) Decide(ctx context.Context, postID int64, d Decision) error {
	if !c.sess.IsAdmin() {
		return ErrForbidden
	}
	var call func(context.Context, int64) error
	switch d {
	case Approve:
		call = c.api.ApprovePost
	case Reject:
		call = c.api.RejectPost
	default:
		return ErrInvalidDecision
	}

	return c.view.speculate(ctx, func(cur ModerationState) (step[ModerationState], error) {
		i := rowIndex(cur.Rows, postID)
		if i < 0 {
			return step[ModerationState]{}, ErrNotPending
		}
		if cur.Rows[i].Processing {
			return step[ModerationState]{}, ErrBusy
		}
		next := cur
		next.Rows = append([]PendingRow(nil), cur.Rows...)
		next.Rows[i].Processing = true
		next.Rows[i].Err = nil

		return step[ModerationState]{
			next: next,
			remote: func(ctx context.Context) error {
				if err := call(ctx, postID); err != nil {
					return fmt.Errorf("failed to %s post: %w", d, err)
				}
				return nil
			},
			commit: func(s ModerationState) ModerationState {
				rows := make([]PendingRow, 0, len(s.Rows))
				for _, r := range s.Rows {
					if r.Post.ID != postID {
						rows = append(rows, r)
					}
				}
				s.Rows = rows
				return s
			},
			revert: func(s ModerationState, err error) ModerationState {
				s.Rows = append([]PendingRow(nil), s.Rows...)
				if j := rowIndex(s.Rows, postID); j >= 0 {
					s.Rows[j].Processing = false
					s.Rows[j].Err = err
				}
				return s
			},
		}, nil
	})
}

// Pending reports whether postID is still in the queue.
func (c *ModerationController) Pending(postID int64) bool {
	return rowIndex(c.view.State().Rows, postID) >= 0
}

func rowIndex(rows []PendingRow, postID int64) int {
	for i, r := range rows {
		if r.Post.ID == postID {
			return i
		}
	}
	return -1
}
