package controllers

import (
	"context"
	"time"

	"ardu.app/feed/session"
)

type ShareAPI interface {
	SharePost(ctx context.Context, postID int64) error
}

type ShareState struct {
	Count int
	Busy  bool
	Err   error
}

type ShareController struct {
	api    ShareAPI
	sess   *session.Session
	postID int64
	view   *View[ShareState]
}

func NewShareController(api ShareAPI, sess *session.Session, postID int64, count int, timeout time.Duration) *ShareController {
	return &ShareController{
		api:    api,
		sess:   sess,
		postID: postID,
		view:   newView(ShareState{Count: count}, true, timeout),
	}
}

func (c *ShareController) State() ShareState { return c.view.State() }

func (c *ShareController) Unmount() { c.view.Unmount() }

func (c *ShareController) Share(ctx context.Context) error {
	if !c.sess.Authenticated() {
		return ErrNotSignedIn
	}
	return c.view.speculate(ctx, func(cur ShareState) (step[ShareState], error) {
		next := cur
		next.Count++
		next.Busy = true
		next.Err = nil
		return step[ShareState]{
			next:   next,
			remote: func(ctx context.Context) error { return c.api.SharePost(ctx, c.postID) },
			commit: func(s ShareState) ShareState {
				s.Busy = false
				return s
			},
			revert: func(s ShareState, err error) ShareState {
				s.Count = cur.Count
				s.Busy = false
				s.Err = err
				return s
			},
		}, nil
	})
}
