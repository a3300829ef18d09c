package controllers

import (
	"context"
	"errors"
	"time"

	"ardu.app/feed/models"
	"ardu.app/feed/session"
)

var ErrInvalidReaction = errors.New("unknown reaction")

type ReactionAPI interface {
	React(ctx context.Context, postID int64, r models.Reaction) error
	Unreact(ctx context.Context, postID int64) error
}

type ReactionState struct {
	Current models.Reaction
	Count   int
	Busy    bool  // a change is in flight; the picker is disabled
	Err     error // last failed change, cleared by the next attempt
}

// ReactionController keeps one user's reaction on one post. Changes are
// shown immediately and rolled back if the server refuses them.
type ReactionController struct {
	api    ReactionAPI
	sess   *session.Session
	postID int64
	view   *View[ReactionState]
}

func NewReactionController(api ReactionAPI, sess *session.Session, postID int64, current models.Reaction, count int, timeout time.Duration) *ReactionController {
	if count < 0 {
		count = 0
	}
	return &ReactionController{
		api:    api,
		sess:   sess,
		postID: postID,
		view:   newView(ReactionState{Current: current, Count: count}, true, timeout),
	}
}

func (c *ReactionController) State() ReactionState { return c.view.State() }

// Enabled reports whether the reaction picker should accept input.
func (c *ReactionController) Enabled() bool {
	return c.sess.Authenticated() && !c.view.State().Busy && c.view.Mounted()
}

func (c *ReactionController) Unmount() { c.view.Unmount() }

// SetReaction applies desired to the post. Picking the reaction already
// held clears it; ReactionNone clears any reaction. A change made while
// another is in flight fails with ErrBusy and leaves the state untouched.
func (c *ReactionController) SetReaction(ctx context.Context, desired models.Reaction) error {
	if !c.sess.Authenticated() {
		return ErrNotSignedIn
	}
	if desired != models.ReactionNone && !desired.Valid() {
		return ErrInvalidReaction
	}

	return c.view.speculate(ctx, func(cur ReactionState) (step[ReactionState], error) {
		prev := cur
		next := cur
		next.Busy = true
		next.Err = nil

		var remote func(context.Context) error
		switch {
		case cur.Current == models.ReactionNone && desired == models.ReactionNone:
			return step[ReactionState]{noop: true}, nil
		case desired == models.ReactionNone || desired == cur.Current:
			next.Current = models.ReactionNone
			if next.Count > 0 {
				next.Count--
			}
			remote = func(ctx context.Context) error { return c.api.Unreact(ctx, c.postID) }
		case cur.Current == models.ReactionNone:
			next.Current = desired
			next.Count++
			remote = func(ctx context.Context) error { return c.api.React(ctx, c.postID, desired) }
		default:
			// switching type keeps the count
			next.Current = desired
			remote = func(ctx context.Context) error { return c.api.React(ctx, c.postID, desired) }
		}

		return step[ReactionState]{
			next:   next,
			remote: remote,
			commit: func(s ReactionState) ReactionState {
				s.Busy = false
				return s
			},
			revert: func(s ReactionState, err error) ReactionState {
				s.Current, s.Count = prev.Current, prev.Count
				s.Busy = false
				s.Err = err
				return s
			},
		}, nil
	})
}
