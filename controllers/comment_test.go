package controllers

import (
	"context"
	"errors"
	"testing"
	"time"

	"ardu.app/feed/models"
	"ardu.app/feed/session"
	"ardu.app/feed/validation"
)

func TestCommentEmptyTextIsLocal(t *testing.T) {
	api := newFakeAPI()
	c := NewCommentController(api, memberSession(), 2, 4, time.Second)

	for _, text := range []string{"", "   ", "\n\t "} {
		if err := c.Submit(context.Background(), text); !errors.Is(err, validation.ErrEmptyComment) {
			t.Fatalf("Submit(%q) err = %v", text, err)
		}
	}
	if st := c.State(); st.Count != 4 || len(st.Comments) != 0 {
		t.Fatalf("state changed: %+v", st)
	}
	if len(api.Calls()) != 0 {
		t.Fatalf("no request expected, got %v", api.Calls())
	}
}

func TestCommentSubmitAppendsAndClearsDraft(t *testing.T) {
	api := newFakeAPI()
	api.hold = true
	c := NewCommentController(api, memberSession(), 2, 4, time.Second)
	c.SetDraft("  great ride  ")

	done := make(chan error, 1)
	go func() { done <- c.SubmitDraft(context.Background()) }()
	<-api.started

	st := c.State()
	if st.Count != 5 || st.Draft != "" || st.Sending != 1 {
		t.Fatalf("optimistic state = %+v", st)
	}
	if len(st.Comments) != 1 || st.Comments[0].ID >= 0 || st.Comments[0].Text != "great ride" {
		t.Fatalf("placeholder missing: %+v", st.Comments)
	}

	api.release <- struct{}{}
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	st = c.State()
	if st.Count != 5 || st.Sending != 0 || len(st.Comments) != 1 || st.Comments[0].ID != 1 {
		t.Fatalf("committed state = %+v", st)
	}
	if got := api.Calls(); len(got) != 1 || got[0] != "comment 2 great ride" {
		t.Fatalf("calls = %v", got)
	}
}

func TestCommentFailureRollsBack(t *testing.T) {
	api := newFakeAPI()
	boom := errors.New("offline")
	api.failOn("comment 2 hello", boom)
	c := NewCommentController(api, memberSession(), 2, 4, time.Second)

	err := c.Submit(context.Background(), "hello")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	st := c.State()
	if st.Count != 4 || len(st.Comments) != 0 || st.Draft != "hello" || !errors.Is(st.Err, boom) {
		t.Fatalf("rolled back state = %+v", st)
	}
}

func TestCommentsKeepSubmissionOrder(t *testing.T) {
	api := newFakeAPI()
	c := NewCommentController(api, memberSession(), 2, 0, time.Second)
	for _, text := range []string{"one", "two", "three"} {
		if err := c.Submit(context.Background(), text); err != nil {
			t.Fatal(err)
		}
	}
	st := c.State()
	if st.Count != 3 {
		t.Fatalf("count = %d", st.Count)
	}
	for i, want := range []string{"one", "two", "three"} {
		if st.Comments[i].Text != want {
			t.Fatalf("comment %d = %q, want %q", i, st.Comments[i].Text, want)
		}
	}
}

func TestCommentLoadNeverLowersCount(t *testing.T) {
	api := newFakeAPI()
	c := NewCommentController(api, memberSession(), 2, 7, time.Second)
	if err := c.Load(context.Background(), 0, 10); err != nil {
		t.Fatal(err)
	}
	st := c.State()
	if st.Count != 7 || len(st.Comments) != 2 {
		t.Fatalf("state = %+v", st)
	}

	c2 := NewCommentController(api, memberSession(), 2, 0, time.Second)
	if err := c2.Load(context.Background(), 0, 10); err != nil {
		t.Fatal(err)
	}
	if c2.State().Count != 2 {
		t.Fatalf("count = %d, want 2", c2.State().Count)
	}
}

func TestCommentSignedOut(t *testing.T) {
	api := newFakeAPI()
	c := NewCommentController(api, session.New(), 2, 0, time.Second)
	if err := c.Submit(context.Background(), "hi"); !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("err = %v", err)
	}
}

func TestCommentReloadDuringSubmitKeepsOneCopy(t *testing.T) {
	api := newFakeAPI()
	// the server has stored the comment but its response is still pending
	api.comments = []models.Comment{{ID: 1, PostID: 2, Text: "hello"}}
	api.hold = true
	c := NewCommentController(api, memberSession(), 2, 0, time.Second)

	done := make(chan error, 1)
	go func() { done <- c.Submit(context.Background(), "hello") }()
	<-api.started

	api.setHold(false)
	if err := c.Load(context.Background(), 0, 10); err != nil {
		t.Fatal(err)
	}
	api.release <- struct{}{}
	if err := <-done; err != nil {
		t.Fatal(err)
	}

	st := c.State()
	if len(st.Comments) != 1 || st.Comments[0].ID != 1 {
		t.Fatalf("comments = %+v", st.Comments)
	}
	if st.Count != len(st.Comments) || st.Sending != 0 {
		t.Fatalf("state = %+v", st)
	}
}
