package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"ardu.app/feed/log"
	"ardu.app/feed/models"
	"ardu.app/feed/session"
)

func init() {
	log.Discard()
}

func signedIn() *session.Session {
	return session.FromLogin(models.LoginResponse{
		ID: 5, Role: models.RoleMember, Approval: models.ApprovalApproved,
		Jwt: models.JwtResponse{Token: "tok"},
	})
}

func TestErrorConvention(t *testing.T) {
	tests := []struct {
		name   string
		status int
		ctype  string
		body   string
		want   string
	}{
		{"json message", 400, "application/json", `{"message":"Caption is required"}`, "Caption is required"},
		{"json without message", 500, "application/json", `{"error":"x"}`, "HTTP error! Status: 500"},
		{"plain text", 403, "text/plain", "Forbidden: admins only\n", "Forbidden: admins only"},
		{"empty", 502, "text/plain", "", "HTTP error! Status: 502"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.ctype)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL, nil).GetPublicPosts(context.Background())
			if !IsStatus(err, tt.status) {
				t.Fatalf("err = %v, want status %d", err, tt.status)
			}
			if got := Message(err); got != tt.want {
				t.Fatalf("message = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAuthRequiredSkipsRequest(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c := New(srv.URL, session.New())
	if err := c.React(context.Background(), 1, models.ReactionLike); !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("err = %v", err)
	}
	if hits.Load() != 0 {
		t.Fatalf("request must not be sent without a session")
	}
}

func TestRequestHeadersAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/posts/12/reactions" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Errorf("missing X-Request-ID")
		}
		var body models.ReactionRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Type != models.ReactionWow {
			t.Errorf("body = %+v, %v", body, err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := New(srv.URL, signedIn()).React(context.Background(), 12, models.ReactionWow); err != nil {
		t.Fatal(err)
	}
}

func TestEmptySuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cm, err := New(srv.URL, signedIn()).AddComment(context.Background(), 1, "hi")
	if err != nil || cm.ID != 0 {
		t.Fatalf("comment = %+v, err = %v", cm, err)
	}
}

func TestTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	c := New(srv.URL, signedIn(), WithTimeout(30*time.Millisecond))
	err := c.SharePost(context.Background(), 1)
	if !IsStatus(err, 0) || Message(err) != "request timed out" {
		t.Fatalf("err = %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("timeout should unwrap to DeadlineExceeded: %v", err)
	}
}

func TestPostsGetMediaType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Post{
			{ID: 1, MediaURL: "https://cdn.test/video/a.mp4"},
			{ID: 2, MediaURL: "https://cdn.test/b.png"},
			{ID: 3},
		})
	}))
	defer srv.Close()

	posts, err := New(srv.URL, nil).GetPublicPosts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []models.MediaType{models.MediaVideo, models.MediaImage, models.MediaNone}
	for i, p := range posts {
		if p.MediaType != want[i] {
			t.Errorf("post %d media = %q, want %q", p.ID, p.MediaType, want[i])
		}
	}
}

func TestLoginFillsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret1" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Invalid email or password"}`))
			return
		}
		json.NewEncoder(w).Encode(models.LoginResponse{
			ID: 8, Email: req.Email, Name: "Ada", Role: models.RoleAdmin, Approval: models.ApprovalApproved,
			Jwt: models.JwtResponse{Token: "jwt", TokenType: "Bearer", ExpiresInSeconds: 3600},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.Login(context.Background(), models.LoginRequest{Email: "ada@ardu.test", Password: "nope"})
	if Message(err) != "Invalid email or password" || c.Session().Authenticated() {
		t.Fatalf("failed login: err=%v authenticated=%v", err, c.Session().Authenticated())
	}

	if _, err := c.Login(context.Background(), models.LoginRequest{Email: "ada@ardu.test", Password: "secret1"}); err != nil {
		t.Fatal(err)
	}
	s := c.Session()
	if !s.Authenticated() || !s.IsAdmin() || s.UserID() != 8 || s.Token() != "jwt" {
		t.Fatalf("session not filled")
	}
	c.Logout()
	if s.Authenticated() {
		t.Fatalf("logout must clear the session")
	}
}

func TestCreatePostValidatesLocally(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits.Add(1) }))
	defer srv.Close()

	_, err := New(srv.URL, signedIn()).CreatePost(context.Background(), models.PostRequest{})
	if err == nil || !strings.Contains(err.Error(), "aption") {
		t.Fatalf("err = %v", err)
	}
	if hits.Load() != 0 {
		t.Fatalf("invalid post must not be sent")
	}
}
