package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ardu.app/feed/database"
	"ardu.app/feed/log"
	"ardu.app/feed/models"
)

func init() {
	log.Discard()
}

func TestBootstrapAdminIsIdempotent(t *testing.T) {
	store := database.NewMemoryStore()
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := BootstrapAdmin(ctx, store, "root@ardu.test", "rootpass"); err != nil {
			t.Fatal(err)
		}
	}
	u, _, err := store.UserByEmail(ctx, "root@ardu.test")
	if err != nil || u.Role != models.RoleAdmin || u.Approval != models.ApprovalApproved || u.ID != 1 {
		t.Fatalf("admin = %+v, %v", u, err)
	}
	if err := BootstrapAdmin(ctx, store, "", ""); err != nil {
		t.Fatalf("missing credentials should be skipped: %v", err)
	}
}

func TestArchiveExpiredPosts(t *testing.T) {
	store := database.NewMemoryStore()
	ctx := context.Background()
	u, _ := store.CreateUser(ctx, models.User{Name: "A", Email: "a@ardu.test"}, "x")
	store.CreatePost(ctx, u.ID, models.PostRequest{Caption: "now"})

	n, err := ArchiveExpiredPosts(ctx, store, 7*24*time.Hour)
	if err != nil || n != 0 {
		t.Fatalf("fresh post archived: %d, %v", n, err)
	}
	n, err = ArchiveExpiredPosts(ctx, store, -time.Hour)
	if err != nil || n != 1 {
		t.Fatalf("archived %d, %v", n, err)
	}
}

func TestRegisterValidation(t *testing.T) {
	h := Register(database.NewMemoryStore())
	tests := []struct {
		body string
		want int
	}{
		{`{`, http.StatusBadRequest},
		{`{"name":"A","email":"nope","mobileNumber":"0771234567","password":"secret1"}`, http.StatusBadRequest},
		{`{"name":"A","email":"a@ardu.test","mobileNumber":"0771234567","password":"123"}`, http.StatusBadRequest},
		{`{"name":"A","email":"a@ardu.test","mobileNumber":"0771234567","password":"secret1"}`, http.StatusCreated},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodPost, "/api/users/register", strings.NewReader(tt.body)))
		if rec.Code != tt.want {
			t.Errorf("%s: status %d, want %d (%s)", tt.body, rec.Code, tt.want, rec.Body)
		}
		if rec.Code == http.StatusBadRequest && !strings.Contains(rec.Body.String(), `"message"`) {
			t.Errorf("error body must carry a message: %s", rec.Body)
		}
	}
}
