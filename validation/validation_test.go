package validation

import (
	"errors"
	"strings"
	"testing"

	"ardu.app/feed/models"
)

func TestRegister(t *testing.T) {
	valid := models.RegisterRequest{
		Name:            "Asha",
		Email:           "asha@example.com",
		MobileNumber:    "9876543210",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	}

	cases := []struct {
		name   string
		mutate func(*models.RegisterRequest)
		want   error
	}{
		{"ok", func(*models.RegisterRequest) {}, nil},
		{"mismatch", func(r *models.RegisterRequest) { r.ConfirmPassword = "other" }, ErrPasswordMismatch},
		{"bad email", func(r *models.RegisterRequest) { r.Email = "nope" }, ErrInvalidInput},
		{"missing name", func(r *models.RegisterRequest) { r.Name = "" }, ErrInvalidInput},
		{"short password", func(r *models.RegisterRequest) { r.Password, r.ConfirmPassword = "123", "123" }, ErrInvalidInput},
	}
	for _, c := range cases {
		req := valid
		c.mutate(&req)
		err := Register(req)
		if c.want == nil && err != nil {
			t.Fatalf("%s: expected ok, got %v", c.name, err)
		}
		if c.want != nil && !errors.Is(err, c.want) {
			t.Fatalf("%s: expected %v, got %v", c.name, c.want, err)
		}
	}
}

func TestRegisterMessageNamesField(t *testing.T) {
	err := Register(models.RegisterRequest{Email: "a@b.co", MobileNumber: "1234567", Password: "secret1", ConfirmPassword: "secret1"})
	if err == nil || !strings.Contains(err.Error(), "name is required") {
		t.Fatalf("expected name error, got %v", err)
	}
}

func TestPost(t *testing.T) {
	if err := Post(models.PostRequest{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty post should fail, got %v", err)
	}
	if err := Post(models.PostRequest{MediaURL: "https://cdn.example.com/video/1.mp4"}); err != nil {
		t.Fatalf("media-only post should pass, got %v", err)
	}
	if err := Post(models.PostRequest{Caption: "hi", MediaURL: "not a url"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad media url should fail, got %v", err)
	}
}

func TestComment(t *testing.T) {
	if _, err := Comment("   \n\t"); !errors.Is(err, ErrEmptyComment) {
		t.Fatalf("expected ErrEmptyComment, got %v", err)
	}
	text, err := Comment("  nice ride  ")
	if err != nil || text != "nice ride" {
		t.Fatalf("got %q, %v", text, err)
	}
	if _, err := Comment(strings.Repeat("x", MaxCommentLen+1)); !errors.Is(err, ErrCommentTooLong) {
		t.Fatalf("expected ErrCommentTooLong, got %v", err)
	}
}

func TestUserUpdate(t *testing.T) {
	req, err := UserUpdate(models.UserUpdateRequest{Name: "  Asha  "})
	if err != nil || req.Name != "Asha" {
		t.Fatalf("UserUpdate = %+v, %v", req, err)
	}
	cases := []models.UserUpdateRequest{
		{},
		{Name: "   "},
		{Username: "a b"},
		{AvatarURL: "not a url"},
		{MobileNumber: "12"},
	}
	for _, c := range cases {
		if _, err := UserUpdate(c); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("UserUpdate(%+v) err = %v", c, err)
		}
	}
}
