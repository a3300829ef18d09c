package models

import (
	"testing"
)

func TestMediaTypeOf(t *testing.T) {
	tests := []struct {
		url  string
		want MediaType
	}{
		{"", MediaNone},
		{"https://cdn.example.com/u/1/photo.jpg", MediaImage},
		{"https://cdn.example.com/video/upload/clip.mp4", MediaVideo},
		{"https://cdn.example.com/VIDEO/clip", MediaVideo},
		{"https://cdn.example.com/u/1/clip.mp4", MediaImage},
	}
	for _, tt := range tests {
		if got := MediaTypeOf(tt.url); got != tt.want {
			t.Errorf("MediaTypeOf(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestParseReaction(t *testing.T) {
	for _, r := range Reactions {
		got, err := ParseReaction(" " + string(r) + " ")
		if err != nil || got != r {
			t.Errorf("ParseReaction(%q) = %q, %v", r, got, err)
		}
	}
	for _, s := range []string{"", "none", "NONE"} {
		if got, err := ParseReaction(s); err != nil || got != ReactionNone {
			t.Errorf("ParseReaction(%q) = %q, %v", s, got, err)
		}
	}
	if _, err := ParseReaction("celebrate"); err == nil {
		t.Errorf("expected error for unknown reaction")
	}
	if ReactionNone.Valid() {
		t.Errorf("none is not a reaction a user can send")
	}
}

func TestNewPage(t *testing.T) {
	all := []int{1, 2, 3, 4, 5, 6, 7}

	p := NewPage(all, 1, 3)
	if p.TotalElements != 7 || p.TotalPages != 3 || len(p.Content) != 3 || p.Content[0] != 4 {
		t.Fatalf("page 1 = %+v", p)
	}
	last := NewPage(all, 2, 3)
	if len(last.Content) != 1 || last.Content[0] != 7 {
		t.Fatalf("last page = %+v", last)
	}
	past := NewPage(all, 9, 3)
	if past.Content == nil || len(past.Content) != 0 {
		t.Fatalf("past the end = %+v", past)
	}
	def := NewPage(all, -1, 0)
	if def.Size != 10 || def.Number != 0 || len(def.Content) != 7 {
		t.Fatalf("defaults = %+v", def)
	}
}

func TestPostVisible(t *testing.T) {
	pending := Post{Author: Author{ID: 3}, Status: StatusPending}
	if pending.Visible(0, "") || pending.Visible(4, RoleMember) {
		t.Errorf("pending post leaked")
	}
	if !pending.Visible(3, RoleMember) || !pending.Visible(9, RoleAdmin) {
		t.Errorf("owner and admin must see pending posts")
	}
	if !(Post{Status: StatusApproved}).Visible(0, "") {
		t.Errorf("approved posts are public")
	}
}
