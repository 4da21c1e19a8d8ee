package domain

import (
	"strings"
	"testing"
)

func TestBuildCommentTree(t *testing.T) {
	comments := []*Comment{
		{ID: "c1"},
		{ID: "c2", ParentID: "c1"},
		{ID: "c3", ParentID: "c1"},
		{ID: "c4"},
		{ID: "c5", ParentID: "c2"},
	}

	roots := BuildCommentTree(comments)
	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
	if roots[0].ID != "c1" || roots[1].ID != "c4" {
		t.Fatalf("unexpected root order: %s, %s", roots[0].ID, roots[1].ID)
	}
	if len(roots[0].Replies) != 2 {
		t.Fatalf("expected 2 replies under c1, got %d", len(roots[0].Replies))
	}
	if roots[0].Replies[0].ID != "c2" || roots[0].Replies[1].ID != "c3" {
		t.Fatalf("expected slice order preserved among replies")
	}
	if len(roots[0].Replies[0].Replies) != 1 || roots[0].Replies[0].Replies[0].ID != "c5" {
		t.Fatalf("expected c5 nested under c2")
	}
	if len(roots[1].Replies) != 0 {
		t.Fatalf("expected no replies under c4")
	}
}

func TestBuildCommentTree_DropsOrphans(t *testing.T) {
	comments := []*Comment{
		{ID: "c1"},
		{ID: "c2", ParentID: "elsewhere"},
	}

	roots := BuildCommentTree(comments)
	if len(roots) != 1 || roots[0].ID != "c1" {
		t.Fatalf("expected only c1 as root, got %d roots", len(roots))
	}
}

func TestBuildCommentTree_Empty(t *testing.T) {
	if roots := BuildCommentTree(nil); len(roots) != 0 {
		t.Fatalf("expected empty tree, got %d roots", len(roots))
	}
}

func TestAvatarForEmail(t *testing.T) {
	a := AvatarForEmail("Alice@Example.com ")
	b := AvatarForEmail("alice@example.com")
	if a != b {
		t.Fatalf("expected case- and space-insensitive avatars: %s vs %s", a, b)
	}
	if !strings.HasPrefix(a, "https://www.gravatar.com/avatar/") {
		t.Fatalf("unexpected avatar url: %s", a)
	}
}
