package service

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

type stubPostRepo struct {
	posts  map[string]*domain.Post
	nextID int
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{posts: make(map[string]*domain.Post)}
}

func clonePost(p *domain.Post) *domain.Post {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

func (r *stubPostRepo) Create(_ context.Context, p *domain.Post) (*domain.Post, error) {
	copy := clonePost(p)
	r.nextID++
	copy.ID = "post_" + strconv.Itoa(r.nextID)
	r.posts[copy.ID] = clonePost(copy)
	return clonePost(copy), nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	if p, ok := r.posts[id]; ok {
		return clonePost(p), nil
	}
	return nil, domain.ErrPostNotFound
}

func (r *stubPostRepo) Update(_ context.Context, p *domain.Post) error {
	if _, ok := r.posts[p.ID]; !ok {
		return domain.ErrPostNotFound
	}
	r.posts[p.ID] = clonePost(p)
	return nil
}

func (r *stubPostRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *stubPostRepo) List(_ context.Context, filter ports.ListPostsFilter) ([]*domain.Post, int64, error) {
	var items []*domain.Post
	for _, p := range r.posts {
		if filter.PublishedOnly && !p.Published {
			continue
		}
		if filter.CategoryID != "" && p.CategoryID != filter.CategoryID {
			continue
		}
		if filter.AuthorID != "" && p.AuthorID != filter.AuthorID {
			continue
		}
		items = append(items, clonePost(p))
	}
	return items, int64(len(items)), nil
}

func (r *stubPostRepo) IncrementViews(_ context.Context, id string) error {
	p, ok := r.posts[id]
	if !ok {
		return domain.ErrPostNotFound
	}
	p.ViewCount++
	return nil
}

func (r *stubPostRepo) IncrementComments(_ context.Context, id string, delta int64) error {
	p, ok := r.posts[id]
	if !ok {
		return domain.ErrPostNotFound
	}
	p.CommentCount += delta
	return nil
}

type stubCategoryRepo struct {
	categories map[string]*domain.Category
	nextID     int
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{categories: make(map[string]*domain.Category)}
}

func cloneCategory(c *domain.Category) *domain.Category {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

func (r *stubCategoryRepo) Create(_ context.Context, c *domain.Category) (*domain.Category, error) {
	copy := cloneCategory(c)
	r.nextID++
	copy.ID = "cat_" + strconv.Itoa(r.nextID)
	r.categories[copy.ID] = cloneCategory(copy)
	return cloneCategory(copy), nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id string) (*domain.Category, error) {
	if c, ok := r.categories[id]; ok {
		return cloneCategory(c), nil
	}
	return nil, domain.ErrCategoryNotFound
}

func (r *stubCategoryRepo) FindByName(_ context.Context, name string) (*domain.Category, error) {
	for _, c := range r.categories {
		if c.Name == name {
			return cloneCategory(c), nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

func (r *stubCategoryRepo) List(_ context.Context) ([]*domain.Category, error) {
	var items []*domain.Category
	for _, c := range r.categories {
		items = append(items, cloneCategory(c))
	}
	return items, nil
}

func (r *stubCategoryRepo) Update(_ context.Context, c *domain.Category) error {
	if _, ok := r.categories[c.ID]; !ok {
		return domain.ErrCategoryNotFound
	}
	r.categories[c.ID] = cloneCategory(c)
	return nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *stubCategoryRepo) IncrementPostCount(_ context.Context, id string, delta int64) error {
	c, ok := r.categories[id]
	if !ok {
		return domain.ErrCategoryNotFound
	}
	c.PostCount += delta
	return nil
}

func seedCategory(t *testing.T, repo *stubCategoryRepo, name string) *domain.Category {
	t.Helper()
	category, err := repo.Create(context.Background(), &domain.Category{Name: name})
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return category
}

func TestPostService_Create(t *testing.T) {
	posts := newStubPostRepo()
	categories := newStubCategoryRepo()
	svc := NewPostService(posts, categories, zerolog.Nop())
	ctx := context.Background()
	category := seedCategory(t, categories, "go")

	post, err := svc.Create(ctx, ports.CreatePostInput{
		Title:      "Hello",
		Content:    "<p>First post with some <b>markup</b></p>",
		CategoryID: category.ID,
		AuthorID:   "acc_1",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if post.Published {
		t.Fatalf("expected a draft")
	}
	if post.Summary != "First post with some markup" {
		t.Fatalf("unexpected derived summary: %q", post.Summary)
	}

	stored, _ := categories.FindByID(ctx, category.ID)
	if stored.PostCount != 1 {
		t.Fatalf("expected category post count 1, got %d", stored.PostCount)
	}

	if _, err := svc.Create(ctx, ports.CreatePostInput{
		Title:      "No category",
		Content:    "body",
		CategoryID: "missing",
		AuthorID:   "acc_1",
	}); err != domain.ErrCategoryNotFound {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestPostService_Create_LongSummary(t *testing.T) {
	posts := newStubPostRepo()
	categories := newStubCategoryRepo()
	svc := NewPostService(posts, categories, zerolog.Nop())
	category := seedCategory(t, categories, "go")

	post, err := svc.Create(context.Background(), ports.CreatePostInput{
		Title:      "Long",
		Content:    strings.Repeat("word ", 100),
		CategoryID: category.ID,
		AuthorID:   "acc_1",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if !strings.HasSuffix(post.Summary, "...") {
		t.Fatalf("expected truncated summary with ellipsis, got %q", post.Summary)
	}
}

func TestPostService_Get_Visibility(t *testing.T) {
	posts := newStubPostRepo()
	categories := newStubCategoryRepo()
	svc := NewPostService(posts, categories, zerolog.Nop())
	ctx := context.Background()
	category := seedCategory(t, categories, "go")

	post, err := svc.Create(ctx, ports.CreatePostInput{
		Title:      "Draft",
		Content:    "body",
		CategoryID: category.ID,
		AuthorID:   "acc_owner",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// An unpublished post is a 404 to everyone but the owner or an admin.
	if _, err := svc.Get(ctx, post.ID, ports.Viewer{}); err != domain.ErrPostNotFound {
		t.Fatalf("anonymous: expected ErrPostNotFound, got %v", err)
	}
	if _, err := svc.Get(ctx, post.ID, ports.Viewer{AccountID: "acc_other"}); err != domain.ErrPostNotFound {
		t.Fatalf("other account: expected ErrPostNotFound, got %v", err)
	}
	if _, err := svc.Get(ctx, post.ID, ports.Viewer{AccountID: "acc_owner"}); err != nil {
		t.Fatalf("owner: expected access, got %v", err)
	}
	if _, err := svc.Get(ctx, post.ID, ports.Viewer{AccountID: "acc_admin", IsAdmin: true}); err != nil {
		t.Fatalf("admin: expected access, got %v", err)
	}
}

func TestPostService_Get_CountsViews(t *testing.T) {
	posts := newStubPostRepo()
	categories := newStubCategoryRepo()
	svc := NewPostService(posts, categories, zerolog.Nop())
	ctx := context.Background()
	category := seedCategory(t, categories, "go")

	post, _ := svc.Create(ctx, ports.CreatePostInput{
		Title: "T", Content: "body", CategoryID: category.ID, AuthorID: "acc_1",
	})
	if _, err := svc.Publish(ctx, post.ID, ports.Viewer{AccountID: "acc_1"}); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}

	got, err := svc.Get(ctx, post.ID, ports.Viewer{})
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.ViewCount != 1 {
		t.Fatalf("expected view count 1, got %d", got.ViewCount)
	}

	stored, _ := posts.FindByID(ctx, post.ID)
	if stored.ViewCount != 1 {
		t.Fatalf("expected stored view count 1, got %d", stored.ViewCount)
	}
}

func TestPostService_PublishKeepsFirstTimestamp(t *testing.T) {
	posts := newStubPostRepo()
	categories := newStubCategoryRepo()
	svc := NewPostService(posts, categories, zerolog.Nop())
	ctx := context.Background()
	category := seedCategory(t, categories, "go")
	owner := ports.Viewer{AccountID: "acc_1"}

	post, _ := svc.Create(ctx, ports.CreatePostInput{
		Title: "T", Content: "body", CategoryID: category.ID, AuthorID: "acc_1",
	})

	published, err := svc.Publish(ctx, post.ID, owner)
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if !published.Published || published.PublishedAt.IsZero() {
		t.Fatalf("expected published post with timestamp, got %+v", published)
	}
	firstPublishedAt := published.PublishedAt

	unpublished, err := svc.Unpublish(ctx, post.ID, owner)
	if err != nil {
		t.Fatalf("Unpublish returned error: %v", err)
	}
	if unpublished.Published || !unpublished.PublishedAt.IsZero() {
		t.Fatalf("expected withdrawn post with cleared timestamp, got %+v", unpublished)
	}

	// Republishing sets a fresh timestamp since unpublish cleared it.
	time.Sleep(5 * time.Millisecond)
	republished, err := svc.Publish(ctx, post.ID, owner)
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if republished.PublishedAt.IsZero() {
		t.Fatalf("expected a publication timestamp")
	}
	if republished.PublishedAt.Equal(firstPublishedAt) {
		t.Fatalf("expected a fresh timestamp after unpublish cleared the old one")
	}

	// Publishing an already published post is a no-op.
	again, err := svc.Publish(ctx, post.ID, owner)
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if !again.PublishedAt.Equal(republished.PublishedAt) {
		t.Fatalf("expected timestamp to be stable across repeat publishes")
	}
}

func TestPostService_Update_Authorization(t *testing.T) {
	posts := newStubPostRepo()
	categories := newStubCategoryRepo()
	svc := NewPostService(posts, categories, zerolog.Nop())
	ctx := context.Background()
	category := seedCategory(t, categories, "go")

	post, _ := svc.Create(ctx, ports.CreatePostInput{
		Title: "T", Content: "body", CategoryID: category.ID, AuthorID: "acc_1",
	})

	title := "Changed"
	if _, err := svc.Update(ctx, post.ID, ports.PostPatch{Title: &title}, ports.Viewer{AccountID: "acc_2"}); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}
	if _, err := svc.Update(ctx, post.ID, ports.PostPatch{Title: &title}, ports.Viewer{AccountID: "acc_2", IsAdmin: true}); err != nil {
		t.Fatalf("expected admin to update, got %v", err)
	}

	stored, _ := posts.FindByID(ctx, post.ID)
	if stored.Title != "Changed" {
		t.Fatalf("expected updated title, got %q", stored.Title)
	}
	if stored.Content != "body" {
		t.Fatalf("expected untouched content, got %q", stored.Content)
	}
}

func TestPostService_Update_CategoryMove(t *testing.T) {
	posts := newStubPostRepo()
	categories := newStubCategoryRepo()
	svc := NewPostService(posts, categories, zerolog.Nop())
	ctx := context.Background()
	from := seedCategory(t, categories, "go")
	to := seedCategory(t, categories, "rust")

	post, _ := svc.Create(ctx, ports.CreatePostInput{
		Title: "T", Content: "body", CategoryID: from.ID, AuthorID: "acc_1",
	})

	if _, err := svc.Update(ctx, post.ID, ports.PostPatch{CategoryID: &to.ID}, ports.Viewer{AccountID: "acc_1"}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	fromStored, _ := categories.FindByID(ctx, from.ID)
	toStored, _ := categories.FindByID(ctx, to.ID)
	if fromStored.PostCount != 0 {
		t.Fatalf("expected source count 0, got %d", fromStored.PostCount)
	}
	if toStored.PostCount != 1 {
		t.Fatalf("expected target count 1, got %d", toStored.PostCount)
	}
}

func TestPostService_Delete(t *testing.T) {
	posts := newStubPostRepo()
	categories := newStubCategoryRepo()
	svc := NewPostService(posts, categories, zerolog.Nop())
	ctx := context.Background()
	category := seedCategory(t, categories, "go")

	post, _ := svc.Create(ctx, ports.CreatePostInput{
		Title: "T", Content: "body", CategoryID: category.ID, AuthorID: "acc_1",
	})

	if err := svc.Delete(ctx, post.ID, ports.Viewer{AccountID: "acc_2"}); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, post.ID, ports.Viewer{AccountID: "acc_1"}); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := posts.FindByID(ctx, post.ID); err != domain.ErrPostNotFound {
		t.Fatalf("expected post gone, got %v", err)
	}

	stored, _ := categories.FindByID(ctx, category.ID)
	if stored.PostCount != 0 {
		t.Fatalf("expected category count back to 0, got %d", stored.PostCount)
	}
}
