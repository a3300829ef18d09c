package database

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"ardu.app/feed/models"
)

type memUser struct {
	user models.User
	hash string
}

type memPost struct {
	post      models.Post
	reactions map[int64]models.ReactionRecord // by user
	comments  []models.Comment
	shares    int
}

// MemoryStore keeps everything in process memory. The server falls back to
// it when DATABASE_URL is unset; tests use it directly.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[int64]*memUser
	posts    map[int64]*memPost
	archived []models.Post
	nextID   int64
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: map[int64]*memUser{},
		posts: map[int64]*memPost{},
		now:   time.Now,
	}
}

func (s *MemoryStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *MemoryStore) CreateUser(ctx context.Context, u models.User, passwordHash string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.user.Email, u.Email) {
			return models.User{}, ErrEmailTaken
		}
	}
	u.ID = s.id()
	u.CreatedAt = s.now().UTC()
	s.users[u.ID] = &memUser{user: u, hash: passwordHash}
	return u, nil
}

func (s *MemoryStore) UserByEmail(ctx context.Context, email string) (models.User, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, mu := range s.users {
		if strings.EqualFold(mu.user.Email, email) {
			return mu.user, mu.hash, nil
		}
	}
	return models.User{}, "", ErrNotFound
}

func (s *MemoryStore) UserByID(ctx context.Context, id int64) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mu, ok := s.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return mu.user, nil
}

func (s *MemoryStore) ApproveUser(ctx context.Context, id int64) error {
	return s.setApproval(id, models.ApprovalApproved)
}

func (s *MemoryStore) RejectUser(ctx context.Context, id int64) error {
	return s.setApproval(id, models.ApprovalRejected)
}

func (s *MemoryStore) setApproval(id int64, status models.ApprovalStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	mu, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	mu.user.Approval = status
	return nil
}

func (s *MemoryStore) Users(ctx context.Context, status models.ApprovalStatus) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := []models.User{}
	for _, mu := range s.users {
		if status == "" || mu.user.Approval == status {
			users = append(users, mu.user)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *MemoryStore) UpdateUser(ctx context.Context, id int64, req models.UserUpdateRequest) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mu, ok := s.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	if req.Name != "" {
		mu.user.Name = req.Name
	}
	if req.Username != "" {
		mu.user.Username = req.Username
	}
	if req.MobileNumber != "" {
		mu.user.MobileNumber = req.MobileNumber
	}
	if req.AvatarURL != "" {
		mu.user.AvatarURL = req.AvatarURL
	}
	return mu.user, nil
}

func (s *MemoryStore) CreatePost(ctx context.Context, authorID int64, req models.PostRequest) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	author, ok := s.users[authorID]
	if !ok {
		return models.Post{}, ErrNotFound
	}
	p := models.Post{
		ID:        s.id(),
		Author:    author.user.AsAuthor(),
		Caption:   req.Caption,
		MediaURL:  req.MediaURL,
		MediaType: models.MediaTypeOf(req.MediaURL),
		CreatedAt: s.now().UTC(),
		Status:    models.StatusPending,
	}
	s.posts[p.ID] = &memPost{post: p, reactions: map[int64]models.ReactionRecord{}}
	return p, nil
}

// view renders a stored post with live counters for viewerID.
func (s *MemoryStore) view(mp *memPost, viewerID int64) models.Post {
	p := mp.post
	if mu, ok := s.users[p.Author.ID]; ok {
		p.Author = mu.user.AsAuthor()
	}
	p.ReactionCount = len(mp.reactions)
	p.CommentCount = len(mp.comments)
	p.ShareCount = mp.shares
	if rec, ok := mp.reactions[viewerID]; ok && viewerID != 0 {
		p.MyReaction = rec.Type
	}
	return p
}

// list returns matching posts newest first.
func (s *MemoryStore) list(viewerID int64, keep func(models.Post) bool) []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	posts := []models.Post{}
	for _, mp := range s.posts {
		if keep(mp.post) {
			posts = append(posts, s.view(mp, viewerID))
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts
}

func (s *MemoryStore) PublicPosts(ctx context.Context, viewerID int64) ([]models.Post, error) {
	return s.list(viewerID, func(p models.Post) bool { return p.Status == models.StatusApproved }), nil
}

func (s *MemoryStore) PostsByUser(ctx context.Context, userID, viewerID int64) ([]models.Post, error) {
	return s.list(viewerID, func(p models.Post) bool { return p.Author.ID == userID }), nil
}

func (s *MemoryStore) PendingPosts(ctx context.Context) ([]models.Post, error) {
	return s.list(0, func(p models.Post) bool { return p.Status == models.StatusPending }), nil
}

func (s *MemoryStore) PostByID(ctx context.Context, id, viewerID int64) (models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mp, ok := s.posts[id]
	if !ok {
		return models.Post{}, ErrNotFound
	}
	return s.view(mp, viewerID), nil
}

func (s *MemoryStore) SetPostStatus(ctx context.Context, id int64, status models.PostStatus) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mp, ok := s.posts[id]
	if !ok {
		return models.Post{}, ErrNotFound
	}
	if mp.post.Status != models.StatusPending {
		return models.Post{}, ErrNotPending
	}
	mp.post.Status = status
	return s.view(mp, 0), nil
}

func (s *MemoryStore) DeletePost(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *MemoryStore) SetReaction(ctx context.Context, postID, userID int64, r models.Reaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	mp, ok := s.posts[postID]
	if !ok {
		return ErrNotFound
	}
	rec, exists := mp.reactions[userID]
	if !exists {
		rec = models.ReactionRecord{ID: s.id(), PostID: postID, UserID: userID}
		if mu, ok := s.users[userID]; ok {
			rec.UserName = mu.user.Name
		}
	}
	rec.Type = r
	rec.CreatedAt = s.now().UTC()
	mp.reactions[userID] = rec
	return nil
}

func (s *MemoryStore) ClearReaction(ctx context.Context, postID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	mp, ok := s.posts[postID]
	if !ok {
		return ErrNotFound
	}
	delete(mp.reactions, userID)
	return nil
}

func (s *MemoryStore) Reactions(ctx context.Context, postID int64, page, size int) (models.Page[models.ReactionRecord], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mp, ok := s.posts[postID]
	if !ok {
		return models.Page[models.ReactionRecord]{}, ErrNotFound
	}
	all := make([]models.ReactionRecord, 0, len(mp.reactions))
	for _, rec := range mp.reactions {
		all = append(all, rec)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return models.NewPage(all, page, size), nil
}

func (s *MemoryStore) AddComment(ctx context.Context, postID, userID int64, text string) (models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mp, ok := s.posts[postID]
	if !ok {
		return models.Comment{}, ErrNotFound
	}
	c := models.Comment{ID: s.id(), PostID: postID, AuthorID: userID, Text: text, CreatedAt: s.now().UTC()}
	if mu, ok := s.users[userID]; ok {
		c.AuthorName = mu.user.Name
	}
	mp.comments = append(mp.comments, c)
	return c, nil
}

func (s *MemoryStore) Comments(ctx context.Context, postID int64, page, size int) (models.Page[models.Comment], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mp, ok := s.posts[postID]
	if !ok {
		return models.Page[models.Comment]{}, ErrNotFound
	}
	return models.NewPage(mp.comments, page, size), nil
}

func (s *MemoryStore) AddShare(ctx context.Context, postID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	mp, ok := s.posts[postID]
	if !ok {
		return ErrNotFound
	}
	mp.shares++
	return nil
}

func (s *MemoryStore) ArchiveExpired(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, mp := range s.posts {
		if mp.post.CreatedAt.Before(cutoff) {
			s.archived = append(s.archived, mp.post)
			delete(s.posts, id)
			n++
		}
	}
	return n, nil
}

// Archived returns the posts moved by ArchiveExpired.
func (s *MemoryStore) Archived() []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Post(nil), s.archived...)
}

func (s *MemoryStore) Close() error { return nil }
