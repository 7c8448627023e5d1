package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/flicksy/internal/domain"
	"github.com/vedran77/flicksy/internal/repository"
)

// memStore backs the fake repositories used by the service tests. All fakes
// share one store so cross-entity counters behave like the real transactions.
type memStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*domain.User
	posts    map[uuid.UUID]*domain.Post
	comments map[uuid.UUID]*domain.Comment
	likes    map[pairKey]domain.Like
	follows  map[pairKey]struct{}
	requests map[uuid.UUID]*domain.VerificationRequest
}

type pairKey struct {
	a, b uuid.UUID
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[uuid.UUID]*domain.User),
		posts:    make(map[uuid.UUID]*domain.Post),
		comments: make(map[uuid.UUID]*domain.Comment),
		likes:    make(map[pairKey]domain.Like),
		follows:  make(map[pairKey]struct{}),
		requests: make(map[uuid.UUID]*domain.VerificationRequest),
	}
}

func (s *memStore) addUser(username string, role domain.Role) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &domain.User{
		ID:          uuid.New(),
		Username:    username,
		Email:       username + "@example.com",
		DisplayName: username,
		Role:        role,
		CreatedAt:   time.Now(),
	}
	s.users[u.ID] = u
	return u
}

func (s *memStore) addPost(author *domain.User, content string, createdAt time.Time) *domain.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &domain.Post{
		ID:                uuid.New(),
		Content:           content,
		AuthorID:          author.ID,
		AuthorUsername:    author.Username,
		AuthorDisplayName: author.DisplayName,
		AuthorIsVerified:  author.IsVerified,
		CreatedAt:         createdAt,
	}
	s.posts[p.ID] = p
	author.PostsCount++
	return p
}

// --- UserRepository ---

type memUserRepo struct{ s *memStore }

func (r *memUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) List(ctx context.Context, offset, limit int) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var users []domain.User
	for _, u := range r.s.users {
		users = append(users, *u)
	}
	if offset >= len(users) {
		return nil, nil
	}
	users = users[offset:]
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (r *memUserRepo) Search(ctx context.Context, query string, offset, limit int) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q := strings.ToLower(query)
	var users []domain.User
	for _, u := range r.s.users {
		if strings.Contains(strings.ToLower(u.Username), q) ||
			strings.Contains(strings.ToLower(u.DisplayName), q) {
			users = append(users, *u)
		}
	}
	return users, nil
}

func (r *memUserRepo) SetVerified(ctx context.Context, id uuid.UUID, verified bool) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return false, nil
	}
	u.IsVerified = verified
	return true, nil
}

func (r *memUserRepo) SetBanned(ctx context.Context, id uuid.UUID, banned bool) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return false, nil
	}
	u.IsBanned = banned
	return true, nil
}

func (r *memUserRepo) BanIfBannable(ctx context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok || !u.Role.Bannable() {
		return false, nil
	}
	u.IsBanned = true
	return true, nil
}

// --- PostRepository ---

type memPostRepo struct{ s *memStore }

func (r *memPostRepo) Create(ctx context.Context, post *domain.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *post
	r.s.posts[post.ID] = &cp
	if author, ok := r.s.users[post.AuthorID]; ok {
		author.PostsCount++
	}
	return nil
}

func (r *memPostRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memPostRepo) ListRecent(ctx context.Context, offset, limit int) ([]domain.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	posts := r.sortedByCreatedDescLocked()
	return page(posts, offset, limit), nil
}

func (r *memPostRepo) ListByAuthor(ctx context.Context, authorID uuid.UUID, offset, limit int) ([]domain.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var posts []domain.Post
	for _, p := range r.sortedByCreatedDescLocked() {
		if p.AuthorID == authorID {
			posts = append(posts, p)
		}
	}
	return page(posts, offset, limit), nil
}

func (r *memPostRepo) TrendingSince(ctx context.Context, cutoff time.Time, limit int) ([]domain.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var posts []domain.Post
	for _, p := range r.s.posts {
		if !p.CreatedAt.Before(cutoff) {
			posts = append(posts, *p)
		}
	}
	sortPosts(posts, func(a, b domain.Post) bool {
		if a.LikesCount != b.LikesCount {
			return a.LikesCount > b.LikesCount
		}
		if a.CommentsCount != b.CommentsCount {
			return a.CommentsCount > b.CommentsCount
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return page(posts, 0, limit), nil
}

func (r *memPostRepo) RecentContents(ctx context.Context, limit int) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var contents []string
	for _, p := range r.sortedByCreatedDescLocked() {
		contents = append(contents, p.Content)
	}
	return contents, nil
}

func (r *memPostRepo) Search(ctx context.Context, query string, offset, limit int) ([]domain.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q := strings.ToLower(query)
	var posts []domain.Post
	for _, p := range r.sortedByCreatedDescLocked() {
		if strings.Contains(strings.ToLower(p.Content), q) {
			posts = append(posts, p)
		}
	}
	return page(posts, offset, limit), nil
}

func (r *memPostRepo) DeleteCascade(ctx context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return false, nil
	}
	for cid, c := range r.s.comments {
		if c.PostID == id {
			delete(r.s.comments, cid)
		}
	}
	for key, like := range r.s.likes {
		if like.PostID == id {
			delete(r.s.likes, key)
		}
	}
	delete(r.s.posts, id)
	if author, ok := r.s.users[p.AuthorID]; ok && author.PostsCount > 0 {
		author.PostsCount--
	}
	return true, nil
}

func (r *memPostRepo) sortedByCreatedDescLocked() []domain.Post {
	var posts []domain.Post
	for _, p := range r.s.posts {
		posts = append(posts, *p)
	}
	sortPosts(posts, func(a, b domain.Post) bool {
		return a.CreatedAt.After(b.CreatedAt)
	})
	return posts
}

// --- CommentRepository ---

type memCommentRepo struct{ s *memStore }

func (r *memCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *comment
	r.s.comments[comment.ID] = &cp
	if p, ok := r.s.posts[comment.PostID]; ok {
		p.CommentsCount++
	}
	return nil
}

func (r *memCommentRepo) ListByPost(ctx context.Context, postID uuid.UUID, offset, limit int) ([]domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var comments []domain.Comment
	for _, c := range r.s.comments {
		if c.PostID == postID {
			comments = append(comments, *c)
		}
	}
	return comments, nil
}

func (r *memCommentRepo) CountByPost(ctx context.Context, postID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, c := range r.s.comments {
		if c.PostID == postID {
			n++
		}
	}
	return n, nil
}

// --- LikeRepository ---

type memLikeRepo struct{ s *memStore }

func (r *memLikeRepo) Toggle(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := pairKey{userID, postID}
	post := r.s.posts[postID]

	if _, ok := r.s.likes[key]; ok {
		delete(r.s.likes, key)
		if post != nil && post.LikesCount > 0 {
			post.LikesCount--
		}
		return false, nil
	}

	r.s.likes[key] = domain.Like{
		ID:        uuid.New(),
		UserID:    userID,
		PostID:    postID,
		CreatedAt: time.Now(),
	}
	if post != nil {
		post.LikesCount++
	}
	return true, nil
}

func (r *memLikeRepo) LikedPostIDs(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	liked := make(map[uuid.UUID]bool)
	for _, id := range postIDs {
		if _, ok := r.s.likes[pairKey{userID, id}]; ok {
			liked[id] = true
		}
	}
	return liked, nil
}

func (r *memLikeRepo) CountByPost(ctx context.Context, postID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, like := range r.s.likes {
		if like.PostID == postID {
			n++
		}
	}
	return n, nil
}

// --- FollowRepository ---

type memFollowRepo struct{ s *memStore }

func (r *memFollowRepo) Toggle(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := pairKey{followerID, followeeID}
	follower := r.s.users[followerID]
	followee := r.s.users[followeeID]

	if _, ok := r.s.follows[key]; ok {
		delete(r.s.follows, key)
		if follower != nil && follower.FollowingCount > 0 {
			follower.FollowingCount--
		}
		if followee != nil && followee.FollowersCount > 0 {
			followee.FollowersCount--
		}
		return false, nil
	}

	r.s.follows[key] = struct{}{}
	if follower != nil {
		follower.FollowingCount++
	}
	if followee != nil {
		followee.FollowersCount++
	}
	return true, nil
}

func (r *memFollowRepo) IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.follows[pairKey{followerID, followeeID}]
	return ok, nil
}

// --- VerificationRepository ---

type memVerificationRepo struct{ s *memStore }

func (r *memVerificationRepo) Create(ctx context.Context, req *domain.VerificationRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.requests {
		if existing.UserID == req.UserID && existing.Status == domain.VerificationPending {
			return repository.ErrDuplicate
		}
	}
	cp := *req
	r.s.requests[req.ID] = &cp
	return nil
}

func (r *memVerificationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.VerificationRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requests[id]
	if !ok {
		return nil, nil
	}
	cp := *req
	return &cp, nil
}

func (r *memVerificationRepo) GetPendingByUser(ctx context.Context, userID uuid.UUID) (*domain.VerificationRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, req := range r.s.requests {
		if req.UserID == userID && req.Status == domain.VerificationPending {
			cp := *req
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memVerificationRepo) ListPending(ctx context.Context, offset, limit int) ([]domain.VerificationRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var reqs []domain.VerificationRequest
	for _, req := range r.s.requests {
		if req.Status == domain.VerificationPending {
			reqs = append(reqs, *req)
		}
	}
	if offset >= len(reqs) {
		return nil, nil
	}
	reqs = reqs[offset:]
	if limit > 0 && len(reqs) > limit {
		reqs = reqs[:limit]
	}
	return reqs, nil
}

func (r *memVerificationRepo) Review(ctx context.Context, id uuid.UUID, status domain.VerificationStatus, reviewerID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requests[id]
	if !ok || req.Status != domain.VerificationPending {
		return false, nil
	}
	now := time.Now()
	req.Status = status
	req.ReviewedBy = &reviewerID
	req.ReviewedAt = &now
	return true, nil
}

// --- audit fake ---

type memAuditPublisher struct {
	mu     sync.Mutex
	events []AuditEvent
}

func (p *memAuditPublisher) Publish(ctx context.Context, ev AuditEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *memAuditPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, ev := range p.events {
		out = append(out, ev.Action)
	}
	return out
}

// --- helpers ---

func page(posts []domain.Post, offset, limit int) []domain.Post {
	if offset >= len(posts) {
		return nil
	}
	posts = posts[offset:]
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts
}

func sortPosts(posts []domain.Post, less func(a, b domain.Post) bool) {
	for i := 1; i < len(posts); i++ {
		for j := i; j > 0 && less(posts[j], posts[j-1]); j-- {
			posts[j], posts[j-1] = posts[j-1], posts[j]
		}
	}
}
