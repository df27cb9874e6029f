package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/unilink/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// In-memory stores implementing the repository interfaces, honoring the
// same uniqueness and ordering guarantees as the real ones.

type fakeEdgeRepo struct {
	mu     sync.Mutex
	nextID uint
	edges  map[uint]models.RelationshipEdge
}

func newFakeEdgeRepo() *fakeEdgeRepo {
	return &fakeEdgeRepo{edges: make(map[uint]models.RelationshipEdge)}
}

func (r *fakeEdgeRepo) CreateIfAbsent(_ context.Context, edge *models.RelationshipEdge) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	edge.PairKey = models.PairKeyFor(edge.SenderID, edge.ReceiverID)
	for _, e := range r.edges {
		if e.PairKey == edge.PairKey {
			return false, nil
		}
	}
	r.nextID++
	edge.ID = r.nextID
	edge.CreatedAt = time.Now()
	r.edges[edge.ID] = *edge
	return true, nil
}

func (r *fakeEdgeRepo) GetByID(_ context.Context, id uint) (*models.RelationshipEdge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.edges[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

func (r *fakeEdgeRepo) GetByPair(_ context.Context, a, b uint) (*models.RelationshipEdge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := models.PairKeyFor(a, b)
	for _, e := range r.edges {
		if e.PairKey == key {
			e := e
			return &e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeEdgeRepo) UpdateStatus(_ context.Context, id uint, status models.RelationshipStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.edges[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.Status = status
	r.edges[id] = e
	return nil
}

func (r *fakeEdgeRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.edges, id)
	return nil
}

func (r *fakeEdgeRepo) DeleteByPair(_ context.Context, a, b uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := models.PairKeyFor(a, b)
	var rows int64
	for id, e := range r.edges {
		if e.PairKey == key {
			delete(r.edges, id)
			rows++
		}
	}
	return rows, nil
}

func (r *fakeEdgeRepo) PendingIncoming(_ context.Context, userID uint) ([]models.RelationshipEdge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.RelationshipEdge
	for _, e := range r.edges {
		if e.ReceiverID == userID && e.Status == models.RelationshipPending {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *fakeEdgeRepo) AcceptedNeighborIDs(_ context.Context, userID uint) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for _, e := range r.edges {
		if e.Status == models.RelationshipAccepted && e.Involves(userID) {
			ids = append(ids, e.Other(userID))
		}
	}
	return ids, nil
}

func (r *fakeEdgeRepo) RelatedUserIDs(_ context.Context, userID uint) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for _, e := range r.edges {
		if e.Involves(userID) {
			ids = append(ids, e.Other(userID))
		}
	}
	return ids, nil
}

func (r *fakeEdgeRepo) AcceptedEdgesInvolving(_ context.Context, userIDs []uint) ([]models.RelationshipEdge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[uint]bool, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = true
	}
	var result []models.RelationshipEdge
	for _, e := range r.edges {
		if e.Status == models.RelationshipAccepted && (wanted[e.SenderID] || wanted[e.ReceiverID]) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *fakeEdgeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.edges)
}

type fakeReactionRepo struct {
	mu      sync.Mutex
	nextID  uint
	records map[string]models.ReactionRecord // keyed by user|targetType|targetID
}

func newFakeReactionRepo() *fakeReactionRepo {
	return &fakeReactionRepo{records: make(map[string]models.ReactionRecord)}
}

func reactionKey(userID uint, targetType models.ReactionTarget, targetID string) string {
	return fmt.Sprintf("%d|%s|%s", userID, targetType, targetID)
}

func (r *fakeReactionRepo) Toggle(_ context.Context, userID uint, targetType models.ReactionTarget, targetID, kind string) (models.ReactionResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := reactionKey(userID, targetType, targetID)
	rec, ok := r.records[key]
	if !ok {
		r.nextID++
		r.records[key] = models.ReactionRecord{
			ID:         r.nextID,
			UserID:     userID,
			TargetType: targetType,
			TargetID:   targetID,
			Type:       kind,
			CreatedAt:  time.Now(),
		}
		return models.ReactionResult{Type: kind}, nil
	}
	if rec.Type == kind {
		delete(r.records, key)
		return models.ReactionResult{Removed: true}, nil
	}
	rec.Type = kind
	r.records[key] = rec
	return models.ReactionResult{Type: kind}, nil
}

func (r *fakeReactionRepo) Get(_ context.Context, userID uint, targetType models.ReactionTarget, targetID string) (*models.ReactionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[reactionKey(userID, targetType, targetID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &rec, nil
}

func (r *fakeReactionRepo) Summary(_ context.Context, targetType models.ReactionTarget, targetID string) (models.ReactionSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	summary := models.ReactionSummary{ByType: make(map[string]int64)}
	for _, rec := range r.records {
		if rec.TargetType == targetType && rec.TargetID == targetID {
			summary.ByType[rec.Type]++
			summary.Count++
		}
	}
	return summary, nil
}

type fakePostRepo struct {
	mu    sync.Mutex
	posts []models.Post // insertion order
}

func newFakePostRepo() *fakePostRepo { return &fakePostRepo{} }

func (r *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = primitive.NewObjectID()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	post.UpdatedAt = post.CreatedAt
	r.posts = append(r.posts, *post)
	return nil
}

func (r *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.ID.Hex() == id {
			p := p
			return &p, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakePostRepo) GetPostsByAuthor(_ context.Context, authorID uint, skip, limit int64) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Post
	for _, p := range r.posts {
		if p.AuthorID == authorID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *fakePostRepo) GetCandidatePosts(_ context.Context, viewerID uint, friendIDs []uint, since *time.Time) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	friends := make(map[uint]bool, len(friendIDs))
	for _, id := range friendIDs {
		friends[id] = true
	}
	var result []models.Post
	for _, p := range r.posts {
		visible := p.Visibility == models.VisibilityPublic ||
			p.Visibility == models.VisibilityIncognito ||
			(p.Visibility == models.VisibilityFriends && friends[p.AuthorID]) ||
			p.AuthorID == viewerID
		if !visible {
			continue
		}
		if since != nil && !p.CreatedAt.After(*since) {
			continue
		}
		result = append(result, p)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *fakePostRepo) UpdatePost(_ context.Context, id string, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.posts {
		if p.ID.Hex() == id {
			r.posts[i].Content = post.Content
			r.posts[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *fakePostRepo) DeletePost(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.posts {
		if p.ID.Hex() == id {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *fakePostRepo) IncrementCommentsCount(_ context.Context, postID string) error {
	return r.bumpComments(postID, 1)
}

func (r *fakePostRepo) DecrementCommentsCount(_ context.Context, postID string) error {
	return r.bumpComments(postID, -1)
}

func (r *fakePostRepo) bumpComments(postID string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.posts {
		if p.ID.Hex() == postID {
			r.posts[i].CommentsCount += delta
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	nextID   uint
	comments map[uint]models.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[uint]models.Comment)}
}

func (r *fakeCommentRepo) CreateComment(_ context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	comment.ID = r.nextID
	comment.CreatedAt = time.Now()
	r.comments[comment.ID] = *comment
	return nil
}

func (r *fakeCommentRepo) GetCommentByID(_ context.Context, id uint) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *fakeCommentRepo) GetCommentsByPostID(_ context.Context, postID string) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeCommentRepo) UpdateComment(_ context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments[comment.ID] = *comment
	return nil
}

func (r *fakeCommentRepo) DeleteComment(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.comments, id)
	return nil
}

type fakeHiddenRepo struct {
	mu          sync.Mutex
	hiddenPosts map[uint]map[string]bool
	hiddenUsers map[uint]map[uint]bool
}

func newFakeHiddenRepo() *fakeHiddenRepo {
	return &fakeHiddenRepo{
		hiddenPosts: make(map[uint]map[string]bool),
		hiddenUsers: make(map[uint]map[uint]bool),
	}
}

func (r *fakeHiddenRepo) HidePost(_ context.Context, userID uint, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hiddenPosts[userID] == nil {
		r.hiddenPosts[userID] = make(map[string]bool)
	}
	r.hiddenPosts[userID][postID] = true
	return nil
}

func (r *fakeHiddenRepo) UnhidePost(_ context.Context, userID uint, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.hiddenPosts[userID][postID] {
		return gorm.ErrRecordNotFound
	}
	delete(r.hiddenPosts[userID], postID)
	return nil
}

func (r *fakeHiddenRepo) HideUser(_ context.Context, userID, hiddenUserID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hiddenUsers[userID] == nil {
		r.hiddenUsers[userID] = make(map[uint]bool)
	}
	r.hiddenUsers[userID][hiddenUserID] = true
	return nil
}

func (r *fakeHiddenRepo) UnhideUser(_ context.Context, userID, hiddenUserID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.hiddenUsers[userID][hiddenUserID] {
		return gorm.ErrRecordNotFound
	}
	delete(r.hiddenUsers[userID], hiddenUserID)
	return nil
}

func (r *fakeHiddenRepo) HiddenPostIDs(_ context.Context, userID uint) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make(map[string]bool, len(r.hiddenPosts[userID]))
	for id := range r.hiddenPosts[userID] {
		result[id] = true
	}
	return result, nil
}

func (r *fakeHiddenRepo) HiddenUserIDs(_ context.Context, userID uint) (map[uint]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make(map[uint]bool, len(r.hiddenUsers[userID]))
	for id := range r.hiddenUsers[userID] {
		result[id] = true
	}
	return result, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	order []uint
	users map[uint]models.User
}

func newFakeUserRepo(users ...models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uint]models.User)}
	for _, u := range users {
		r.users[u.ID] = u
		r.order = append(r.order, u.ID)
	}
	return r
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	r.order = append(r.order, user.ID)
	return nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUserByFirebaseUID(_ context.Context, uid string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.FirebaseUID == uid {
			u := u
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUsers(_ context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]models.User, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.users[id])
	}
	return result, nil
}

func (r *fakeUserRepo) GetUsersByIDs(_ context.Context, ids []uint) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			result = append(result, u)
		}
	}
	return result, nil
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) DeleteUser(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) SearchUsers(_ context.Context, query string) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.User
	for _, id := range r.order {
		u := r.users[id]
		if strings.Contains(strings.ToLower(u.Name), strings.ToLower(query)) ||
			strings.Contains(strings.ToLower(u.Email), strings.ToLower(query)) {
			result = append(result, u)
		}
	}
	return result, nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	nextID        uint
	notifications []models.Notification
	byEventID     map[string]bool
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{byEventID: make(map[string]bool)}
}

func (r *fakeNotificationRepo) CreateIfAbsent(_ context.Context, n *models.Notification) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byEventID[n.EventID] {
		return false, nil
	}
	r.nextID++
	n.ID = r.nextID
	r.byEventID[n.EventID] = true
	r.notifications = append(r.notifications, *n)
	return true, nil
}

func (r *fakeNotificationRepo) GetByID(_ context.Context, id uint) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == id {
			n := n
			return &n, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeNotificationRepo) GetByReceiverID(_ context.Context, receiverID uint, page, limit int) ([]models.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Notification
	for _, n := range r.notifications {
		if n.ReceiverID == receiverID {
			result = append(result, n)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeNotificationRepo) GetUnreadCount(_ context.Context, receiverID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.ReceiverID == receiverID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(_ context.Context, notificationID, receiverID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.notifications {
		if n.ID == notificationID && n.ReceiverID == receiverID {
			r.notifications[i].IsRead = true
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(_ context.Context, receiverID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.notifications {
		if n.ReceiverID == receiverID {
			r.notifications[i].IsRead = true
		}
	}
	return nil
}
