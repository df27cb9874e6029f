package repositories

import (
	"context"

	"github.com/unilink/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HiddenRepository defines the interface for viewer-scoped suppression sets.
// Hiding is idempotent; unhiding a record that does not exist returns
// gorm.ErrRecordNotFound so callers can distinguish a no-op from a store
// failure.
type HiddenRepository interface {
	HidePost(ctx context.Context, userID uint, postID string) error
	UnhidePost(ctx context.Context, userID uint, postID string) error
	HideUser(ctx context.Context, userID, hiddenUserID uint) error
	UnhideUser(ctx context.Context, userID, hiddenUserID uint) error
	HiddenPostIDs(ctx context.Context, userID uint) (map[string]bool, error)
	HiddenUserIDs(ctx context.Context, userID uint) (map[uint]bool, error)
}

// PostgresHiddenRepository implements HiddenRepository
type PostgresHiddenRepository struct {
	db *gorm.DB
}

func NewPostgresHiddenRepository(db *gorm.DB) *PostgresHiddenRepository {
	return &PostgresHiddenRepository{db: db}
}

func (r *PostgresHiddenRepository) HidePost(ctx context.Context, userID uint, postID string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.HiddenPost{UserID: userID, PostID: postID}).Error
}

func (r *PostgresHiddenRepository) UnhidePost(ctx context.Context, userID uint, postID string) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.HiddenPost{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PostgresHiddenRepository) HideUser(ctx context.Context, userID, hiddenUserID uint) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.HiddenUser{UserID: userID, HiddenUserID: hiddenUserID}).Error
}

func (r *PostgresHiddenRepository) UnhideUser(ctx context.Context, userID, hiddenUserID uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND hidden_user_id = ?", userID, hiddenUserID).Delete(&models.HiddenUser{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PostgresHiddenRepository) HiddenPostIDs(ctx context.Context, userID uint) (map[string]bool, error) {
	var hidden []models.HiddenPost
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&hidden).Error; err != nil {
		return nil, err
	}
	result := make(map[string]bool, len(hidden))
	for _, h := range hidden {
		result[h.PostID] = true
	}
	return result, nil
}

func (r *PostgresHiddenRepository) HiddenUserIDs(ctx context.Context, userID uint) (map[uint]bool, error) {
	var hidden []models.HiddenUser
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&hidden).Error; err != nil {
		return nil, err
	}
	result := make(map[uint]bool, len(hidden))
	for _, h := range hidden {
		result[h.HiddenUserID] = true
	}
	return result, nil
}
