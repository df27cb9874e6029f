package repositories

import (
	"context"

	"github.com/unilink/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateIfAbsent(ctx context.Context, notification *models.Notification) (bool, error)
	GetByID(ctx context.Context, id uint) (*models.Notification, error)
	GetByReceiverID(ctx context.Context, receiverID uint, page, limit int) ([]models.Notification, int64, error)
	GetUnreadCount(ctx context.Context, receiverID uint) (int64, error)
	MarkAsRead(ctx context.Context, notificationID, receiverID uint) (int64, error)
	MarkAllAsRead(ctx context.Context, receiverID uint) error
}

// PostgresNotificationRepository implements NotificationRepository
type PostgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

// CreateIfAbsent inserts the notification unless one with the same event_id
// already exists. Returns true on insert; false means the event was already
// delivered and side effects must not fire again.
func (r *PostgresNotificationRepository) CreateIfAbsent(ctx context.Context, notification *models.Notification) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "event_id"}}, DoNothing: true}).
		Create(notification)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresNotificationRepository) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *PostgresNotificationRepository) GetByReceiverID(ctx context.Context, receiverID uint, page, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("receiver_id = ?", receiverID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).Where("receiver_id = ?", receiverID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error

	return notifications, total, err
}

func (r *PostgresNotificationRepository) GetUnreadCount(ctx context.Context, receiverID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("receiver_id = ? AND is_read = false", receiverID).Count(&count).Error
	return count, err
}

// MarkAsRead flips the read flag; the receiver_id predicate keeps a sender
// from marking someone else's notification. Returns affected rows.
func (r *PostgresNotificationRepository) MarkAsRead(ctx context.Context, notificationID, receiverID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND receiver_id = ?", notificationID, receiverID).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *PostgresNotificationRepository) MarkAllAsRead(ctx context.Context, receiverID uint) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("receiver_id = ? AND is_read = false", receiverID).
		Update("is_read", true).Error
}
