package repositories

import (
	"context"

	"github.com/unilink/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionRepository defines the interface for reaction record operations
type ReactionRepository interface {
	Toggle(ctx context.Context, userID uint, targetType models.ReactionTarget, targetID, kind string) (models.ReactionResult, error)
	Get(ctx context.Context, userID uint, targetType models.ReactionTarget, targetID string) (*models.ReactionRecord, error)
	Summary(ctx context.Context, targetType models.ReactionTarget, targetID string) (models.ReactionSummary, error)
}

// PostgresReactionRepository implements ReactionRepository for PostgreSQL
type PostgresReactionRepository struct {
	db *gorm.DB
}

// NewPostgresReactionRepository creates a new PostgresReactionRepository
func NewPostgresReactionRepository(db *gorm.DB) *PostgresReactionRepository {
	return &PostgresReactionRepository{db: db}
}

// Toggle applies toggle semantics for a single (user, target) key inside a
// transaction. The existing row is locked so two racing toggles by the same
// user serialize; the unique index backstops the no-row path.
//   - no record:        insert, result {Type: kind}
//   - same kind:        delete, result {Removed: true}
//   - different kind:   update in place, result {Type: kind}
func (r *PostgresReactionRepository) Toggle(ctx context.Context, userID uint, targetType models.ReactionTarget, targetID, kind string) (models.ReactionResult, error) {
	var result models.ReactionResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec models.ReactionRecord
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
			First(&rec).Error
		if err == gorm.ErrRecordNotFound {
			rec = models.ReactionRecord{
				UserID:     userID,
				TargetType: targetType,
				TargetID:   targetID,
				Type:       kind,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
			result = models.ReactionResult{Type: kind}
			return nil
		}
		if err != nil {
			return err
		}
		if rec.Type == kind {
			if err := tx.Delete(&models.ReactionRecord{}, rec.ID).Error; err != nil {
				return err
			}
			result = models.ReactionResult{Removed: true}
			return nil
		}
		// Single update, not delete+insert, so aggregate counts never dip
		if err := tx.Model(&models.ReactionRecord{}).Where("id = ?", rec.ID).Update("type", kind).Error; err != nil {
			return err
		}
		result = models.ReactionResult{Type: kind}
		return nil
	})
	return result, err
}

func (r *PostgresReactionRepository) Get(ctx context.Context, userID uint, targetType models.ReactionTarget, targetID string) (*models.ReactionRecord, error) {
	var rec models.ReactionRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// Summary derives the aggregate from live records; there is no cached
// counter that can drift.
func (r *PostgresReactionRepository) Summary(ctx context.Context, targetType models.ReactionTarget, targetID string) (models.ReactionSummary, error) {
	type row struct {
		Type  string
		Count int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&models.ReactionRecord{}).
		Select("type, COUNT(*) as count").
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return models.ReactionSummary{}, err
	}
	summary := models.ReactionSummary{ByType: make(map[string]int64, len(rows))}
	for _, r := range rows {
		summary.ByType[r.Type] = r.Count
		summary.Count += r.Count
	}
	return summary, nil
}
