package repository

import (
	"context"
	"errors"

	"github.com/mbeoliero/concord/internal/entity"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PinRepo handles the per-conversation pinned message
type PinRepo struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewPinRepo creates a new pin repository
func NewPinRepo(db *gorm.DB, rdb *redis.Client) *PinRepo {
	return &PinRepo{db: db, rdb: rdb}
}

// Get gets the pinned message of a conversation, returns nil if none
func (r *PinRepo) Get(ctx context.Context, convId int64) (*entity.PinnedMessage, error) {
	var pin entity.PinnedMessage
	err := r.db.WithContext(ctx).Where("conversation_id = ?", convId).First(&pin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pin, nil
}

// Set pins a message, overwriting any previous pin of the conversation
func (r *PinRepo) Set(ctx context.Context, pin *entity.PinnedMessage) error {
	pin.PinnedAt = entity.NowUnixMilli()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "conversation_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"message_id", "pinned_by", "pinned_at",
		}),
	}).Create(pin).Error
}

// Clear removes the pinned message of a conversation, no-op if none
func (r *PinRepo) Clear(ctx context.Context, convId int64) error {
	return r.db.WithContext(ctx).
		Where("conversation_id = ?", convId).
		Delete(&entity.PinnedMessage{}).Error
}
