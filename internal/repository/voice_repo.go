package repository

import (
	"context"
	"errors"

	"github.com/mbeoliero/concord/internal/entity"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoiceRepo handles voice room data access
type VoiceRepo struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewVoiceRepo creates a new voice repository
func NewVoiceRepo(db *gorm.DB, rdb *redis.Client) *VoiceRepo {
	return &VoiceRepo{db: db, rdb: rdb}
}

// GetById gets a voice room by id, returns nil if not found
func (r *VoiceRepo) GetById(ctx context.Context, roomId int64) (*entity.VoiceRoom, error) {
	var room entity.VoiceRoom
	err := r.db.WithContext(ctx).Where("id = ?", roomId).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

// GetByConversation gets the voice room backing a conversation, returns nil if none
func (r *VoiceRepo) GetByConversation(ctx context.Context, convId int64) (*entity.VoiceRoom, error) {
	var room entity.VoiceRoom
	err := r.db.WithContext(ctx).Where("conversation_id = ?", convId).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

// EnsureRoom gets the voice room for a conversation, creating it on first use.
// The unique index on conversation_id keeps concurrent creates from racing.
func (r *VoiceRepo) EnsureRoom(ctx context.Context, convId int64) (*entity.VoiceRoom, error) {
	room := &entity.VoiceRoom{ConversationId: convId}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "conversation_id"}},
		DoNothing: true,
	}).Create(room).Error
	if err != nil {
		return nil, err
	}
	return r.GetByConversation(ctx, convId)
}

// AddMember inserts a membership row, idempotent for repeated joins
func (r *VoiceRepo) AddMember(ctx context.Context, tx *gorm.DB, roomId, userId int64) error {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "voice_room_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&entity.VoiceRoomMember{
		VoiceRoomId: roomId,
		UserId:      userId,
	}).Error
}

// RemoveMember deletes a membership row, no-op if absent
func (r *VoiceRepo) RemoveMember(ctx context.Context, tx *gorm.DB, roomId, userId int64) error {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}
	return tx.Where("voice_room_id = ? AND user_id = ?", roomId, userId).
		Delete(&entity.VoiceRoomMember{}).Error
}

// IsMember reports whether the user has joined the voice room
func (r *VoiceRepo) IsMember(ctx context.Context, roomId, userId int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.VoiceRoomMember{}).
		Where("voice_room_id = ? AND user_id = ?", roomId, userId).
		Count(&count).Error
	return count > 0, err
}

// MemberCount counts current members of the voice room
func (r *VoiceRepo) MemberCount(ctx context.Context, tx *gorm.DB, roomId int64) (int64, error) {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}
	var count int64
	err := tx.Model(&entity.VoiceRoomMember{}).
		Where("voice_room_id = ?", roomId).
		Count(&count).Error
	return count, err
}

// MemberIds lists user ids currently in the voice room
func (r *VoiceRepo) MemberIds(ctx context.Context, roomId int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&entity.VoiceRoomMember{}).
		Where("voice_room_id = ?", roomId).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// SetActive flips the room's activity flag
func (r *VoiceRepo) SetActive(ctx context.Context, tx *gorm.DB, roomId int64, active bool) error {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}
	return tx.Model(&entity.VoiceRoom{}).
		Where("id = ?", roomId).
		Updates(map[string]interface{}{
			"is_active":  active,
			"updated_at": entity.NowUnixMilli(),
		}).Error
}
