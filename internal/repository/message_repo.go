package repository

import (
	"context"
	"errors"

	"github.com/mbeoliero/concord/internal/entity"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// MessageRepo handles message data access
type MessageRepo struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewMessageRepo creates a new message repository
func NewMessageRepo(db *gorm.DB, rdb *redis.Client) *MessageRepo {
	return &MessageRepo{db: db, rdb: rdb}
}

// Create inserts a message, usable inside a transaction
func (r *MessageRepo) Create(ctx context.Context, tx *gorm.DB, msg *entity.Message) error {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}
	return tx.Create(msg).Error
}

// GetById gets a message by id, returns nil if not found
func (r *MessageRepo) GetById(ctx context.Context, messageId int64) (*entity.Message, error) {
	var msg entity.Message
	err := r.db.WithContext(ctx).Where("id = ?", messageId).First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

// ListByConversation pages messages of a conversation, newest first.
// beforeMilli of 0 means from the latest.
func (r *MessageRepo) ListByConversation(ctx context.Context, convId int64, beforeMilli int64, limit int) ([]*entity.Message, error) {
	query := r.db.WithContext(ctx).Where("conversation_id = ?", convId)
	if beforeMilli > 0 {
		query = query.Where("created_at < ?", beforeMilli)
	}

	var msgs []*entity.Message
	err := query.Order("created_at DESC").Limit(limit).Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// Edit replaces message content and stamps edited_at
func (r *MessageRepo) Edit(ctx context.Context, messageId int64, content string, editedAt int64) error {
	return r.db.WithContext(ctx).Model(&entity.Message{}).
		Where("id = ?", messageId).
		Updates(map[string]interface{}{
			"content":   content,
			"edited_at": editedAt,
		}).Error
}

// SoftDelete tombstones a message, keeping the row
func (r *MessageRepo) SoftDelete(ctx context.Context, messageId int64) error {
	return r.db.WithContext(ctx).Model(&entity.Message{}).
		Where("id = ?", messageId).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"content":    "",
		}).Error
}

// MarkRead marks messages from other senders as read up to a point in time
func (r *MessageRepo) MarkRead(ctx context.Context, convId, readerId int64, untilMilli int64) error {
	return r.db.WithContext(ctx).Model(&entity.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND created_at <= ? AND is_read = ?",
			convId, readerId, untilMilli, false).
		UpdateColumn("is_read", true).Error
}

// CountUnread counts messages newer than the given marker from other senders
func (r *MessageRepo) CountUnread(ctx context.Context, convId, userId int64, lastRead *int64) (int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Message{}).
		Where("conversation_id = ? AND is_deleted = ?", convId, false).
		Where("sender_id IS NULL OR sender_id <> ?", userId)
	if lastRead != nil {
		query = query.Where("id > ?", *lastRead)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

// GetSticker gets a sticker by id, returns nil if not found
func (r *MessageRepo) GetSticker(ctx context.Context, stickerId int64) (*entity.Sticker, error) {
	var sticker entity.Sticker
	err := r.db.WithContext(ctx).Where("id = ?", stickerId).First(&sticker).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sticker, nil
}

// ListStickers lists global stickers plus the user's own
func (r *MessageRepo) ListStickers(ctx context.Context, userId int64) ([]*entity.Sticker, error) {
	var stickers []*entity.Sticker
	err := r.db.WithContext(ctx).
		Where("owner_id IS NULL OR owner_id = ?", userId).
		Find(&stickers).Error
	if err != nil {
		return nil, err
	}
	return stickers, nil
}
