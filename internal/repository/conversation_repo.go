package repository

import (
	"context"
	"errors"

	"github.com/mbeoliero/concord/internal/entity"
	"github.com/mbeoliero/concord/pkg/constant"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ConversationRepo handles conversation and participant data access
type ConversationRepo struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewConversationRepo creates a new conversation repository
func NewConversationRepo(db *gorm.DB, rdb *redis.Client) *ConversationRepo {
	return &ConversationRepo{db: db, rdb: rdb}
}

// Create inserts a conversation, usable inside a transaction
func (r *ConversationRepo) Create(ctx context.Context, tx *gorm.DB, conv *entity.Conversation) error {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}
	return tx.Create(conv).Error
}

// GetById gets a conversation by id, returns nil if not found
func (r *ConversationRepo) GetById(ctx context.Context, convId int64) (*entity.Conversation, error) {
	var conv entity.Conversation
	err := r.db.WithContext(ctx).Where("id = ?", convId).First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

// GetPrivateBetween finds the existing private conversation between two users
func (r *ConversationRepo) GetPrivateBetween(ctx context.Context, userA, userB int64) (*entity.Conversation, error) {
	var conv entity.Conversation
	err := r.db.WithContext(ctx).
		Joins("JOIN participants p1 ON p1.conversation_id = conversations.id AND p1.user_id = ?", userA).
		Joins("JOIN participants p2 ON p2.conversation_id = conversations.id AND p2.user_id = ?", userB).
		Where("conversations.kind = ?", constant.ConvKindPrivate).
		First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

// GetFavorite finds the user's favorite (self) conversation
func (r *ConversationRepo) GetFavorite(ctx context.Context, userId int64) (*entity.Conversation, error) {
	var conv entity.Conversation
	err := r.db.WithContext(ctx).
		Joins("JOIN participants p ON p.conversation_id = conversations.id AND p.user_id = ?", userId).
		Where("conversations.kind = ?", constant.ConvKindFavorite).
		First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

// UpdateLastMessage records the latest message on the conversation
func (r *ConversationRepo) UpdateLastMessage(ctx context.Context, tx *gorm.DB, convId, messageId int64) error {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}
	return tx.Model(&entity.Conversation{}).
		Where("id = ?", convId).
		Updates(map[string]interface{}{
			"last_message_id": messageId,
			"updated_at":      entity.NowUnixMilli(),
		}).Error
}

// UpdateName renames a group conversation
func (r *ConversationRepo) UpdateName(ctx context.Context, convId int64, name string) error {
	return r.db.WithContext(ctx).Model(&entity.Conversation{}).
		Where("id = ?", convId).
		Updates(map[string]interface{}{
			"name":       name,
			"updated_at": entity.NowUnixMilli(),
		}).Error
}

// AddParticipant inserts a participant row, reviving a soft-deleted one if present
func (r *ConversationRepo) AddParticipant(ctx context.Context, tx *gorm.DB, p *entity.Participant) error {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}

	var existing entity.Participant
	err := tx.Where("user_id = ? AND conversation_id = ?", p.UserId, p.ConversationId).
		First(&existing).Error
	if err == nil {
		return tx.Model(&entity.Participant{}).
			Where("id = ?", existing.Id).
			Updates(map[string]interface{}{
				"is_deleted": false,
				"updated_at": entity.NowUnixMilli(),
			}).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return tx.Create(p).Error
}

// GetParticipant gets the participant row, returns nil if not found
func (r *ConversationRepo) GetParticipant(ctx context.Context, userId, convId int64) (*entity.Participant, error) {
	var p entity.Participant
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND conversation_id = ?", userId, convId).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// IsParticipant reports whether the user is an active member of the conversation
func (r *ConversationRepo) IsParticipant(ctx context.Context, userId, convId int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Participant{}).
		Where("user_id = ? AND conversation_id = ? AND is_deleted = ?", userId, convId, false).
		Count(&count).Error
	return count > 0, err
}

// IsAdmin reports whether the user is an admin of the conversation
func (r *ConversationRepo) IsAdmin(ctx context.Context, userId, convId int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Participant{}).
		Where("user_id = ? AND conversation_id = ? AND is_admin = ? AND is_deleted = ?",
			userId, convId, true, false).
		Count(&count).Error
	return count > 0, err
}

// ListParticipants lists active participants of a conversation
func (r *ConversationRepo) ListParticipants(ctx context.Context, convId int64) ([]*entity.Participant, error) {
	var parts []*entity.Participant
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND is_deleted = ?", convId, false).
		Find(&parts).Error
	if err != nil {
		return nil, err
	}
	return parts, nil
}

// ParticipantIds lists active participant user ids of a conversation
func (r *ConversationRepo) ParticipantIds(ctx context.Context, convId int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&entity.Participant{}).
		Where("conversation_id = ? AND is_deleted = ?", convId, false).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ListUserConversations lists all active conversations of a user
func (r *ConversationRepo) ListUserConversations(ctx context.Context, userId int64) ([]*entity.Conversation, []*entity.Participant, error) {
	var parts []*entity.Participant
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = ?", userId, false).
		Find(&parts).Error
	if err != nil {
		return nil, nil, err
	}
	if len(parts) == 0 {
		return nil, nil, nil
	}

	convIds := make([]int64, 0, len(parts))
	for _, p := range parts {
		convIds = append(convIds, p.ConversationId)
	}

	var convs []*entity.Conversation
	err = r.db.WithContext(ctx).
		Where("id IN ?", convIds).
		Order("updated_at DESC").
		Find(&convs).Error
	if err != nil {
		return nil, nil, err
	}
	return convs, parts, nil
}

// SetPinned toggles the user's chat-list pin on a conversation
func (r *ConversationRepo) SetPinned(ctx context.Context, userId, convId int64, pinned bool) error {
	return r.db.WithContext(ctx).Model(&entity.Participant{}).
		Where("user_id = ? AND conversation_id = ?", userId, convId).
		Updates(map[string]interface{}{
			"is_pinned":  pinned,
			"updated_at": entity.NowUnixMilli(),
		}).Error
}

// UpdateLastRead moves the user's read marker forward
func (r *ConversationRepo) UpdateLastRead(ctx context.Context, userId, convId, messageId int64) error {
	return r.db.WithContext(ctx).Model(&entity.Participant{}).
		Where("user_id = ? AND conversation_id = ?", userId, convId).
		Updates(map[string]interface{}{
			"last_read":  messageId,
			"updated_at": entity.NowUnixMilli(),
		}).Error
}

// SetAdmin grants or revokes conversation admin
func (r *ConversationRepo) SetAdmin(ctx context.Context, userId, convId int64, isAdmin bool) error {
	return r.db.WithContext(ctx).Model(&entity.Participant{}).
		Where("user_id = ? AND conversation_id = ?", userId, convId).
		Updates(map[string]interface{}{
			"is_admin":   isAdmin,
			"updated_at": entity.NowUnixMilli(),
		}).Error
}

// RemoveParticipant soft-deletes the participant row
func (r *ConversationRepo) RemoveParticipant(ctx context.Context, userId, convId int64) error {
	return r.db.WithContext(ctx).Model(&entity.Participant{}).
		Where("user_id = ? AND conversation_id = ?", userId, convId).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"updated_at": entity.NowUnixMilli(),
		}).Error
}
