package repository

import (
	"context"
	"errors"

	"github.com/mbeoliero/concord/internal/entity"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// InviteRepo handles invite link data access
type InviteRepo struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewInviteRepo creates a new invite repository
func NewInviteRepo(db *gorm.DB, rdb *redis.Client) *InviteRepo {
	return &InviteRepo{db: db, rdb: rdb}
}

// Create inserts an invite
func (r *InviteRepo) Create(ctx context.Context, invite *entity.Invite) error {
	return r.db.WithContext(ctx).Create(invite).Error
}

// GetByToken gets an invite by its token, returns nil if not found
func (r *InviteRepo) GetByToken(ctx context.Context, token string) (*entity.Invite, error) {
	var invite entity.Invite
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&invite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invite, nil
}

// ConsumeUse increments the use counter if the invite still has capacity.
// The guard lives in the WHERE clause so concurrent redemptions cannot
// push uses past max_uses. Returns false when the invite is exhausted.
func (r *InviteRepo) ConsumeUse(ctx context.Context, tx *gorm.DB, inviteId int64) (bool, error) {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}
	res := tx.Model(&entity.Invite{}).
		Where("id = ? AND (max_uses = 0 OR uses < max_uses)", inviteId).
		UpdateColumn("uses", gorm.Expr("uses + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListByConversation lists invites of a conversation
func (r *InviteRepo) ListByConversation(ctx context.Context, convId int64) ([]*entity.Invite, error) {
	var invites []*entity.Invite
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", convId).
		Order("created_at DESC").
		Find(&invites).Error
	if err != nil {
		return nil, err
	}
	return invites, nil
}

// Delete revokes an invite
func (r *InviteRepo) Delete(ctx context.Context, inviteId int64) error {
	return r.db.WithContext(ctx).Delete(&entity.Invite{}, inviteId).Error
}
