package repository

import (
	"context"
	"errors"

	"github.com/mbeoliero/concord/internal/entity"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ServerRepo handles server, member and channel data access
type ServerRepo struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewServerRepo creates a new server repository
func NewServerRepo(db *gorm.DB, rdb *redis.Client) *ServerRepo {
	return &ServerRepo{db: db, rdb: rdb}
}

// Create inserts a server, usable inside a transaction
func (r *ServerRepo) Create(ctx context.Context, tx *gorm.DB, srv *entity.Server) error {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}
	return tx.Create(srv).Error
}

// GetById gets a server by id, returns nil if not found
func (r *ServerRepo) GetById(ctx context.Context, serverId int64) (*entity.Server, error) {
	var srv entity.Server
	err := r.db.WithContext(ctx).Where("id = ?", serverId).First(&srv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &srv, nil
}

// AddMember inserts a server membership row
func (r *ServerRepo) AddMember(ctx context.Context, tx *gorm.DB, m *entity.ServerMember) error {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}
	return tx.Create(m).Error
}

// IsMember reports whether the user belongs to the server
func (r *ServerRepo) IsMember(ctx context.Context, serverId, userId int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.ServerMember{}).
		Where("server_id = ? AND user_id = ?", serverId, userId).
		Count(&count).Error
	return count > 0, err
}

// ListUserServers lists servers the user belongs to
func (r *ServerRepo) ListUserServers(ctx context.Context, userId int64) ([]*entity.Server, error) {
	var serverIds []int64
	err := r.db.WithContext(ctx).Model(&entity.ServerMember{}).
		Where("user_id = ?", userId).
		Pluck("server_id", &serverIds).Error
	if err != nil {
		return nil, err
	}
	if len(serverIds) == 0 {
		return nil, nil
	}

	var servers []*entity.Server
	err = r.db.WithContext(ctx).Where("id IN ?", serverIds).Find(&servers).Error
	if err != nil {
		return nil, err
	}
	return servers, nil
}

// CreateChannel inserts a channel, usable inside a transaction
func (r *ServerRepo) CreateChannel(ctx context.Context, tx *gorm.DB, ch *entity.Channel) error {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}
	return tx.Create(ch).Error
}

// GetChannel gets a channel by id, returns nil if not found
func (r *ServerRepo) GetChannel(ctx context.Context, channelId int64) (*entity.Channel, error) {
	var ch entity.Channel
	err := r.db.WithContext(ctx).Where("id = ?", channelId).First(&ch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ch, nil
}

// ListChannels lists channels of a server ordered by position
func (r *ServerRepo) ListChannels(ctx context.Context, serverId int64) ([]*entity.Channel, error) {
	var channels []*entity.Channel
	err := r.db.WithContext(ctx).
		Where("server_id = ?", serverId).
		Order("position ASC").
		Find(&channels).Error
	if err != nil {
		return nil, err
	}
	return channels, nil
}
