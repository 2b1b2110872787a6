package repository

import (
	"context"
	"errors"

	"github.com/mbeoliero/concord/internal/entity"
	"github.com/mbeoliero/concord/pkg/constant"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// UserRepo handles user and friendship data access
type UserRepo struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *gorm.DB, rdb *redis.Client) *UserRepo {
	return &UserRepo{db: db, rdb: rdb}
}

// Create inserts a new user
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetById gets user by id, returns nil if not found
func (r *UserRepo) GetById(ctx context.Context, userId int64) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Where("id = ?", userId).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByIds gets users by ids
func (r *UserRepo) GetByIds(ctx context.Context, userIds []int64) ([]*entity.User, error) {
	var users []*entity.User
	err := r.db.WithContext(ctx).Where("id IN ?", userIds).Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// GetByEmail gets user by email, returns nil if not found
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername gets user by username and discriminator, returns nil if not found
func (r *UserRepo) GetByUsername(ctx context.Context, username, discriminator string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Where("username = ? AND discriminator = ?", username, discriminator).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// CountByUsername counts users sharing a username, used for discriminator assignment
func (r *UserRepo) CountByUsername(ctx context.Context, username string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("username = ?", username).Count(&count).Error
	return count, err
}

// DiscriminatorTaken reports whether a username+discriminator pair exists
func (r *UserRepo) DiscriminatorTaken(ctx context.Context, username, discriminator string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("username = ? AND discriminator = ?", username, discriminator).
		Count(&count).Error
	return count > 0, err
}

// UpdateProfile updates mutable profile fields
func (r *UserRepo) UpdateProfile(ctx context.Context, userId int64, updates map[string]interface{}) error {
	updates["updated_at"] = entity.NowUnixMilli()
	return r.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", userId).Updates(updates).Error
}

// SetManualStatus stores the user's chosen status
func (r *UserRepo) SetManualStatus(ctx context.Context, userId int64, status string) error {
	return r.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", userId).
		Updates(map[string]interface{}{
			"manual_status": status,
			"updated_at":    entity.NowUnixMilli(),
		}).Error
}

// CreateFriendship inserts a friend request
func (r *UserRepo) CreateFriendship(ctx context.Context, f *entity.Friendship) error {
	return r.db.WithContext(ctx).Create(f).Error
}

// GetFriendship gets the friendship row between two users in either direction
func (r *UserRepo) GetFriendship(ctx context.Context, userA, userB int64) (*entity.Friendship, error) {
	var f entity.Friendship
	err := r.db.WithContext(ctx).
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)",
			userA, userB, userB, userA).
		First(&f).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

// GetFriendshipById gets a friendship by primary key
func (r *UserRepo) GetFriendshipById(ctx context.Context, id int64) (*entity.Friendship, error) {
	var f entity.Friendship
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&f).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

// UpdateFriendshipStatus transitions a friend request
func (r *UserRepo) UpdateFriendshipStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).Model(&entity.Friendship{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": entity.NowUnixMilli(),
		}).Error
}

// DeleteFriendship removes a friendship row
func (r *UserRepo) DeleteFriendship(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&entity.Friendship{}, id).Error
}

// FriendIds returns ids of all accepted friends of a user
func (r *UserRepo) FriendIds(ctx context.Context, userId int64) ([]int64, error) {
	var friendships []*entity.Friendship
	err := r.db.WithContext(ctx).
		Where("(from_user_id = ? OR to_user_id = ?) AND status = ?",
			userId, userId, constant.FriendshipAccepted).
		Find(&friendships).Error
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(friendships))
	for _, f := range friendships {
		if f.FromUserId == userId {
			ids = append(ids, f.ToUserId)
		} else {
			ids = append(ids, f.FromUserId)
		}
	}
	return ids, nil
}

// ListPendingRequests lists friend requests awaiting the user's answer
func (r *UserRepo) ListPendingRequests(ctx context.Context, userId int64) ([]*entity.Friendship, error) {
	var friendships []*entity.Friendship
	err := r.db.WithContext(ctx).
		Where("to_user_id = ? AND status = ?", userId, constant.FriendshipPending).
		Find(&friendships).Error
	if err != nil {
		return nil, err
	}
	return friendships, nil
}
