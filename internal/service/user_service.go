package service

import (
	"context"
	"fmt"

	"github.com/mbeoliero/concord/internal/entity"
	"github.com/mbeoliero/concord/internal/repository"
	"github.com/mbeoliero/concord/pkg/constant"
	"github.com/mbeoliero/concord/pkg/errcode"
	"github.com/mbeoliero/kit/log"
	"github.com/redis/go-redis/v9"
)

// UserService handles user profile, presence and friendship logic
type UserService struct {
	userRepo *repository.UserRepo
	rdb      *redis.Client
}

// NewUserService creates a new UserService
func NewUserService(userRepo *repository.UserRepo, rdb *redis.Client) *UserService {
	return &UserService{userRepo: userRepo, rdb: rdb}
}

// GetUser gets a user by id
func (s *UserService) GetUser(ctx context.Context, userId int64) (*entity.User, error) {
	user, err := s.userRepo.GetById(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "get user failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if user == nil {
		return nil, errcode.ErrUserNotFound
	}
	return user, nil
}

// GetUserBrief resolves the compact sender view used in pushes
func (s *UserService) GetUserBrief(ctx context.Context, userId int64) (*entity.UserBrief, error) {
	user, err := s.GetUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	return user.Brief(), nil
}

// UpdateProfileRequest represents a profile update
type UpdateProfileRequest struct {
	Avatar *string `json:"avatar,omitempty"`
	Bio    *string `json:"bio,omitempty"`
}

// UpdateProfile updates the user's mutable profile fields
func (s *UserService) UpdateProfile(ctx context.Context, userId int64, req *UpdateProfileRequest) (*entity.User, error) {
	updates := map[string]interface{}{}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if len(updates) > 0 {
		if err := s.userRepo.UpdateProfile(ctx, userId, updates); err != nil {
			log.CtxError(ctx, "update profile failed: %v", err)
			return nil, errcode.ErrInternalServer
		}
	}
	return s.GetUser(ctx, userId)
}

// SetManualStatus stores the user's chosen presence status
func (s *UserService) SetManualStatus(ctx context.Context, userId int64, status string) error {
	switch status {
	case constant.StatusOnline, constant.StatusIdle, constant.StatusOffline, constant.StatusInvisible:
	default:
		return errcode.ErrInvalidParam
	}
	if err := s.userRepo.SetManualStatus(ctx, userId, status); err != nil {
		log.CtxError(ctx, "set manual status failed: %v", err)
		return errcode.ErrInternalServer
	}
	return nil
}

// EffectiveStatus resolves the status other users see: manual status when
// connected, offline otherwise. Invisible always reads as offline.
func (s *UserService) EffectiveStatus(ctx context.Context, user *entity.User) string {
	if user.IsInvisible() {
		return constant.StatusOffline
	}
	key := fmt.Sprintf(constant.RedisKeyOnline(), user.Id)
	exists, err := s.rdb.Exists(ctx, key).Result()
	if err != nil {
		log.CtxWarn(ctx, "check online key failed: user_id=%d err=%v", user.Id, err)
		return constant.StatusOffline
	}
	if exists == 0 {
		return constant.StatusOffline
	}
	if user.ManualStatus == "" {
		return constant.StatusOnline
	}
	return user.ManualStatus
}

// FriendIds lists ids of accepted friends
func (s *UserService) FriendIds(ctx context.Context, userId int64) ([]int64, error) {
	ids, err := s.userRepo.FriendIds(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "list friend ids failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	return ids, nil
}

// FriendInfo is a friend entry with presence attached
type FriendInfo struct {
	User   *entity.UserBrief `json:"user"`
	Status string            `json:"status"`
}

// ListFriends lists accepted friends with their effective status
func (s *UserService) ListFriends(ctx context.Context, userId int64) ([]*FriendInfo, error) {
	ids, err := s.FriendIds(ctx, userId)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*FriendInfo{}, nil
	}

	users, err := s.userRepo.GetByIds(ctx, ids)
	if err != nil {
		log.CtxError(ctx, "get friends failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	friends := make([]*FriendInfo, 0, len(users))
	for _, u := range users {
		friends = append(friends, &FriendInfo{
			User:   u.Brief(),
			Status: s.EffectiveStatus(ctx, u),
		})
	}
	return friends, nil
}

// SendFriendRequest creates a pending friendship toward username#discriminator
func (s *UserService) SendFriendRequest(ctx context.Context, fromUserId int64, username, discriminator string) (*entity.Friendship, error) {
	target, err := s.userRepo.GetByUsername(ctx, username, discriminator)
	if err != nil {
		log.CtxError(ctx, "find friend target failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if target == nil {
		return nil, errcode.ErrUserNotFound
	}
	if target.Id == fromUserId {
		return nil, errcode.ErrSelfFriendRequest
	}

	existing, err := s.userRepo.GetFriendship(ctx, fromUserId, target.Id)
	if err != nil {
		log.CtxError(ctx, "check friendship failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if existing != nil && existing.Status != constant.FriendshipRejected {
		return nil, errcode.ErrFriendRequestExists
	}
	if existing != nil {
		// A rejected pair can try again
		if err := s.userRepo.DeleteFriendship(ctx, existing.Id); err != nil {
			log.CtxError(ctx, "reset rejected friendship failed: %v", err)
			return nil, errcode.ErrInternalServer
		}
	}

	f := &entity.Friendship{
		FromUserId: fromUserId,
		ToUserId:   target.Id,
		Status:     constant.FriendshipPending,
	}
	if err := s.userRepo.CreateFriendship(ctx, f); err != nil {
		log.CtxError(ctx, "create friendship failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	log.CtxInfo(ctx, "friend request sent: from=%d to=%d", fromUserId, target.Id)
	return f, nil
}

// RespondFriendRequest accepts or rejects a pending request addressed to userId
func (s *UserService) RespondFriendRequest(ctx context.Context, userId, friendshipId int64, accept bool) (*entity.Friendship, error) {
	f, err := s.userRepo.GetFriendshipById(ctx, friendshipId)
	if err != nil {
		log.CtxError(ctx, "get friendship failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if f == nil {
		return nil, errcode.ErrNotFound
	}
	if f.ToUserId != userId || f.Status != constant.FriendshipPending {
		return nil, errcode.ErrNoPermission
	}

	status := constant.FriendshipRejected
	if accept {
		status = constant.FriendshipAccepted
	}
	if err := s.userRepo.UpdateFriendshipStatus(ctx, f.Id, status); err != nil {
		log.CtxError(ctx, "update friendship failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	f.Status = status

	log.CtxInfo(ctx, "friend request %s: id=%d by=%d", status, f.Id, userId)
	return f, nil
}

// ListPendingRequests lists requests awaiting the user's answer with sender info
func (s *UserService) ListPendingRequests(ctx context.Context, userId int64) ([]*FriendRequestInfo, error) {
	pending, err := s.userRepo.ListPendingRequests(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "list pending requests failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	infos := make([]*FriendRequestInfo, 0, len(pending))
	for _, f := range pending {
		from, err := s.userRepo.GetById(ctx, f.FromUserId)
		if err != nil || from == nil {
			continue
		}
		infos = append(infos, &FriendRequestInfo{
			Id:        f.Id,
			From:      from.Brief(),
			CreatedAt: f.CreatedAt,
		})
	}
	return infos, nil
}

// FriendRequestInfo is a pending request entry
type FriendRequestInfo struct {
	Id        int64             `json:"id"`
	From      *entity.UserBrief `json:"from"`
	CreatedAt int64             `json:"created_at"`
}

// RemoveFriend deletes an accepted friendship between the two users
func (s *UserService) RemoveFriend(ctx context.Context, userId, friendId int64) error {
	f, err := s.userRepo.GetFriendship(ctx, userId, friendId)
	if err != nil {
		log.CtxError(ctx, "get friendship failed: %v", err)
		return errcode.ErrInternalServer
	}
	if f == nil || f.Status != constant.FriendshipAccepted {
		return errcode.ErrNotFriends
	}
	if err := s.userRepo.DeleteFriendship(ctx, f.Id); err != nil {
		log.CtxError(ctx, "delete friendship failed: %v", err)
		return errcode.ErrInternalServer
	}
	return nil
}

// AreFriends reports whether two users have an accepted friendship
func (s *UserService) AreFriends(ctx context.Context, userA, userB int64) (bool, error) {
	f, err := s.userRepo.GetFriendship(ctx, userA, userB)
	if err != nil {
		return false, err
	}
	return f != nil && f.IsAccepted(), nil
}
