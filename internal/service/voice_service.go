package service

import (
	"context"

	"github.com/mbeoliero/concord/internal/entity"
	"github.com/mbeoliero/concord/internal/repository"
	"github.com/mbeoliero/concord/pkg/errcode"
	"github.com/mbeoliero/kit/log"
	"gorm.io/gorm"
)

// VoiceService handles voice room membership. Joining and leaving happen
// here over REST; the websocket signaling socket never mutates membership,
// so a dropped connection does not kick the user out of the room.
type VoiceService struct {
	voiceRepo   *repository.VoiceRepo
	convRepo    *repository.ConversationRepo
	userRepo    *repository.UserRepo
	repos       *repository.Repositories
	broadcaster Broadcaster
}

// NewVoiceService creates a new VoiceService
func NewVoiceService(repos *repository.Repositories) *VoiceService {
	return &VoiceService{
		voiceRepo: repos.Voice,
		convRepo:  repos.Conversation,
		userRepo:  repos.User,
		repos:     repos,
	}
}

// SetBroadcaster sets the fan-out sink
func (s *VoiceService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// GetRoomForConversation returns the voice room of a conversation the user
// belongs to, creating it on first use
func (s *VoiceService) GetRoomForConversation(ctx context.Context, userId, convId int64) (*entity.VoiceRoom, error) {
	ok, err := s.convRepo.IsParticipant(ctx, userId, convId)
	if err != nil {
		log.CtxError(ctx, "participant check failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if !ok {
		return nil, errcode.ErrNotParticipant
	}

	room, err := s.voiceRepo.EnsureRoom(ctx, convId)
	if err != nil {
		log.CtxError(ctx, "ensure voice room failed: conv_id=%d err=%v", convId, err)
		return nil, errcode.ErrInternalServer
	}
	return room, nil
}

// getRoomForMember loads a room and checks conversation membership
func (s *VoiceService) getRoomForMember(ctx context.Context, userId, roomId int64) (*entity.VoiceRoom, error) {
	room, err := s.voiceRepo.GetById(ctx, roomId)
	if err != nil {
		log.CtxError(ctx, "get voice room failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if room == nil {
		return nil, errcode.ErrVoiceRoomNotFound
	}

	ok, err := s.convRepo.IsParticipant(ctx, userId, room.ConversationId)
	if err != nil {
		log.CtxError(ctx, "participant check failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if !ok {
		return nil, errcode.ErrNotParticipant
	}
	return room, nil
}

// JoinRoom adds the user to the voice room's active set and marks the room
// live. Repeated joins are idempotent.
func (s *VoiceService) JoinRoom(ctx context.Context, userId, roomId int64) (*entity.VoiceRoom, error) {
	room, err := s.getRoomForMember(ctx, userId, roomId)
	if err != nil {
		return nil, err
	}

	err = s.repos.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.voiceRepo.AddMember(ctx, tx, roomId, userId); err != nil {
			return err
		}
		return s.voiceRepo.SetActive(ctx, tx, roomId, true)
	})
	if err != nil {
		log.CtxError(ctx, "join voice room failed: room_id=%d user_id=%d err=%v", roomId, userId, err)
		return nil, errcode.ErrInternalServer
	}
	room.IsActive = true

	if s.broadcaster != nil {
		if u, err := s.userRepo.GetById(ctx, userId); err == nil && u != nil {
			s.broadcaster.BroadcastVoiceJoin(roomId, u.Brief())
		}
	}

	log.CtxInfo(ctx, "voice room joined: room_id=%d user_id=%d", roomId, userId)
	return room, nil
}

// LeaveRoom removes the user from the active set and recomputes the room's
// activity flag from the remaining member count
func (s *VoiceService) LeaveRoom(ctx context.Context, userId, roomId int64) error {
	room, err := s.getRoomForMember(ctx, userId, roomId)
	if err != nil {
		return err
	}

	err = s.repos.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.voiceRepo.RemoveMember(ctx, tx, roomId, userId); err != nil {
			return err
		}
		count, err := s.voiceRepo.MemberCount(ctx, tx, roomId)
		if err != nil {
			return err
		}
		return s.voiceRepo.SetActive(ctx, tx, roomId, count > 0)
	})
	if err != nil {
		log.CtxError(ctx, "leave voice room failed: room_id=%d user_id=%d err=%v", roomId, userId, err)
		return errcode.ErrInternalServer
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastVoiceLeave(roomId, userId)
	}

	log.CtxInfo(ctx, "voice room left: room_id=%d user_id=%d conv_id=%d", roomId, userId, room.ConversationId)
	return nil
}

// ListMembers lists users currently in the voice room
func (s *VoiceService) ListMembers(ctx context.Context, userId, roomId int64) ([]*entity.UserBrief, error) {
	if _, err := s.getRoomForMember(ctx, userId, roomId); err != nil {
		return nil, err
	}

	ids, err := s.voiceRepo.MemberIds(ctx, roomId)
	if err != nil {
		log.CtxError(ctx, "list voice members failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if len(ids) == 0 {
		return []*entity.UserBrief{}, nil
	}

	users, err := s.userRepo.GetByIds(ctx, ids)
	if err != nil {
		log.CtxError(ctx, "get users failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	briefs := make([]*entity.UserBrief, 0, len(users))
	for _, u := range users {
		briefs = append(briefs, u.Brief())
	}
	return briefs, nil
}
