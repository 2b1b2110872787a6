package service

import (
	"context"

	"github.com/mbeoliero/concord/internal/entity"
	"github.com/mbeoliero/concord/internal/repository"
	"github.com/mbeoliero/concord/pkg/constant"
	"github.com/mbeoliero/concord/pkg/errcode"
	"github.com/mbeoliero/kit/log"
	"gorm.io/gorm"
)

// ConversationService handles conversation membership and listing logic.
// It also answers the join checks the websocket layer asks before admitting
// a connection to a room.
type ConversationService struct {
	convRepo  *repository.ConversationRepo
	msgRepo   *repository.MessageRepo
	userRepo  *repository.UserRepo
	voiceRepo *repository.VoiceRepo
	repos     *repository.Repositories
}

// NewConversationService creates a new ConversationService
func NewConversationService(repos *repository.Repositories) *ConversationService {
	return &ConversationService{
		convRepo:  repos.Conversation,
		msgRepo:   repos.Message,
		userRepo:  repos.User,
		voiceRepo: repos.Voice,
		repos:     repos,
	}
}

// CanJoinChat reports whether the user may attach to the conversation's
// message stream. Lookup failures read as no.
func (s *ConversationService) CanJoinChat(ctx context.Context, userId, conversationId int64) bool {
	ok, err := s.convRepo.IsParticipant(ctx, userId, conversationId)
	if err != nil {
		log.CtxError(ctx, "participant check failed: user_id=%d conv_id=%d err=%v", userId, conversationId, err)
		return false
	}
	return ok
}

// CanJoinVoice reports whether the user may attach to the voice room's
// signaling stream. Membership follows the backing conversation.
func (s *ConversationService) CanJoinVoice(ctx context.Context, userId, voiceRoomId int64) bool {
	room, err := s.voiceRepo.GetById(ctx, voiceRoomId)
	if err != nil {
		log.CtxError(ctx, "voice room lookup failed: room_id=%d err=%v", voiceRoomId, err)
		return false
	}
	if room == nil {
		return false
	}
	return s.CanJoinChat(ctx, userId, room.ConversationId)
}

// EnsureFavorite returns the user's favorites conversation, creating it on
// first use
func (s *ConversationService) EnsureFavorite(ctx context.Context, userId int64) (*entity.Conversation, error) {
	conv, err := s.convRepo.GetFavorite(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "get favorite failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if conv != nil {
		return conv, nil
	}

	conv = &entity.Conversation{Kind: constant.ConvKindFavorite}
	err = s.repos.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.convRepo.Create(ctx, tx, conv); err != nil {
			return err
		}
		return s.convRepo.AddParticipant(ctx, tx, &entity.Participant{
			UserId:         userId,
			ConversationId: conv.Id,
		})
	})
	if err != nil {
		log.CtxError(ctx, "create favorite failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	return conv, nil
}

// GetOrCreatePrivate returns the private conversation between two friends,
// creating it on first use
func (s *ConversationService) GetOrCreatePrivate(ctx context.Context, userId, otherUserId int64) (*entity.Conversation, error) {
	if userId == otherUserId {
		return nil, errcode.ErrSelfConversation
	}

	other, err := s.userRepo.GetById(ctx, otherUserId)
	if err != nil {
		log.CtxError(ctx, "get user failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if other == nil {
		return nil, errcode.ErrUserNotFound
	}

	friendship, err := s.userRepo.GetFriendship(ctx, userId, otherUserId)
	if err != nil {
		log.CtxError(ctx, "check friendship failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if friendship == nil || !friendship.IsAccepted() {
		return nil, errcode.ErrNotFriends
	}

	conv, err := s.convRepo.GetPrivateBetween(ctx, userId, otherUserId)
	if err != nil {
		log.CtxError(ctx, "get private conversation failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if conv != nil {
		// Reopen for a side that previously hid the chat
		if err := s.convRepo.AddParticipant(ctx, nil, &entity.Participant{
			UserId:         userId,
			ConversationId: conv.Id,
		}); err != nil {
			log.CtxError(ctx, "revive participant failed: %v", err)
			return nil, errcode.ErrInternalServer
		}
		return conv, nil
	}

	conv = &entity.Conversation{Kind: constant.ConvKindPrivate}
	err = s.repos.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.convRepo.Create(ctx, tx, conv); err != nil {
			return err
		}
		for _, uid := range []int64{userId, otherUserId} {
			if err := s.convRepo.AddParticipant(ctx, tx, &entity.Participant{
				UserId:         uid,
				ConversationId: conv.Id,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.CtxError(ctx, "create private conversation failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	log.CtxInfo(ctx, "private conversation created: conv_id=%d users=%d,%d", conv.Id, userId, otherUserId)
	return conv, nil
}

// CreateGroupRequest represents group creation
type CreateGroupRequest struct {
	Name      string  `json:"name"`
	Avatar    string  `json:"avatar,omitempty"`
	MemberIds []int64 `json:"member_ids"`
}

// CreateGroup creates a group conversation with the creator as admin
func (s *ConversationService) CreateGroup(ctx context.Context, creatorId int64, req *CreateGroupRequest) (*entity.Conversation, error) {
	if req.Name == "" {
		return nil, errcode.ErrInvalidParam
	}

	conv := &entity.Conversation{
		Kind:   constant.ConvKindGroup,
		Name:   req.Name,
		Avatar: req.Avatar,
	}
	err := s.repos.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.convRepo.Create(ctx, tx, conv); err != nil {
			return err
		}
		if err := s.convRepo.AddParticipant(ctx, tx, &entity.Participant{
			UserId:         creatorId,
			ConversationId: conv.Id,
			IsAdmin:        true,
		}); err != nil {
			return err
		}
		for _, uid := range req.MemberIds {
			if uid == creatorId {
				continue
			}
			if err := s.convRepo.AddParticipant(ctx, tx, &entity.Participant{
				UserId:         uid,
				ConversationId: conv.Id,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.CtxError(ctx, "create group failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	log.CtxInfo(ctx, "group created: conv_id=%d creator=%d members=%d", conv.Id, creatorId, len(req.MemberIds))
	return conv, nil
}

// GetConversation gets a conversation the user participates in
func (s *ConversationService) GetConversation(ctx context.Context, userId, convId int64) (*entity.Conversation, error) {
	conv, err := s.convRepo.GetById(ctx, convId)
	if err != nil {
		log.CtxError(ctx, "get conversation failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if conv == nil {
		return nil, errcode.ErrConvNotFound
	}
	ok, err := s.convRepo.IsParticipant(ctx, userId, convId)
	if err != nil {
		log.CtxError(ctx, "participant check failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if !ok {
		return nil, errcode.ErrNotParticipant
	}
	return conv, nil
}

// ListConversations lists the user's chats, pinned first, with last message
// and unread count attached
func (s *ConversationService) ListConversations(ctx context.Context, userId int64) ([]*entity.ConversationInfo, error) {
	convs, parts, err := s.convRepo.ListUserConversations(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "list conversations failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	partByConv := make(map[int64]*entity.Participant, len(parts))
	for _, p := range parts {
		partByConv[p.ConversationId] = p
	}

	infos := make([]*entity.ConversationInfo, 0, len(convs))
	pinned := make([]*entity.ConversationInfo, 0)
	for _, conv := range convs {
		p := partByConv[conv.Id]
		if p == nil {
			continue
		}

		info := &entity.ConversationInfo{
			Id:        conv.Id,
			Kind:      conv.Kind,
			Name:      s.displayName(ctx, conv, userId),
			Avatar:    conv.Avatar,
			IsAdmin:   p.IsAdmin,
			IsPinned:  p.IsPinned,
			UpdatedAt: conv.UpdatedAt,
		}

		if conv.LastMessageId != nil {
			if msg, err := s.msgRepo.GetById(ctx, *conv.LastMessageId); err == nil && msg != nil {
				var sender *entity.UserBrief
				if msg.SenderId != nil {
					if u, err := s.userRepo.GetById(ctx, *msg.SenderId); err == nil && u != nil {
						sender = u.Brief()
					}
				}
				info.LastMessage = msg.ToMessageInfo(sender)
			}
		}

		if count, err := s.msgRepo.CountUnread(ctx, conv.Id, userId, p.LastRead); err == nil {
			info.UnreadCount = count
		}

		if p.IsPinned {
			pinned = append(pinned, info)
		} else {
			infos = append(infos, info)
		}
	}
	return append(pinned, infos...), nil
}

// displayName resolves what the user sees as the conversation title
func (s *ConversationService) displayName(ctx context.Context, conv *entity.Conversation, viewerId int64) string {
	if conv.Kind != constant.ConvKindPrivate {
		if conv.Kind == constant.ConvKindFavorite && conv.Name == "" {
			return "Favorites"
		}
		return conv.Name
	}
	ids, err := s.convRepo.ParticipantIds(ctx, conv.Id)
	if err != nil {
		return conv.Name
	}
	for _, id := range ids {
		if id == viewerId {
			continue
		}
		if u, err := s.userRepo.GetById(ctx, id); err == nil && u != nil {
			return u.DisplayName()
		}
	}
	return conv.Name
}

// ListMembers lists participant briefs of a conversation the user belongs to
func (s *ConversationService) ListMembers(ctx context.Context, userId, convId int64) ([]*entity.UserBrief, error) {
	if _, err := s.GetConversation(ctx, userId, convId); err != nil {
		return nil, err
	}
	ids, err := s.convRepo.ParticipantIds(ctx, convId)
	if err != nil {
		log.CtxError(ctx, "list participants failed: %v", err)
		return nil, errcode.ErrInternalServer
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

// SetChatPinned pins or unpins the conversation in the user's chat list
func (s *ConversationService) SetChatPinned(ctx context.Context, userId, convId int64, pinned bool) error {
	if _, err := s.GetConversation(ctx, userId, convId); err != nil {
		return err
	}
	if err := s.convRepo.SetPinned(ctx, userId, convId, pinned); err != nil {
		log.CtxError(ctx, "set chat pinned failed: %v", err)
		return errcode.ErrInternalServer
	}
	return nil
}

// MarkRead moves the user's read marker and marks messages read
func (s *ConversationService) MarkRead(ctx context.Context, userId, convId, messageId int64) error {
	if _, err := s.GetConversation(ctx, userId, convId); err != nil {
		return err
	}
	msg, err := s.msgRepo.GetById(ctx, messageId)
	if err != nil {
		log.CtxError(ctx, "get message failed: %v", err)
		return errcode.ErrInternalServer
	}
	if msg == nil || msg.ConversationId != convId {
		return errcode.ErrMessageNotFound
	}
	if err := s.convRepo.UpdateLastRead(ctx, userId, convId, messageId); err != nil {
		log.CtxError(ctx, "update last read failed: %v", err)
		return errcode.ErrInternalServer
	}
	if err := s.msgRepo.MarkRead(ctx, convId, userId, msg.CreatedAt); err != nil {
		log.CtxWarn(ctx, "mark messages read failed: %v", err)
	}
	return nil
}

// LeaveConversation removes the user from a conversation. Private chats are
// hidden per side, groups are left for real.
func (s *ConversationService) LeaveConversation(ctx context.Context, userId, convId int64) error {
	if _, err := s.GetConversation(ctx, userId, convId); err != nil {
		return err
	}
	if err := s.convRepo.RemoveParticipant(ctx, userId, convId); err != nil {
		log.CtxError(ctx, "leave conversation failed: %v", err)
		return errcode.ErrInternalServer
	}
	log.CtxInfo(ctx, "user left conversation: user_id=%d conv_id=%d", userId, convId)
	return nil
}

// AddMember joins a user to a group conversation, used by invite redemption
func (s *ConversationService) AddMember(ctx context.Context, tx *gorm.DB, userId, convId int64) error {
	return s.convRepo.AddParticipant(ctx, tx, &entity.Participant{
		UserId:         userId,
		ConversationId: convId,
	})
}
