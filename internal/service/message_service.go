package service

import (
	"context"
	"strings"

	"github.com/mbeoliero/concord/internal/entity"
	"github.com/mbeoliero/concord/internal/repository"
	"github.com/mbeoliero/concord/pkg/errcode"
	"github.com/mbeoliero/concord/pkg/idgen"
	"github.com/mbeoliero/kit/log"
	"gorm.io/gorm"
)

// Broadcaster fans a committed change out to connected room members. The
// websocket layer provides the implementation; persistence never waits on it.
type Broadcaster interface {
	BroadcastChatMessage(conversationId int64, msg *entity.Message, sender *entity.UserBrief)
	BroadcastVoiceJoin(voiceRoomId int64, user *entity.UserBrief)
	BroadcastVoiceLeave(voiceRoomId, userId int64)
}

// MessageService handles message persistence and fan-out ordering
type MessageService struct {
	msgRepo     *repository.MessageRepo
	convRepo    *repository.ConversationRepo
	userRepo    *repository.UserRepo
	pinRepo     *repository.PinRepo
	repos       *repository.Repositories
	broadcaster Broadcaster
}

// NewMessageService creates a new MessageService
func NewMessageService(repos *repository.Repositories) *MessageService {
	return &MessageService{
		msgRepo:  repos.Message,
		convRepo: repos.Conversation,
		userRepo: repos.User,
		pinRepo:  repos.Pin,
		repos:    repos,
	}
}

// SetBroadcaster sets the fan-out sink
func (s *MessageService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// CreateMessage persists a text message and bumps the conversation's
// last_message pointer in one transaction
func (s *MessageService) CreateMessage(ctx context.Context, senderId, conversationId int64, content string) (*entity.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errcode.ErrInvalidParam
	}

	ok, err := s.convRepo.IsParticipant(ctx, senderId, conversationId)
	if err != nil {
		log.CtxError(ctx, "participant check failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if !ok {
		return nil, errcode.ErrNotParticipant
	}

	msg, err := s.buildMessage(senderId, conversationId)
	if err != nil {
		return nil, err
	}
	msg.Content = content

	if err := s.persist(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// buildMessage allocates id and timestamps for a new message
func (s *MessageService) buildMessage(senderId, conversationId int64) (*entity.Message, error) {
	id, err := idgen.NextID()
	if err != nil {
		return nil, errcode.ErrInternalServer.Wrap(err)
	}
	return &entity.Message{
		Id:             id,
		ConversationId: conversationId,
		SenderId:       &senderId,
		CreatedAt:      entity.NowUnixMilli(),
	}, nil
}

// persist writes the message and the last_message pointer atomically
func (s *MessageService) persist(ctx context.Context, msg *entity.Message) error {
	err := s.repos.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.msgRepo.Create(ctx, tx, msg); err != nil {
			return err
		}
		return s.convRepo.UpdateLastMessage(ctx, tx, msg.ConversationId, msg.Id)
	})
	if err != nil {
		log.CtxError(ctx, "persist message failed: conv_id=%d err=%v", msg.ConversationId, err)
		return errcode.ErrInternalServer
	}
	return nil
}

// EditMessage updates content on a message owned by editorId
func (s *MessageService) EditMessage(ctx context.Context, editorId, messageId int64, content string) (*entity.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errcode.ErrInvalidParam
	}

	msg, err := s.getOwned(ctx, editorId, messageId)
	if err != nil {
		return nil, err
	}
	// one timestamp for both the stored row and the broadcast payload
	now := entity.NowUnixMilli()
	if err := s.msgRepo.Edit(ctx, messageId, content, now); err != nil {
		log.CtxError(ctx, "edit message failed: msg_id=%d err=%v", messageId, err)
		return nil, errcode.ErrInternalServer
	}

	msg.Content = content
	msg.EditedAt = &now
	return msg, nil
}

// DeleteMessage tombstones a message owned by requesterId
func (s *MessageService) DeleteMessage(ctx context.Context, requesterId, messageId int64) (*entity.Message, error) {
	msg, err := s.getOwned(ctx, requesterId, messageId)
	if err != nil {
		return nil, err
	}
	if err := s.msgRepo.SoftDelete(ctx, messageId); err != nil {
		log.CtxError(ctx, "delete message failed: msg_id=%d err=%v", messageId, err)
		return nil, errcode.ErrInternalServer
	}

	msg.IsDeleted = true
	msg.Content = ""
	return msg, nil
}

// getOwned loads a live message and checks the caller wrote it
func (s *MessageService) getOwned(ctx context.Context, userId, messageId int64) (*entity.Message, error) {
	msg, err := s.msgRepo.GetById(ctx, messageId)
	if err != nil {
		log.CtxError(ctx, "get message failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if msg == nil || msg.IsDeleted {
		return nil, errcode.ErrMessageNotFound
	}
	if msg.SenderId == nil || *msg.SenderId != userId {
		return nil, errcode.ErrNotSender
	}
	return msg, nil
}

// PinMessage replaces the conversation's single pinned message. Allowed for
// conversation admins and for the message's sender.
func (s *MessageService) PinMessage(ctx context.Context, userId, conversationId, messageId int64) (*entity.PinnedMessage, error) {
	msg, err := s.msgRepo.GetById(ctx, messageId)
	if err != nil {
		log.CtxError(ctx, "get message failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if msg == nil || msg.IsDeleted || msg.ConversationId != conversationId {
		return nil, errcode.ErrMessageNotFound
	}

	allowed := msg.SenderId != nil && *msg.SenderId == userId
	if !allowed {
		isAdmin, err := s.convRepo.IsAdmin(ctx, userId, conversationId)
		if err != nil {
			log.CtxError(ctx, "admin check failed: %v", err)
			return nil, errcode.ErrInternalServer
		}
		allowed = isAdmin
	}
	if !allowed {
		return nil, errcode.ErrPinNotAllowed
	}

	pin := &entity.PinnedMessage{
		ConversationId: conversationId,
		MessageId:      messageId,
		PinnedBy:       userId,
	}
	if err := s.pinRepo.Set(ctx, pin); err != nil {
		log.CtxError(ctx, "pin message failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	return pin, nil
}

// UnpinMessage clears the conversation's pin. Admin only.
func (s *MessageService) UnpinMessage(ctx context.Context, userId, conversationId int64) error {
	isAdmin, err := s.convRepo.IsAdmin(ctx, userId, conversationId)
	if err != nil {
		log.CtxError(ctx, "admin check failed: %v", err)
		return errcode.ErrInternalServer
	}
	if !isAdmin {
		return errcode.ErrPinNotAllowed
	}
	if err := s.pinRepo.Clear(ctx, conversationId); err != nil {
		log.CtxError(ctx, "unpin message failed: %v", err)
		return errcode.ErrInternalServer
	}
	return nil
}

// GetPinnedMessage returns the pinned message of a conversation, nil if none
func (s *MessageService) GetPinnedMessage(ctx context.Context, userId, conversationId int64) (*entity.MessageInfo, error) {
	ok, err := s.convRepo.IsParticipant(ctx, userId, conversationId)
	if err != nil {
		log.CtxError(ctx, "participant check failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if !ok {
		return nil, errcode.ErrNotParticipant
	}

	pin, err := s.pinRepo.Get(ctx, conversationId)
	if err != nil {
		log.CtxError(ctx, "get pin failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if pin == nil {
		return nil, nil
	}
	msg, err := s.msgRepo.GetById(ctx, pin.MessageId)
	if err != nil || msg == nil {
		return nil, nil
	}
	return msg.ToMessageInfo(s.senderBrief(ctx, msg)), nil
}

// ListMessages pages message history of a conversation, newest first
func (s *MessageService) ListMessages(ctx context.Context, userId, conversationId int64, beforeMilli int64, limit int) ([]*entity.MessageInfo, error) {
	ok, err := s.convRepo.IsParticipant(ctx, userId, conversationId)
	if err != nil {
		log.CtxError(ctx, "participant check failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if !ok {
		return nil, errcode.ErrNotParticipant
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	msgs, err := s.msgRepo.ListByConversation(ctx, conversationId, beforeMilli, limit)
	if err != nil {
		log.CtxError(ctx, "list messages failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	infos := make([]*entity.MessageInfo, 0, len(msgs))
	for _, msg := range msgs {
		infos = append(infos, msg.ToMessageInfo(s.senderBrief(ctx, msg)))
	}
	return infos, nil
}

// senderBrief resolves the sender view for a message, nil for system rows
func (s *MessageService) senderBrief(ctx context.Context, msg *entity.Message) *entity.UserBrief {
	if msg.SenderId == nil {
		return nil
	}
	u, err := s.userRepo.GetById(ctx, *msg.SenderId)
	if err != nil || u == nil {
		return nil
	}
	return u.Brief()
}

// SendFileMessage persists a file attachment message and fans it out
func (s *MessageService) SendFileMessage(ctx context.Context, senderId, conversationId int64, file *entity.FileMeta) (*entity.Message, error) {
	if file == nil || file.Name == "" {
		return nil, errcode.ErrInvalidParam
	}

	ok, err := s.convRepo.IsParticipant(ctx, senderId, conversationId)
	if err != nil {
		log.CtxError(ctx, "participant check failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if !ok {
		return nil, errcode.ErrNotParticipant
	}

	msg, err := s.buildMessage(senderId, conversationId)
	if err != nil {
		return nil, err
	}
	msg.FileName = file.Name
	msg.FileSize = file.Size
	msg.FileType = file.Type

	if err := s.persist(ctx, msg); err != nil {
		return nil, err
	}
	s.fanOut(ctx, msg)
	return msg, nil
}

// SendStickerMessage persists a sticker message and fans it out
func (s *MessageService) SendStickerMessage(ctx context.Context, senderId, conversationId, stickerId int64) (*entity.Message, error) {
	sticker, err := s.msgRepo.GetSticker(ctx, stickerId)
	if err != nil {
		log.CtxError(ctx, "get sticker failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if sticker == nil {
		return nil, errcode.ErrStickerNotFound
	}

	ok, err := s.convRepo.IsParticipant(ctx, senderId, conversationId)
	if err != nil {
		log.CtxError(ctx, "participant check failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if !ok {
		return nil, errcode.ErrNotParticipant
	}

	msg, err := s.buildMessage(senderId, conversationId)
	if err != nil {
		return nil, err
	}
	msg.StickerId = &stickerId

	if err := s.persist(ctx, msg); err != nil {
		return nil, err
	}
	s.fanOut(ctx, msg)
	return msg, nil
}

// fanOut pushes a committed message to the conversation's live sockets
func (s *MessageService) fanOut(ctx context.Context, msg *entity.Message) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.BroadcastChatMessage(msg.ConversationId, msg, s.senderBrief(ctx, msg))
}

// ListStickers lists stickers available to the user
func (s *MessageService) ListStickers(ctx context.Context, userId int64) ([]*entity.Sticker, error) {
	stickers, err := s.msgRepo.ListStickers(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "list stickers failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	return stickers, nil
}
