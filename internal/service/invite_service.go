package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/mbeoliero/concord/internal/entity"
	"github.com/mbeoliero/concord/internal/repository"
	"github.com/mbeoliero/concord/pkg/constant"
	"github.com/mbeoliero/concord/pkg/errcode"
	"github.com/mbeoliero/kit/log"
	"gorm.io/gorm"
)

// InviteService handles invite link creation and redemption
type InviteService struct {
	inviteRepo *repository.InviteRepo
	convRepo   *repository.ConversationRepo
	convSvc    *ConversationService
	repos      *repository.Repositories
}

// NewInviteService creates a new InviteService
func NewInviteService(repos *repository.Repositories, convSvc *ConversationService) *InviteService {
	return &InviteService{
		inviteRepo: repos.Invite,
		convRepo:   repos.Conversation,
		convSvc:    convSvc,
		repos:      repos,
	}
}

// CreateInviteRequest represents invite creation.
// MaxUses of 0 means unlimited; ExpiresAt nil means never.
type CreateInviteRequest struct {
	ConversationId int64  `json:"conversation_id"`
	MaxUses        int    `json:"max_uses"`
	ExpiresAt      *int64 `json:"expires_at,omitempty"`
}

// CreateInvite mints an invite token for a group conversation
func (s *InviteService) CreateInvite(ctx context.Context, userId int64, req *CreateInviteRequest) (*entity.Invite, error) {
	conv, err := s.convSvc.GetConversation(ctx, userId, req.ConversationId)
	if err != nil {
		return nil, err
	}
	if conv.Kind != constant.ConvKindGroup {
		return nil, errcode.ErrInvalidParam
	}
	if req.MaxUses < 0 {
		return nil, errcode.ErrInvalidParam
	}

	invite := &entity.Invite{
		Token:          uuid.New().String(),
		ConversationId: req.ConversationId,
		CreatorId:      userId,
		MaxUses:        req.MaxUses,
		ExpiresAt:      req.ExpiresAt,
	}
	if err := s.inviteRepo.Create(ctx, invite); err != nil {
		log.CtxError(ctx, "create invite failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	log.CtxInfo(ctx, "invite created: conv_id=%d token=%s max_uses=%d", req.ConversationId, invite.Token, req.MaxUses)
	return invite, nil
}

// PreviewInvite resolves a token to the conversation it opens, without
// consuming a use
func (s *InviteService) PreviewInvite(ctx context.Context, token string) (*entity.Invite, *entity.Conversation, error) {
	invite, err := s.inviteRepo.GetByToken(ctx, token)
	if err != nil {
		log.CtxError(ctx, "get invite failed: %v", err)
		return nil, nil, errcode.ErrInternalServer
	}
	if invite == nil {
		return nil, nil, errcode.ErrInviteNotFound
	}
	if invite.IsExpired(entity.NowUnixMilli()) {
		return nil, nil, errcode.ErrInviteExpired
	}
	if invite.IsExhausted() {
		return nil, nil, errcode.ErrInviteExhausted
	}

	conv, err := s.convRepo.GetById(ctx, invite.ConversationId)
	if err != nil {
		log.CtxError(ctx, "get conversation failed: %v", err)
		return nil, nil, errcode.ErrInternalServer
	}
	if conv == nil {
		return nil, nil, errcode.ErrConvNotFound
	}
	return invite, conv, nil
}

// ConsumeInvite validates a token and joins the user to the conversation.
// An invalid token mutates nothing: the use counter and the membership move
// together in one transaction, and the counter update re-checks capacity.
func (s *InviteService) ConsumeInvite(ctx context.Context, userId int64, token string) (*entity.Conversation, error) {
	invite, conv, err := s.PreviewInvite(ctx, token)
	if err != nil {
		return nil, err
	}

	already, err := s.convRepo.IsParticipant(ctx, userId, conv.Id)
	if err != nil {
		log.CtxError(ctx, "participant check failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if already {
		return conv, nil
	}

	err = s.repos.Transaction(ctx, func(tx *gorm.DB) error {
		consumed, err := s.inviteRepo.ConsumeUse(ctx, tx, invite.Id)
		if err != nil {
			return err
		}
		if !consumed {
			return errcode.ErrInviteExhausted
		}
		return s.convSvc.AddMember(ctx, tx, userId, conv.Id)
	})
	if err != nil {
		if e, ok := err.(*errcode.Error); ok {
			return nil, e
		}
		log.CtxError(ctx, "consume invite failed: token=%s err=%v", token, err)
		return nil, errcode.ErrInternalServer
	}

	log.CtxInfo(ctx, "invite consumed: user_id=%d conv_id=%d token=%s", userId, conv.Id, token)
	return conv, nil
}

// ListInvites lists invites of a conversation the user belongs to
func (s *InviteService) ListInvites(ctx context.Context, userId, convId int64) ([]*entity.Invite, error) {
	if _, err := s.convSvc.GetConversation(ctx, userId, convId); err != nil {
		return nil, err
	}
	invites, err := s.inviteRepo.ListByConversation(ctx, convId)
	if err != nil {
		log.CtxError(ctx, "list invites failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	return invites, nil
}

// RevokeInvite deletes an invite. Allowed for its creator and for admins.
func (s *InviteService) RevokeInvite(ctx context.Context, userId int64, token string) error {
	invite, err := s.inviteRepo.GetByToken(ctx, token)
	if err != nil {
		log.CtxError(ctx, "get invite failed: %v", err)
		return errcode.ErrInternalServer
	}
	if invite == nil {
		return errcode.ErrInviteNotFound
	}

	allowed := invite.CreatorId == userId
	if !allowed {
		isAdmin, err := s.convRepo.IsAdmin(ctx, userId, invite.ConversationId)
		if err != nil {
			log.CtxError(ctx, "admin check failed: %v", err)
			return errcode.ErrInternalServer
		}
		allowed = isAdmin
	}
	if !allowed {
		return errcode.ErrNoPermission
	}

	if err := s.inviteRepo.Delete(ctx, invite.Id); err != nil {
		log.CtxError(ctx, "revoke invite failed: %v", err)
		return errcode.ErrInternalServer
	}
	return nil
}
