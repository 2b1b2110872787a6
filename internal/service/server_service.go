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

// ServerService handles community servers and their channels. Each channel
// is backed by a group conversation so messaging and voice reuse the same
// paths as plain chats.
type ServerService struct {
	serverRepo *repository.ServerRepo
	convRepo   *repository.ConversationRepo
	repos      *repository.Repositories
}

// NewServerService creates a new ServerService
func NewServerService(repos *repository.Repositories) *ServerService {
	return &ServerService{
		serverRepo: repos.Server,
		convRepo:   repos.Conversation,
		repos:      repos,
	}
}

// CreateServer creates a server with the creator as owner and a default
// general text channel
func (s *ServerService) CreateServer(ctx context.Context, ownerId int64, name, avatar string) (*entity.Server, error) {
	if name == "" {
		return nil, errcode.ErrInvalidParam
	}

	srv := &entity.Server{Name: name, OwnerId: ownerId, Avatar: avatar}
	err := s.repos.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.serverRepo.Create(ctx, tx, srv); err != nil {
			return err
		}
		if err := s.serverRepo.AddMember(ctx, tx, &entity.ServerMember{
			ServerId: srv.Id,
			UserId:   ownerId,
			Role:     constant.ServerRoleOwner,
		}); err != nil {
			return err
		}
		_, err := s.createChannelTx(ctx, tx, srv.Id, ownerId, "general", constant.ChannelTypeText, 0)
		return err
	})
	if err != nil {
		log.CtxError(ctx, "create server failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	log.CtxInfo(ctx, "server created: server_id=%d owner=%d", srv.Id, ownerId)
	return srv, nil
}

// createChannelTx creates a channel and its backing conversation
func (s *ServerService) createChannelTx(ctx context.Context, tx *gorm.DB, serverId, creatorId int64, name, chType string, position int) (*entity.Channel, error) {
	conv := &entity.Conversation{Kind: constant.ConvKindGroup, Name: name}
	if err := s.convRepo.Create(ctx, tx, conv); err != nil {
		return nil, err
	}
	if err := s.convRepo.AddParticipant(ctx, tx, &entity.Participant{
		UserId:         creatorId,
		ConversationId: conv.Id,
		IsAdmin:        true,
	}); err != nil {
		return nil, err
	}

	ch := &entity.Channel{
		ServerId:       serverId,
		ConversationId: conv.Id,
		Name:           name,
		Type:           chType,
		Position:       position,
	}
	if err := s.serverRepo.CreateChannel(ctx, tx, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

// CreateChannel adds a channel to a server the user belongs to
func (s *ServerService) CreateChannel(ctx context.Context, userId, serverId int64, name, chType string, position int) (*entity.Channel, error) {
	if name == "" {
		return nil, errcode.ErrInvalidParam
	}
	switch chType {
	case constant.ChannelTypeText, constant.ChannelTypeVoice:
	default:
		return nil, errcode.ErrInvalidParam
	}

	ok, err := s.serverRepo.IsMember(ctx, serverId, userId)
	if err != nil {
		log.CtxError(ctx, "server member check failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if !ok {
		return nil, errcode.ErrNoPermission
	}

	var ch *entity.Channel
	err = s.repos.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		ch, err = s.createChannelTx(ctx, tx, serverId, userId, name, chType, position)
		return err
	})
	if err != nil {
		log.CtxError(ctx, "create channel failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	return ch, nil
}

// JoinServer adds a user to a server and to all its channel conversations
func (s *ServerService) JoinServer(ctx context.Context, userId, serverId int64) error {
	srv, err := s.serverRepo.GetById(ctx, serverId)
	if err != nil {
		log.CtxError(ctx, "get server failed: %v", err)
		return errcode.ErrInternalServer
	}
	if srv == nil {
		return errcode.ErrNotFound
	}

	already, err := s.serverRepo.IsMember(ctx, serverId, userId)
	if err != nil {
		log.CtxError(ctx, "server member check failed: %v", err)
		return errcode.ErrInternalServer
	}
	if already {
		return nil
	}

	channels, err := s.serverRepo.ListChannels(ctx, serverId)
	if err != nil {
		log.CtxError(ctx, "list channels failed: %v", err)
		return errcode.ErrInternalServer
	}

	err = s.repos.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.serverRepo.AddMember(ctx, tx, &entity.ServerMember{
			ServerId: serverId,
			UserId:   userId,
			Role:     constant.ServerRoleMember,
		}); err != nil {
			return err
		}
		for _, ch := range channels {
			if err := s.convRepo.AddParticipant(ctx, tx, &entity.Participant{
				UserId:         userId,
				ConversationId: ch.ConversationId,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.CtxError(ctx, "join server failed: %v", err)
		return errcode.ErrInternalServer
	}

	log.CtxInfo(ctx, "server joined: server_id=%d user_id=%d", serverId, userId)
	return nil
}

// ListServers lists servers the user belongs to
func (s *ServerService) ListServers(ctx context.Context, userId int64) ([]*entity.Server, error) {
	servers, err := s.serverRepo.ListUserServers(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "list servers failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	return servers, nil
}

// ListChannels lists channels of a server the user belongs to
func (s *ServerService) ListChannels(ctx context.Context, userId, serverId int64) ([]*entity.Channel, error) {
	ok, err := s.serverRepo.IsMember(ctx, serverId, userId)
	if err != nil {
		log.CtxError(ctx, "server member check failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if !ok {
		return nil, errcode.ErrNoPermission
	}
	channels, err := s.serverRepo.ListChannels(ctx, serverId)
	if err != nil {
		log.CtxError(ctx, "list channels failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	return channels, nil
}
