package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/mbeoliero/concord/internal/entity"
	"github.com/mbeoliero/concord/internal/repository"
	"github.com/mbeoliero/concord/pkg/constant"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	repos   *repository.Repositories
	convSvc *ConversationService
	msgSvc  *MessageService
	invSvc  *InviteService
	voice   *VoiceService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, repository.Migrate(db))

	repos := repository.NewRepositoriesWithDB(db, nil)
	convSvc := NewConversationService(repos)
	return &testEnv{
		repos:   repos,
		convSvc: convSvc,
		msgSvc:  NewMessageService(repos),
		invSvc:  NewInviteService(repos, convSvc),
		voice:   NewVoiceService(repos),
	}
}

func (e *testEnv) user(t *testing.T, username string) *entity.User {
	t.Helper()
	u := &entity.User{
		Username:      username,
		Discriminator: "0001",
		Email:         username + "@example.com",
		ManualStatus:  constant.StatusOnline,
	}
	require.NoError(t, e.repos.User.Create(context.Background(), u))
	return u
}

func (e *testEnv) group(t *testing.T, creatorId int64, memberIds ...int64) *entity.Conversation {
	t.Helper()
	conv, err := e.convSvc.CreateGroup(context.Background(), creatorId, &CreateGroupRequest{
		Name:      "room",
		MemberIds: memberIds,
	})
	require.NoError(t, err)
	return conv
}
