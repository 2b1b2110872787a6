package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/mbeoliero/concord/internal/config"
	"github.com/mbeoliero/concord/internal/gateway"
	"github.com/mbeoliero/concord/internal/handler"
	"github.com/mbeoliero/concord/internal/repository"
	"github.com/mbeoliero/concord/internal/router"
	"github.com/mbeoliero/concord/internal/service"
	"github.com/mbeoliero/concord/pkg/constant"
	"github.com/mbeoliero/concord/pkg/idgen"
	"github.com/mbeoliero/kit/log"
)

func main() {
	ctx := context.TODO()

	// Load configuration
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		log.CtxError(ctx, "failed to load config: %v", err)
		panic(err)
	}

	log.CtxInfo(ctx, "config loaded: mode=%s", cfg.Server.Mode)

	// Initialize Redis key prefix
	constant.InitRedisKeyPrefix(cfg.Redis.KeyPrefix)
	log.CtxInfo(ctx, "redis key prefix: %s", constant.GetRedisKeyPrefix())

	// Initialize message id generator
	gen, err := idgen.NewSonyflakeGenerator(uint16(cfg.Server.MachineId))
	if err != nil {
		log.CtxError(ctx, "failed to initialize id generator: %v", err)
		panic(err)
	}
	idgen.SetDefaultGenerator(gen)

	// Initialize repositories
	repos, err := repository.NewRepositories(cfg)
	if err != nil {
		log.CtxError(ctx, "failed to initialize repositories: %v", err)
		panic(err)
	}
	defer repos.Close()

	// Check database connection
	if err := repos.CheckConnection(ctx); err != nil {
		log.CtxError(ctx, "database connection check failed: %v", err)
		panic(err)
	}
	log.CtxInfo(ctx, "database connection established")

	if err := repository.Migrate(repos.DB); err != nil {
		log.CtxError(ctx, "database migration failed: %v", err)
		panic(err)
	}

	// Initialize services
	convService := service.NewConversationService(repos)
	authService := service.NewAuthService(repos.User, convService, cfg, repos.Redis)
	userService := service.NewUserService(repos.User, repos.Redis)
	msgService := service.NewMessageService(repos)
	inviteService := service.NewInviteService(repos, convService)
	voiceService := service.NewVoiceService(repos)
	serverService := service.NewServerService(repos)

	// Initialize websocket gateway. Conversation membership answers the
	// join checks, the message service is the persistence boundary.
	gw := gateway.New(cfg, repos.Redis, msgService, convService, userService, userService)

	// Committed writes fan out through the gateway
	msgService.SetBroadcaster(gw)
	voiceService.SetBroadcaster(gw)

	// Initialize handlers
	handlers := &router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		User:         handler.NewUserHandler(userService),
		Conversation: handler.NewConversationHandler(convService, inviteService),
		Message:      handler.NewMessageHandler(msgService, cfg),
		Voice:        handler.NewVoiceHandler(voiceService),
		Server:       handler.NewServerHandler(serverService),
	}

	// Create Hertz server
	h := server.Default(
		server.WithHostPorts(fmt.Sprintf(":%d", cfg.Server.HTTPPort)),
	)

	// Setup routes
	router.SetupRouter(h, handlers, gw)

	log.CtxInfo(ctx, "server starting on port %d", cfg.Server.HTTPPort)

	// Start server in goroutine
	go func() {
		h.Spin()
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.CtxInfo(ctx, "shutting down server...")

	// Graceful shutdown
	if err := h.Shutdown(ctx); err != nil {
		log.CtxError(ctx, "server shutdown error: %v", err)
	}

	log.CtxInfo(ctx, "server stopped")
}
