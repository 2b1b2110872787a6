package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/mbeoliero/concord/internal/config"
	"github.com/mbeoliero/concord/internal/entity"
	"github.com/mbeoliero/kit/log"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Repositories holds all repositories
type Repositories struct {
	DB           *gorm.DB
	Redis        *redis.Client
	User         *UserRepo
	Conversation *ConversationRepo
	Message      *MessageRepo
	Pin          *PinRepo
	Invite       *InviteRepo
	Voice        *VoiceRepo
	Server       *ServerRepo
}

// NewRepositories creates all repositories
func NewRepositories(cfg *config.Config) (*Repositories, error) {
	// Initialize MySQL
	db, err := initMySQL(cfg)
	if err != nil {
		return nil, err
	}

	// Initialize Redis
	rdb := initRedis(cfg)

	return NewRepositoriesWithDB(db, rdb), nil
}

// NewRepositoriesWithDB builds the repository set on top of existing connections.
func NewRepositoriesWithDB(db *gorm.DB, rdb *redis.Client) *Repositories {
	repos := &Repositories{
		DB:    db,
		Redis: rdb,
	}

	repos.User = NewUserRepo(db, rdb)
	repos.Conversation = NewConversationRepo(db, rdb)
	repos.Message = NewMessageRepo(db, rdb)
	repos.Pin = NewPinRepo(db, rdb)
	repos.Invite = NewInviteRepo(db, rdb)
	repos.Voice = NewVoiceRepo(db, rdb)
	repos.Server = NewServerRepo(db, rdb)

	return repos
}

// Migrate creates or updates all tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Friendship{},
		&entity.Conversation{},
		&entity.Participant{},
		&entity.Message{},
		&entity.Sticker{},
		&entity.PinnedMessage{},
		&entity.Invite{},
		&entity.VoiceRoom{},
		&entity.VoiceRoomMember{},
		&entity.Server{},
		&entity.ServerMember{},
		&entity.Channel{},
	)
}

// initMySQL initializes MySQL connection
func initMySQL(cfg *config.Config) (*gorm.DB, error) {
	var logLevel logger.LogLevel
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	} else {
		logLevel = logger.Warn
	}

	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// initRedis initializes Redis connection
func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// Close closes all connections
func (r *Repositories) Close() error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Close(); err != nil {
		return err
	}
	return r.Redis.Close()
}

// Transaction executes fn in a transaction
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.DB.WithContext(ctx).Transaction(fn)
}

// TransactionWithOptions executes fn in a transaction with options
func (r *Repositories) TransactionWithOptions(ctx context.Context, opts *sql.TxOptions, fn func(tx *gorm.DB) error) error {
	return r.DB.WithContext(ctx).Transaction(fn, opts)
}

// CheckConnection checks if database and redis connections are alive
func (r *Repositories) CheckConnection(ctx context.Context) error {
	// Check MySQL
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		log.CtxError(ctx, "mysql ping failed: %v", err)
		return err
	}

	// Check Redis
	if err := r.Redis.Ping(ctx).Err(); err != nil {
		log.CtxError(ctx, "redis ping failed: %v", err)
		return err
	}

	return nil
}
