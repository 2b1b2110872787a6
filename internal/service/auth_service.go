package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/mbeoliero/concord/internal/config"
	"github.com/mbeoliero/concord/internal/entity"
	"github.com/mbeoliero/concord/internal/repository"
	"github.com/mbeoliero/concord/pkg/constant"
	"github.com/mbeoliero/concord/pkg/errcode"
	"github.com/mbeoliero/concord/pkg/jwt"
	"github.com/mbeoliero/kit/log"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles authentication logic
type AuthService struct {
	userRepo   *repository.UserRepo
	convSvc    *ConversationService
	cfg        *config.Config
	tokenStore *jwt.TokenStore
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo *repository.UserRepo, convSvc *ConversationService, cfg *config.Config, rdb *redis.Client) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		convSvc:    convSvc,
		cfg:        cfg,
		tokenStore: jwt.NewTokenStore(rdb, cfg.JWT.ExpireHours),
	}
}

// RegisterRequest represents user registration request
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Avatar   string `json:"avatar,omitempty"`
}

// LoginRequest represents user login request
type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	PlatformId int    `json:"platform_id"`
}

// LoginResponse represents user login response
type LoginResponse struct {
	Token    string       `json:"token"`
	UserInfo *entity.User `json:"user_info"`
}

// Register registers a new user and sets up their favorites conversation
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*entity.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Email == "" || req.Password == "" {
		return nil, errcode.ErrInvalidParam
	}

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		log.CtxError(ctx, "check email exists failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if existing != nil {
		return nil, errcode.ErrUserExists
	}

	discriminator, err := s.pickDiscriminator(ctx, username)
	if err != nil {
		return nil, err
	}

	// Hash password with bcrypt
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.CtxError(ctx, "hash password failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	user := &entity.User{
		Username:      username,
		Discriminator: discriminator,
		Email:         req.Email,
		Password:      string(hashedPassword),
		Avatar:        req.Avatar,
		ManualStatus:  constant.StatusOnline,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		log.CtxError(ctx, "create user failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	// Every account gets a private favorites conversation for saved messages
	if _, err := s.convSvc.EnsureFavorite(ctx, user.Id); err != nil {
		log.CtxWarn(ctx, "create favorite conversation failed: user_id=%d err=%v", user.Id, err)
	}

	log.CtxInfo(ctx, "user registered: user_id=%d name=%s", user.Id, user.DisplayName())
	return user, nil
}

// pickDiscriminator finds a free #NNNN tag for the username
func (s *AuthService) pickDiscriminator(ctx context.Context, username string) (string, error) {
	for i := 0; i < 10; i++ {
		candidate := fmt.Sprintf("%04d", rand.Intn(9999)+1)
		taken, err := s.userRepo.DiscriminatorTaken(ctx, username, candidate)
		if err != nil {
			log.CtxError(ctx, "check discriminator failed: %v", err)
			return "", errcode.ErrInternalServer
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", errcode.ErrUserExists
}

// Login authenticates a user and returns a token
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		log.CtxError(ctx, "get user failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if user == nil {
		return nil, errcode.ErrUserNotFound
	}

	// Verify password with bcrypt
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errcode.ErrPasswordWrong
	}

	token, err := jwt.GenerateToken(user.Id, req.PlatformId, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		log.CtxError(ctx, "generate token failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	if err := s.tokenStore.StoreToken(ctx, user.Id, req.PlatformId, token); err != nil {
		log.CtxError(ctx, "store token failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	log.CtxInfo(ctx, "user logged in: user_id=%d platform=%d", user.Id, req.PlatformId)
	return &LoginResponse{Token: token, UserInfo: user}, nil
}

// Logout invalidates the user's token on a platform
func (s *AuthService) Logout(ctx context.Context, userId int64, platformId int, token string) error {
	if err := s.tokenStore.InvalidateToken(ctx, userId, platformId, token); err != nil {
		log.CtxError(ctx, "invalidate token failed: %v", err)
		return errcode.ErrInternalServer
	}
	log.CtxInfo(ctx, "user logged out: user_id=%d platform=%d", userId, platformId)
	return nil
}

// ValidateToken parses the token and checks it against the token store
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := jwt.ParseToken(token, s.cfg.JWT.Secret)
	if err != nil {
		return nil, errcode.ErrTokenInvalid
	}

	valid, err := s.tokenStore.IsTokenValid(ctx, claims.UserId, claims.PlatformId, token)
	if err != nil {
		log.CtxError(ctx, "check token failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if !valid {
		return nil, errcode.ErrTokenExpired
	}
	return claims, nil
}
