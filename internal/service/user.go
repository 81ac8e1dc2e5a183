package service

import (
	"context"
	"errors"
	"fmt"

	"bulletin/internal/model"
	"bulletin/internal/repository"
	"bulletin/pkg/logger"

	"golang.org/x/crypto/bcrypt"
	"k8s.io/apimachinery/pkg/util/rand"
)

const tokenLength = 32

// UserService 用户服务接口
type UserService interface {
	Create(ctx context.Context, username, email, password string, isStaff bool) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByToken(ctx context.Context, token string) (*model.User, error)
	Login(ctx context.Context, username, password string) (*model.User, error)
}

// userService 用户服务实现
type userService struct {
	userRepo repository.UserRepository
	logger   *logger.Logger
}

// NewUserService 创建用户服务实例
func NewUserService(userRepo repository.UserRepository, logger *logger.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Create 创建用户，密码使用bcrypt保存并生成API Token
func (s *userService) Create(ctx context.Context, username, email, password string, isStaff bool) (*model.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		IsStaff:  isStaff,
		Token:    rand.String(tokenLength),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("创建用户失败", "username", username, "error", err)
		return nil, err
	}
	return user, nil
}

// GetByID 根据ID获取用户
func (s *userService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetByToken 根据Token获取用户
func (s *userService) GetByToken(ctx context.Context, token string) (*model.User, error) {
	return s.userRepo.GetByToken(ctx, token)
}

// Login 校验用户名和密码
func (s *userService) Login(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
