package service

import (
	"errors"
	"strconv"
	"strings"

	"github.com/ideafund/ideafund-backend/internal/common"
	"github.com/ideafund/ideafund-backend/internal/domain"
	"github.com/ideafund/ideafund-backend/internal/repository"
	"github.com/ideafund/ideafund-backend/pkg/jwt"
	pkglogger "github.com/ideafund/ideafund-backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// bcryptCost is lowered by tests
var bcryptCost = bcrypt.DefaultCost

// AuthService authentication business logic
type AuthService interface {
	SignUp(req *domain.SignUpRequest) (*domain.UserResponse, error)
	SignIn(req *domain.SignInRequest) (*domain.TokenResponse, error)
	Refresh(req *domain.RefreshRequest) (*domain.TokenResponse, error)
	Me(userID uint64) (*domain.UserResponse, error)
}

type authService struct {
	userRepo    repository.UserRepository
	jwtManager  *jwt.Manager
	signupGrant int64
}

// NewAuthService creates a new AuthService. New accounts are credited
// signupGrant coins.
func NewAuthService(userRepo repository.UserRepository, jwtManager *jwt.Manager, signupGrant int64) AuthService {
	return &authService{
		userRepo:    userRepo,
		jwtManager:  jwtManager,
		signupGrant: signupGrant,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates an account with a bcrypt password hash and the starting coins
func (s *authService) SignUp(req *domain.SignUpRequest) (*domain.UserResponse, error) {
	if err := common.Validate(req); err != nil {
		return nil, err
	}
	email := normalizeEmail(req.Email)

	exists, err := s.userRepo.ExistsByEmail(email)
	if err != nil {
		return nil, common.NewPersistence(err)
	}
	if exists {
		return nil, common.NewConflict("auth.duplicate_email", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:    email,
		Password: string(hash),
		Nickname: strings.TrimSpace(req.Nickname),
		Level:    1,
	}
	if err := s.userRepo.CreateWithGrant(user, s.signupGrant); err != nil {
		return nil, common.NewPersistence(err)
	}

	pkglogger.GetLogger().Info().Uint64("user_id", user.ID).Int64("grant", s.signupGrant).Msg("user signed up")
	return user.ToResponse(), nil
}

// SignIn verifies the password and issues a token pair
func (s *authService) SignIn(req *domain.SignInRequest) (*domain.TokenResponse, error) {
	if err := common.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewAuth("auth.login_failed", nil)
		}
		return nil, common.NewPersistence(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, common.NewAuth("auth.login_failed", nil)
	}

	return s.issue(user)
}

// Refresh exchanges a refresh token for a new token pair
func (s *authService) Refresh(req *domain.RefreshRequest) (*domain.TokenResponse, error) {
	if err := common.Validate(req); err != nil {
		return nil, err
	}

	claims, err := s.jwtManager.VerifyToken(req.RefreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, common.NewAuth("auth.token_expired", err)
		}
		return nil, common.NewAuth("auth.token_invalid", err)
	}
	if !claims.Refresh {
		return nil, common.NewAuth("auth.token_invalid", nil)
	}

	userID, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil {
		return nil, common.NewAuth("auth.token_invalid", err)
	}

	// 토큰 발급 이후 탈퇴/레벨 변경을 반영하기 위해 다시 조회
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewAuth("auth.token_invalid", nil)
		}
		return nil, common.NewPersistence(err)
	}
	return s.issue(user)
}

// Me returns the signed-in user's profile
func (s *authService) Me(userID uint64) (*domain.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, repoError(err, "error.not_found")
	}
	return user.ToResponse(), nil
}

func (s *authService) issue(user *domain.User) (*domain.TokenResponse, error) {
	id := strconv.FormatUint(user.ID, 10)

	accessToken, err := s.jwtManager.GenerateAccessToken(id, user.Nickname, user.Level)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(id)
	if err != nil {
		return nil, err
	}

	return &domain.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user.ToResponse(),
	}, nil
}
