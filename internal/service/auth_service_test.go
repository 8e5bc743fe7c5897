package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echomind/echomind_server/config"
	"github.com/echomind/echomind_server/internal/model/dto"
	"github.com/echomind/echomind_server/internal/pkg/jwt"
	"github.com/echomind/echomind_server/internal/repository"
	"github.com/echomind/echomind_server/internal/testutil"
)

func authTestConfig(mode string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Mode: mode},
		JWT:    config.JWTConfig{Secret: "test-secret", ExpireHours: 24},
	}
}

func setupAuthService(t *testing.T, mode string) (*AuthService, *repository.UserRepository) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	service := NewAuthService(userRepo, authTestConfig(mode), nil)

	t.Cleanup(func() {
		testutil.CleanupTestDB(t, db)
	})

	return service, userRepo
}

func TestAuthService_Register(t *testing.T) {
	service, userRepo := setupAuthService(t, "release")

	resp, err := service.Register(&dto.RegisterRequest{
		Username: "newuser",
		Email:    "new@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotZero(t, resp.UserID)

	user, err := userRepo.GetByID(resp.UserID)
	require.NoError(t, err)
	assert.Equal(t, "newuser", user.Username)
	assert.Equal(t, "user", user.Role)
	assert.False(t, user.EmailVerified)
	require.NotNil(t, user.VerificationCode)
	require.NotNil(t, user.PasswordHash)
	// 密码不落明文
	assert.NotEqual(t, "password123", *user.PasswordHash)
}

func TestAuthService_Register_DebugAutoVerifies(t *testing.T) {
	service, userRepo := setupAuthService(t, "debug")

	resp, err := service.Register(&dto.RegisterRequest{
		Username: "devuser",
		Email:    "dev@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	user, err := userRepo.GetByID(resp.UserID)
	require.NoError(t, err)
	assert.True(t, user.EmailVerified)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	service, _ := setupAuthService(t, "release")

	_, err := service.Register(&dto.RegisterRequest{
		Username: "first",
		Email:    "dup@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = service.Register(&dto.RegisterRequest{
		Username: "second",
		Email:    "dup@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	service, _ := setupAuthService(t, "release")

	_, err := service.Register(&dto.RegisterRequest{
		Username: "sameuser",
		Email:    "a@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = service.Register(&dto.RegisterRequest{
		Username: "sameuser",
		Email:    "b@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestAuthService_Login(t *testing.T) {
	service, _ := setupAuthService(t, "debug")

	_, err := service.Register(&dto.RegisterRequest{
		Username: "loginuser",
		Email:    "login@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	resp, err := service.Login(&dto.LoginRequest{
		Email:    "login@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "loginuser", resp.User.Username)

	claims, err := jwt.ParseToken(resp.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	service, _ := setupAuthService(t, "debug")

	_, err := service.Register(&dto.RegisterRequest{
		Username: "wrongpw",
		Email:    "wrongpw@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = service.Login(&dto.LoginRequest{
		Email:    "wrongpw@example.com",
		Password: "not-the-password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	service, _ := setupAuthService(t, "debug")

	_, err := service.Login(&dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnverifiedEmailInRelease(t *testing.T) {
	service, _ := setupAuthService(t, "release")

	_, err := service.Register(&dto.RegisterRequest{
		Username: "unverified",
		Email:    "unverified@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = service.Login(&dto.LoginRequest{
		Email:    "unverified@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrEmailNotVerified)
}

func TestAuthService_VerifyEmail(t *testing.T) {
	service, userRepo := setupAuthService(t, "release")

	resp, err := service.Register(&dto.RegisterRequest{
		Username: "verifyme",
		Email:    "verifyme@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	user, err := userRepo.GetByID(resp.UserID)
	require.NoError(t, err)
	require.NotNil(t, user.VerificationCode)

	loginResp, err := service.VerifyEmail(*user.VerificationCode)
	require.NoError(t, err)
	assert.NotEmpty(t, loginResp.Token)
	assert.True(t, loginResp.User.EmailVerified)

	// 验证码一次性使用
	updated, err := userRepo.GetByID(resp.UserID)
	require.NoError(t, err)
	assert.Nil(t, updated.VerificationCode)
}

func TestAuthService_VerifyEmail_InvalidCode(t *testing.T) {
	service, _ := setupAuthService(t, "release")

	_, err := service.VerifyEmail("deadbeef")
	assert.ErrorIs(t, err, ErrInvalidVerifyCode)
}

func TestAuthService_VerifyEmail_ExpiredCode(t *testing.T) {
	service, userRepo := setupAuthService(t, "release")

	resp, err := service.Register(&dto.RegisterRequest{
		Username: "expired",
		Email:    "expired@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	user, err := userRepo.GetByID(resp.UserID)
	require.NoError(t, err)
	require.NotNil(t, user.VerificationCode)

	// 回拨过期时间
	expired := time.Now().Add(-time.Hour)
	require.NoError(t, userRepo.UpdateFields(user.ID, map[string]interface{}{
		"verification_expires_at": expired,
	}))

	_, err = service.VerifyEmail(*user.VerificationCode)
	assert.ErrorIs(t, err, ErrInvalidVerifyCode)
}
