package services_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/mindcare/mindcare-api/internal/config"
	"github.com/mindcare/mindcare-api/internal/models"
	"github.com/mindcare/mindcare-api/internal/services"
	"github.com/mindcare/mindcare-api/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:      "test-secret",
		JWTExpireHours: 1,
	}
}

func validRegistration() *services.RegisterRequest {
	return &services.RegisterRequest{
		Email:    "asha@example.com",
		Phone:    "+911234567890",
		Password: "s3cret-pass",
		FullName: "Asha Kumar",
		State:    "Kerala",
	}
}

func TestRegisterUser(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()

	result, err := services.RegisterUser(db, cfg, validRegistration())
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.NotZero(t, result.User.UserID)
	assert.Equal(t, "None", result.User.DisabilityStatus)
	assert.Equal(t, models.AccountActive, result.User.AccountStatus)
	assert.NotEqual(t, "s3cret-pass", result.User.PasswordHash)

	// Registration is logged.
	var logCount int64
	db.Model(&models.ActivityLog{}).Where("user_id = ? AND activity_type = ?", result.User.UserID, "registration").Count(&logCount)
	assert.Equal(t, int64(1), logCount)
}

func TestRegisterUserMissingFields(t *testing.T) {
	db := setupTestDB(t)
	req := validRegistration()
	req.Password = ""

	_, err := services.RegisterUser(db, testConfig(), req)
	var ce *types.CustomError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, fiber.StatusBadRequest, ce.Code)
}

func TestRegisterUserDuplicate(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()

	_, err := services.RegisterUser(db, cfg, validRegistration())
	require.NoError(t, err)

	// Same phone, different email still collides.
	dup := validRegistration()
	dup.Email = "other@example.com"
	_, err = services.RegisterUser(db, cfg, dup)
	var ce *types.CustomError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, fiber.StatusBadRequest, ce.Code)
	assert.Equal(t, "User with this email or phone already exists", ce.Message)
}

func TestLoginUser(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	_, err := services.RegisterUser(db, cfg, validRegistration())
	require.NoError(t, err)

	result, err := services.LoginUser(db, cfg, "asha@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	require.NotNil(t, result.User.LastLogin)

	claims, err := services.VerifyToken(cfg, result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.UserID, claims.UserID)
	assert.Equal(t, "asha@example.com", claims.Email)
}

func TestLoginUserBadCredentials(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	_, err := services.RegisterUser(db, cfg, validRegistration())
	require.NoError(t, err)

	for _, attempt := range []struct{ email, password string }{
		{"asha@example.com", "wrong-pass"},
		{"nobody@example.com", "s3cret-pass"},
	} {
		_, err := services.LoginUser(db, cfg, attempt.email, attempt.password)
		var ce *types.CustomError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, fiber.StatusUnauthorized, ce.Code)
		assert.Equal(t, "Invalid email or password", ce.Message)
	}
}

func TestLoginUserSuspended(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	result, err := services.RegisterUser(db, cfg, validRegistration())
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.User{}).
		Where("user_id = ?", result.User.UserID).
		Update("account_status", models.AccountSuspended).Error)

	_, err = services.LoginUser(db, cfg, "asha@example.com", "s3cret-pass")
	var ce *types.CustomError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, fiber.StatusForbidden, ce.Code)
}

func TestVerifyTokenExpired(t *testing.T) {
	cfg := testConfig()
	cfg.JWTExpireHours = -1

	token, err := services.SignToken(cfg, 1, "asha@example.com")
	require.NoError(t, err)

	_, err = services.VerifyToken(cfg, token)
	assert.ErrorIs(t, err, services.ErrTokenExpired)
}

func TestVerifyTokenGarbage(t *testing.T) {
	_, err := services.VerifyToken(testConfig(), "not.a.token")
	assert.ErrorIs(t, err, services.ErrTokenInvalid)
}

func TestGetProfileNotFound(t *testing.T) {
	db := setupTestDB(t)
	_, err := services.GetProfile(db, 999)
	require.Error(t, err)
	assert.Equal(t, "not found", err.Error())
}
