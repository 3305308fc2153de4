package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/mindcare/mindcare-api/internal/config"
	"github.com/mindcare/mindcare-api/internal/models"
	"github.com/mindcare/mindcare-api/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Claims are the JWT claims carried by a bearer token.
type Claims struct {
	UserID uint64 `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Token verification failure classes.
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// SignToken issues an HS256 bearer token for the user.
func SignToken(cfg *config.Config, userID uint64, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(cfg.JWTExpireHours) * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// VerifyToken parses and validates a bearer token, distinguishing expiry
// from every other failure.
func VerifyToken(cfg *config.Config, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// RegisterRequest carries the registration payload.
type RegisterRequest struct {
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Password          string `json:"password"`
	FullName          string `json:"fullName"`
	DateOfBirth       string `json:"dateOfBirth"`
	Gender            string `json:"gender"`
	DisabilityStatus  string `json:"disabilityStatus"`
	DisabilityDetails string `json:"disabilityDetails"`
	State             string `json:"state"`
	District          string `json:"district"`
}

// AuthResult carries a signed token plus the user row it was issued for.
type AuthResult struct {
	Token string
	User  *models.User
}

// RegisterUser creates an account. Email/phone uniqueness is pre-checked
// here; the unique indexes on users are the authoritative backstop.
func RegisterUser(db *gorm.DB, cfg *config.Config, req *RegisterRequest) (*AuthResult, error) {
	if req.Email == "" || req.Phone == "" || req.Password == "" || req.FullName == "" {
		return nil, &types.CustomError{
			Code:    fiber.StatusBadRequest,
			Message: "Please provide all required fields: email, phone, password, fullName",
			Type:    "auth.register.validation",
		}
	}

	var count int64
	if err := db.Model(&models.User{}).
		Where("email = ? OR phone = ?", req.Email, req.Phone).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if count > 0 {
		return nil, &types.CustomError{
			Code:    fiber.StatusBadRequest,
			Message: "User with this email or phone already exists",
			Type:    "auth.register.duplicate",
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	disabilityStatus := req.DisabilityStatus
	if disabilityStatus == "" {
		disabilityStatus = "None"
	}

	user := models.User{
		Email:             req.Email,
		Phone:             req.Phone,
		PasswordHash:      string(hash),
		FullName:          req.FullName,
		DateOfBirth:       req.DateOfBirth,
		Gender:            req.Gender,
		DisabilityStatus:  disabilityStatus,
		DisabilityDetails: req.DisabilityDetails,
		State:             req.State,
		District:          req.District,
		AccountStatus:     models.AccountActive,
	}
	if err := db.Create(&user).Error; err != nil {
		// Unique index violation from a concurrent registration.
		if isDuplicateKeyError(err) {
			return nil, &types.CustomError{
				Code:    fiber.StatusBadRequest,
				Message: "User with this email or phone already exists",
				Type:    "auth.register.duplicate",
			}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	details, _ := json.Marshal(map[string]interface{}{
		"email":        user.Email,
		"registeredAt": time.Now().UTC().Format(time.RFC3339),
	})
	logEntry := models.ActivityLog{
		UserID:          user.UserID,
		ActivityType:    "registration",
		ActivityDetails: details,
	}
	if err := db.Create(&logEntry).Error; err != nil {
		return nil, fmt.Errorf("log registration activity: %w", err)
	}

	token, err := SignToken(cfg, user.UserID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &AuthResult{Token: token, User: &user}, nil
}

// LoginUser authenticates by email and password, refusing suspended accounts
// and stamping last login on success.
func LoginUser(db *gorm.DB, cfg *config.Config, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, &types.CustomError{
			Code:    fiber.StatusBadRequest,
			Message: "Please provide email and password",
			Type:    "auth.login.validation",
		}
	}

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, invalidCredentialsError()
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user.AccountStatus != models.AccountActive {
		return nil, &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: "Account is suspended. Please contact support.",
			Type:    "auth.login.suspended",
		}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, invalidCredentialsError()
	}

	now := time.Now()
	if err := db.Model(&user).Update("last_login", now).Error; err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}
	user.LastLogin = &now

	token, err := SignToken(cfg, user.UserID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &AuthResult{Token: token, User: &user}, nil
}

// GetProfile returns the full user row by id.
func GetProfile(db *gorm.DB, userID uint64) (*models.User, error) {
	var user models.User
	if err := db.Where("user_id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func invalidCredentialsError() *types.CustomError {
	return &types.CustomError{
		Code:    fiber.StatusUnauthorized,
		Message: "Invalid email or password",
		Type:    "auth.login.credentials",
	}
}

// isDuplicateKeyError matches unique constraint violations across the
// supported drivers without importing each one.
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint")
}
