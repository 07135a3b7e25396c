package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"couple-journal-backend/internal/models"
	"couple-journal-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	defaultTokenTTL   = 30 * 24 * time.Hour
	tokenIssuer       = "couple-journal"
)

// Claims is the session token payload
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// UserService handles accounts and sessions
type UserService struct {
	userRepo  repository.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	loc       *time.Location
	now       func() time.Time
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, jwtSecret string, tokenTTL time.Duration, loc *time.Location) *UserService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &UserService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		loc:       loc,
		now:       time.Now,
	}
}

// RegisterRequest is the sign-up payload
type RegisterRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Phone    *string `json:"phone"`
	Birthday *string `json:"birthday"`
}

// LoginRequest is the credentials payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries the profile fields a user may change
type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Birthday *string `json:"birthday"`
	Avatar   *string `json:"avatar"`
}

// Session is returned on successful login
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates an account with a bcrypt password hash.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, validationError("Vui lòng điền đầy đủ họ tên, email và mật khẩu")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, validationError("Email không hợp lệ")
	}
	if len(req.Password) < minPasswordLength {
		return nil, validationError("Mật khẩu phải có ít nhất %d ký tự", minPasswordLength)
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, newError(ErrConflict, "Email đã được sử dụng")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	hashed := string(hash)

	now := s.now()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: &hashed,
		Phone:        optionalText(req.Phone),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if trimmed(req.Birthday) != "" {
		if user.Birthday, err = parseOptionalDate(*req.Birthday, s.loc); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(ErrConflict, "Email đã được sử dụng")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and issues a session token.
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	invalid := newError(ErrUnauthorized, "Email hoặc mật khẩu không đúng")

	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalid
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	// accounts created through OAuth have no password
	if user.PasswordHash == nil {
		return nil, invalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, invalid
	}

	return s.newSession(user)
}

// GenerateJWT signs a session token for a user
func (s *UserService) GenerateJWT(user *models.User) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateJWT validates a session token and returns the user ID
func (s *UserService) ValidateJWT(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}
	if claims.UserID == "" {
		return "", fmt.Errorf("user_id not found in token")
	}
	return claims.UserID, nil
}

// GetUser returns a user by id
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("User not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the supplied profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, validationError("Họ tên không được để trống")
		}
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		user.Phone = optionalText(req.Phone)
	}
	if req.Avatar != nil {
		user.Avatar = optionalText(req.Avatar)
	}
	if req.Birthday != nil {
		if user.Birthday, err = parseOptionalDate(*req.Birthday, s.loc); err != nil {
			return nil, err
		}
	}
	user.UpdatedAt = s.now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// SetPushToken stores the device token used for push notifications. An empty
// token disables pushes for the user.
func (s *UserService) SetPushToken(ctx context.Context, userID, token string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	user.PushToken = optionalText(&token)
	user.UpdatedAt = s.now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update push token: %w", err)
	}
	return nil
}

// UpsertOAuthUser finds the account for a verified identity provider email,
// creating a passwordless one on first login.
func (s *UserService) UpsertOAuthUser(ctx context.Context, email, name, avatar string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, newError(ErrUnauthorized, "Identity provider returned no email")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if strings.TrimSpace(name) == "" {
		name = strings.Split(email, "@")[0]
	}
	now := s.now()
	user = &models.User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      strings.TrimSpace(name),
		Avatar:    optionalText(&avatar),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// a concurrent first login created it
		if errors.Is(err, repository.ErrDuplicate) {
			return s.userRepo.GetByEmail(ctx, email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *UserService) newSession(user *models.User) (*Session, error) {
	token, err := s.GenerateJWT(user)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
