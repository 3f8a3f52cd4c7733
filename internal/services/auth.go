package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/neurofocus-backend/internal/data/repos"
	types "github.com/yungbote/neurofocus-backend/internal/domain"
	"github.com/yungbote/neurofocus-backend/internal/platform/apierr"
	"github.com/yungbote/neurofocus-backend/internal/platform/ctxutil"
	"github.com/yungbote/neurofocus-backend/internal/platform/dbctx"
	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
)

const minPasswordLen = 6

var (
	ErrMissingFields      = apierr.BadRequest("invalid_request", errors.New("Missing required fields"))
	ErrInvalidEmail       = apierr.BadRequest("invalid_request", errors.New("Invalid email address"))
	ErrPasswordTooShort   = apierr.BadRequest("invalid_request", fmt.Errorf("Password must be at least %d characters long", minPasswordLen))
	ErrUserExists         = apierr.New(http.StatusConflict, "user_exists", errors.New("User already exists"))
	ErrInvalidCredentials = apierr.Unauthorized("invalid_credentials", errors.New("Invalid credentials"))
	ErrInvalidToken       = apierr.Unauthorized("unauthorized", errors.New("invalid or expired token"))
)

type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*types.User, error)
	// Login verifies credentials and returns a signed token carrying the user id.
	Login(ctx context.Context, email, password string) (*types.User, string, error)
	Me(ctx context.Context) (*types.User, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	TokenTTL() time.Duration
}

type authService struct {
	log          *logger.Logger
	userRepo     repos.UserRepo
	jwtSecretKey []byte
	tokenTTL     time.Duration
	now          func() time.Time
}

func NewAuthService(log *logger.Logger, userRepo repos.UserRepo, jwtSecretKey string, tokenTTL time.Duration) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 7 * 24 * time.Hour
	}
	return &authService{
		log:          log.With("service", "AuthService"),
		userRepo:     userRepo,
		jwtSecretKey: []byte(jwtSecretKey),
		tokenTTL:     tokenTTL,
		now:          time.Now,
	}
}

type focusClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

func (as *authService) TokenTTL() time.Duration { return as.tokenTTL }

func (as *authService) Register(ctx context.Context, email, password, name string) (*types.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || password == "" || name == "" {
		return nil, ErrMissingFields
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return nil, ErrPasswordTooShort
	}

	dbc := dbctx.Context{Ctx: ctx}
	exists, err := as.userRepo.EmailExists(dbc, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := as.now().UTC()
	user := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  string(hash),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := as.userRepo.Create(dbc, user); err != nil {
		if errors.Is(err, types.ErrConflict) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	as.log.Info("Registered user", "user_id", user.ID)
	return user, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*types.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", ErrMissingFields
	}
	user, err := as.userRepo.GetByEmail(dbctx.Context{Ctx: ctx}, email)
	if err != nil {
		return nil, "", fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := as.signToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (as *authService) Me(ctx context.Context) (*types.User, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	user, err := as.userRepo.GetByID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, apierr.NotFound("user_not_found", errors.New("user not found"))
	}
	return user, nil
}

func (as *authService) signToken(userID uuid.UUID) (string, error) {
	now := as.now()
	claims := focusClaims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.tokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.jwtSecretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	var claims focusClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return as.jwtSecretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(as.now))
	if err != nil || !token.Valid {
		return ctx, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil || userID == uuid.Nil {
		return ctx, ErrInvalidToken
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: userID}), nil
}
