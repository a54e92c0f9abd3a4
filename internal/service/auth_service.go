package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"

	"github.com/MaiNhanKiet/look-up-convocation2025/internal/dto"
	"github.com/MaiNhanKiet/look-up-convocation2025/internal/models"
	appErrors "github.com/MaiNhanKiet/look-up-convocation2025/pkg/errors"
	"github.com/MaiNhanKiet/look-up-convocation2025/pkg/identity"
)

const msgUserNotFound = "Không tìm thấy người dùng"

type authUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthConfig defines configuration for session tokens.
type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
}

// AuthService exchanges Google ID tokens for session tokens.
type AuthService struct {
	repo     authUserRepository
	verifier identity.Verifier
	logger   *zap.Logger
	config   AuthConfig
	now      func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, verifier identity.Verifier, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 24 * time.Hour
	}
	return &AuthService{repo: repo, verifier: verifier, logger: logger, config: config, now: func() time.Time { return time.Now().UTC() }}
}

// GoogleLogin verifies the Google ID token, resolves the provisioned identity
// and issues a signed session token.
func (s *AuthService) GoogleLogin(ctx context.Context, req dto.GoogleLoginRequest) (*dto.GoogleLoginResponse, error) {
	subject, err := s.verifier.Verify(ctx, req.GoogleToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByEmail(ctx, subject.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, msgUserNotFound)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Name, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	token, _, err := s.generateAccessToken(user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Name, appErrors.ErrInternal.Status, "failed to create access token")
	}

	s.logger.Info("google login", zap.String("email", user.Email), zap.String("role", string(user.EffectiveRole())), zap.String("ip", req.IP))
	return &dto.GoogleLoginResponse{Email: user.Email, Token: token}, nil
}

// ValidateToken parses and validates a session token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}
	token, err := jwt.ParseWithClaims(strings.TrimSpace(tokenString), &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	}, opts...)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Name, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, time.Time, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.config.AccessTokenExpiry)
	claims := &models.JWTClaims{
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.EffectiveRole(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   user.Email,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.AccessTokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
