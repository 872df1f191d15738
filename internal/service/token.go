package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/Payphone-Digital/contacts-api/internal/constants"
	apperrors "github.com/Payphone-Digital/contacts-api/internal/errors"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type TokenScope string

const (
	ScopeAccessToken  TokenScope = "access_token"
	ScopeRefreshToken TokenScope = "refresh_token"
)

// TokenClaims is the payload of every token the service issues. The subject
// is the user's email. Email confirmation tokens carry no scope.
type TokenClaims struct {
	Scope TokenScope `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

type TokenConfig struct {
	Secret     string
	Algorithm  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	EmailTTL   time.Duration
}

// TokenService hashes passwords and issues and decodes JWTs.
type TokenService struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
	emailTTL   time.Duration
	bcryptCost int
	now        func() time.Time
}

func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	method := jwt.GetSigningMethod(cfg.Algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}
	if cfg.Secret == "" {
		return nil, fmt.Errorf("token secret must not be empty")
	}

	s := &TokenService{
		secret:     []byte(cfg.Secret),
		method:     method,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		emailTTL:   cfg.EmailTTL,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
	if s.accessTTL <= 0 {
		s.accessTTL = constants.AccessTokenExpiry
	}
	if s.refreshTTL <= 0 {
		s.refreshTTL = constants.RefreshTokenExpiry
	}
	if s.emailTTL <= 0 {
		s.emailTTL = constants.EmailTokenExpiry
	}
	return s, nil
}

func (s *TokenService) HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (s *TokenService) VerifyPassword(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// CreateAccessToken issues an access token for email. A zero ttl uses the
// configured default.
func (s *TokenService) CreateAccessToken(email string, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = s.accessTTL
	}
	return s.sign(email, ScopeAccessToken, ttl)
}

// CreateRefreshToken issues a refresh token for email. A zero ttl uses the
// configured default.
func (s *TokenService) CreateRefreshToken(email string, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = s.refreshTTL
	}
	return s.sign(email, ScopeRefreshToken, ttl)
}

func (s *TokenService) CreateEmailToken(email string) (string, error) {
	return s.sign(email, "", s.emailTTL)
}

// DecodeAccessToken returns the subject of a valid access token.
func (s *TokenService) DecodeAccessToken(token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrCouldNotValidate, err)
	}
	if claims.Scope != ScopeAccessToken || claims.Subject == "" {
		return "", apperrors.ErrCouldNotValidate
	}
	return claims.Subject, nil
}

// DecodeRefreshToken returns the subject of a valid refresh token.
func (s *TokenService) DecodeRefreshToken(token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrCouldNotValidate, err)
	}
	if claims.Scope != ScopeRefreshToken {
		return "", apperrors.ErrInvalidScope
	}
	if claims.Subject == "" {
		return "", apperrors.ErrCouldNotValidate
	}
	return claims.Subject, nil
}

// GetEmailFromToken returns the subject of an email confirmation token.
// Session tokens are refused.
func (s *TokenService) GetEmailFromToken(token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrInvalidEmailToken, err)
	}
	if claims.Scope != "" || claims.Subject == "" {
		return "", apperrors.ErrInvalidEmailToken
	}
	return claims.Subject, nil
}

func (s *TokenService) sign(email string, scope TokenScope, ttl time.Duration) (string, error) {
	now := s.now()
	claims := TokenClaims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) parse(token string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// tokenDigest is the stored form of a refresh token.
func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
