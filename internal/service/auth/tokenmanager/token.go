package tokenmanager

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nkiryanov/shop/internal/apperrors"
	"github.com/nkiryanov/shop/internal/models"
	"github.com/nkiryanov/shop/internal/repository"
)

const (
	defaultAccessTokenTTL  = 30 * time.Minute
	defaultRefreshTokenTTL = 30 * 24 * time.Hour
	defaultSigningMethod   = "HS256"

	// Length of random refresh token identifier (jti) in bytes
	refreshIDBytesLen = 16
)

// Reserved claims. Extra claims can't override them
const (
	claimSubject   = "sub"
	claimExpiresAt = "exp"
	claimIssuedAt  = "iat"
	claimScope     = "scope"
	claimID        = "jti"
)

// Token manager with sensible default
type Config struct {
	// Secret key to sign tokens
	// Required to be set
	SecretKey string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set than default is used
	Alg string

	// Access and refresh token lifetimes
	// If not set than default is used
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Verified token claims
type Claims struct {
	Subject   string
	Scope     string
	ID        string
	ExpiresAt time.Time

	// All other claims, like username
	Extra map[string]any
}

// TokenManager signs and verifies tokens and keeps ledger of issued refresh tokens
type TokenManager struct {
	// Secret key to sign tokens
	key []byte

	// JWT MAC (Message Authentication Code) algorithm
	alg jwt.SigningMethod

	// Access and refresh token lifetimes
	accessTTL  time.Duration
	refreshTTL time.Duration

	// Refresh token repo
	refreshRepo repository.RefreshTokenRepo
}

func New(cfg Config, refreshRepo repository.RefreshTokenRepo) (*TokenManager, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}

	// Only symmetric algorithms could be used with the secret key
	alg, ok := jwt.GetSigningMethod(cfg.Alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing method %q", cfg.Alg)
	}

	setDefaultDuration := func(field *time.Duration, def time.Duration) {
		if *field <= 0 {
			*field = def
		}
	}
	setDefaultDuration(&cfg.AccessTTL, defaultAccessTokenTTL)
	setDefaultDuration(&cfg.RefreshTTL, defaultRefreshTokenTTL)

	return &TokenManager{
		key:         []byte(cfg.SecretKey),
		alg:         alg,
		accessTTL:   cfg.AccessTTL,
		refreshTTL:  cfg.RefreshTTL,
		refreshRepo: refreshRepo,
	}, nil
}

func (m *TokenManager) AccessTTL() time.Duration {
	return m.accessTTL
}

func (m *TokenManager) RefreshTTL() time.Duration {
	return m.refreshTTL
}

// Encode builds and signs token
// Refresh tokens get random hex 'jti', access tokens get uuid one
func (m *TokenManager) Encode(subject string, scope string, ttl time.Duration, extra map[string]any) (string, error) {
	now := time.Now()

	claims := make(jwt.MapClaims, len(extra)+5)
	for k, v := range extra {
		claims[k] = v
	}

	jti := uuid.NewString()
	if scope == models.ScopeRefresh {
		b := make([]byte, refreshIDBytesLen)
		if _, err := rand.Read(b); err != nil {
			return "", fmt.Errorf("error while generating token id. Err: %w", err)
		}
		jti = hex.EncodeToString(b)
	}

	claims[claimSubject] = subject
	claims[claimScope] = scope
	claims[claimID] = jti
	claims[claimIssuedAt] = jwt.NewNumericDate(now)
	claims[claimExpiresAt] = jwt.NewNumericDate(now.Add(ttl))

	token, err := jwt.NewWithClaims(m.alg, claims).SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("error while signing token. Err: %w", err)
	}

	return token, nil
}

// Decode verifies signature and expiration
// Scope is not checked here, it's up to caller
func (m *TokenManager) Decode(token string) (Claims, error) {
	var claims Claims
	mapClaims := jwt.MapClaims{}

	_, err := jwt.ParseWithClaims(
		token,
		mapClaims,
		func(t *jwt.Token) (any, error) {
			return m.key, nil
		},
		jwt.WithValidMethods([]string{m.alg.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return claims, fmt.Errorf("%w: %w", apperrors.ErrInvalidToken, err)
	}

	claims.Subject, _ = mapClaims.GetSubject()
	claims.Scope, _ = mapClaims[claimScope].(string)
	claims.ID, _ = mapClaims[claimID].(string)
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	claims.Extra = make(map[string]any)
	for k, v := range mapClaims {
		switch k {
		case claimSubject, claimScope, claimID, claimIssuedAt, claimExpiresAt:
		default:
			claims.Extra[k] = v
		}
	}

	return claims, nil
}

// HashToken returns hex encoded sha256 digest of the token
// Tokens are random or signed strings already, so no salt is needed
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Store saves hash of refresh token, raw token is never persisted
func (m *TokenManager) Store(ctx context.Context, userID int64, raw string, expiresAt time.Time) (int64, error) {
	id, err := m.refreshRepo.Create(ctx, userID, HashToken(raw), expiresAt)
	if err != nil {
		return 0, fmt.Errorf("error while saving refresh token. Err: %w", err)
	}
	return id, nil
}

// FindByHash returns apperrors.ErrRefreshTokenNotFound if token is unknown or revoked
func (m *TokenManager) FindByHash(ctx context.Context, hash string) (models.RefreshToken, error) {
	return m.refreshRepo.GetByHash(ctx, hash)
}

// Revoke deletes token by id
// Returns false if token was deleted already (used, revoked or consumed by concurrent refresh)
func (m *TokenManager) Revoke(ctx context.Context, id int64) (bool, error) {
	return m.refreshRepo.Delete(ctx, id)
}

func (m *TokenManager) RevokeByHash(ctx context.Context, hash string) ([]int64, error) {
	return m.refreshRepo.DeleteByHash(ctx, hash)
}

func (m *TokenManager) RevokeAllForUser(ctx context.Context, userID int64) ([]int64, error) {
	return m.refreshRepo.DeleteByUser(ctx, userID)
}

// PurgeExpired deletes refresh tokens expired before the moment
func (m *TokenManager) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	return m.refreshRepo.DeleteExpired(ctx, before)
}
