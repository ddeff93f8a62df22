package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	PurposeReset = "reset"

	resetTokenTTL = 15 * time.Minute
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongRole    = errors.New("token role not allowed")
)

type Claims struct {
	Role        string `json:"role,omitempty"`
	Purpose     string `json:"purpose,omitempty"`
	Fingerprint string `json:"pwd,omitempty"`
	jwt.RegisteredClaims
}

// MatchesPassword reports whether a reset token was issued against hash.
// Changing the password invalidates every outstanding reset token.
func (c *Claims) MatchesPassword(hash string) bool {
	return c.Fingerprint != "" && c.Fingerprint == fingerprint(hash)
}

// Issuer signs and verifies HS256 tokens with one shared secret.
type Issuer struct {
	secret   []byte
	userTTL  time.Duration
	adminTTL time.Duration
}

func NewIssuer(secret string, userTTL, adminTTL time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), userTTL: userTTL, adminTTL: adminTTL}
}

func (i *Issuer) IssueUser(userID string) (string, error) {
	return i.sign(Claims{Role: RoleUser}, userID, i.userTTL)
}

func (i *Issuer) IssueAdmin(email string) (string, error) {
	return i.sign(Claims{Role: RoleAdmin}, email, i.adminTTL)
}

func (i *Issuer) IssueReset(email, passwordHash string) (string, error) {
	return i.sign(Claims{Purpose: PurposeReset, Fingerprint: fingerprint(passwordHash)}, email, resetTokenTTL)
}

func (i *Issuer) sign(claims Claims, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature and expiry of tokenString and returns its claims.
// Any failure is reported as ErrInvalidToken.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}

// ParseRole parses tokenString and requires the given role.
func (i *Issuer) ParseRole(tokenString, role string) (*Claims, error) {
	claims, err := i.Parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Role != role {
		return nil, ErrWrongRole
	}
	return claims, nil
}

func (i *Issuer) ParseReset(tokenString string) (*Claims, error) {
	claims, err := i.Parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != PurposeReset {
		return nil, ErrWrongRole
	}
	return claims, nil
}

func fingerprint(hash string) string {
	sum := sha256.Sum256([]byte(hash))
	return hex.EncodeToString(sum[:8])
}
