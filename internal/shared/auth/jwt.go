package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims mirrors the payload of the backend's access and refresh tokens.
type Claims struct {
	TokenType string `json:"token_type"`
	UserID    any    `json:"user_id"`
	jwt.RegisteredClaims
}

// SessionInfo is the readable summary of a token pair used for session status.
type SessionInfo struct {
	UserID    string    `json:"userId"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
	Expired   bool      `json:"expired"`
}

// Inspector reads token claims without verifying the signature. The backend is the
// only party holding the signing key, so the client only uses claims for display and
// for deciding when a refresh is due.
type Inspector struct {
	parser *jwt.Parser
	now    func() time.Time
	leeway time.Duration
}

func NewInspector() *Inspector {
	return &Inspector{parser: jwt.NewParser(), now: time.Now, leeway: 5 * time.Second}
}

func (i *Inspector) Parse(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}
	claims := &Claims{}
	if _, _, err := i.parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// Inspect summarizes token. Expired tokens still return a SessionInfo.
func (i *Inspector) Inspect(token string) (*SessionInfo, error) {
	claims, err := i.Parse(token)
	if err != nil {
		return nil, err
	}
	info := &SessionInfo{
		UserID:    userIDString(claims),
		TokenType: claims.TokenType,
	}
	if exp := claims.ExpiresAt; exp != nil {
		info.ExpiresAt = exp.Time.UTC()
		info.Expired = !exp.Time.Add(i.leeway).After(i.now())
	}
	return info, nil
}

func userIDString(claims *Claims) string {
	switch typed := claims.UserID.(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		return fmt.Sprintf("%d", int64(typed))
	case nil:
		return strings.TrimSpace(claims.Subject)
	default:
		return fmt.Sprint(typed)
	}
}
