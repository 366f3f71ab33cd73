package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"meishiClient/internal/modules/gateway/application/port"
	"meishiClient/internal/modules/gateway/domain"
	"meishiClient/internal/shared/auth"
)

// SessionStatus describes the stored token pair.
type SessionStatus struct {
	Authenticated  bool              `json:"authenticated"`
	Role           domain.Role       `json:"role,omitempty"`
	LoginRoute     string            `json:"loginRoute"`
	Access         *auth.SessionInfo `json:"access,omitempty"`
	RefreshExpires time.Time         `json:"refreshExpires,omitempty"`
}

type SessionUseCase struct {
	api         port.AuthAPI
	tokens      port.TokenStore
	inspector   *auth.Inspector
	defaultRole domain.Role
}

func NewSessionUseCase(api port.AuthAPI, tokens port.TokenStore, defaultRole domain.Role) *SessionUseCase {
	return &SessionUseCase{api: api, tokens: tokens, inspector: auth.NewInspector(), defaultRole: defaultRole}
}

// Login obtains a token pair and verifies the account type matches role.
func (uc *SessionUseCase) Login(ctx context.Context, username, password string, role domain.Role) (*port.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrMissingCredentials
	}
	if role == "" {
		role = uc.defaultRole
	}

	access, refresh, err := uc.api.ObtainTokens(ctx, username, password)
	if err != nil {
		slog.Warn("session login failed", slog.String("username", username), slog.Any("error", err))
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := uc.tokens.Save(ctx, domain.Tokens{Access: access, Refresh: refresh, Role: role}); err != nil {
		return nil, fmt.Errorf("store tokens: %w", err)
	}
	slog.Info("session login succeeded", slog.String("username", username), slog.String("role", string(role)))
	return uc.CheckUserType(ctx, role)
}

// CheckUserType fetches the current account and clears the session when it is not of
// the expected type or cannot be fetched.
func (uc *SessionUseCase) CheckUserType(ctx context.Context, expected domain.Role) (*port.Account, error) {
	account, err := uc.api.CurrentAccount(ctx)
	if err != nil {
		uc.clear(ctx)
		return nil, fmt.Errorf("check user type: %w", err)
	}
	if domain.Role(account.UserType) != expected {
		slog.Warn("session user type mismatch", slog.String("expected", string(expected)), slog.String("actual", account.UserType))
		uc.clear(ctx)
		return nil, domain.ErrRoleMismatch
	}
	return account, nil
}

// Import stores a token pair obtained elsewhere, e.g. by a UI shell.
func (uc *SessionUseCase) Import(ctx context.Context, tokens domain.Tokens) error {
	if !tokens.HasAccess() {
		return auth.ErrMissingToken
	}
	if tokens.Role == "" {
		tokens.Role = uc.defaultRole
	}
	return uc.tokens.Save(ctx, tokens)
}

func (uc *SessionUseCase) Logout(ctx context.Context) error {
	return uc.tokens.Clear(ctx)
}

func (uc *SessionUseCase) Status(ctx context.Context) (*SessionStatus, error) {
	tokens, err := uc.tokens.Load(ctx)
	if err != nil {
		return nil, err
	}
	role := tokens.Role
	if role == "" {
		role = uc.defaultRole
	}
	status := &SessionStatus{Role: role, LoginRoute: role.LoginRoute()}
	if !tokens.HasAccess() {
		return status, nil
	}

	info, err := uc.inspector.Inspect(tokens.Access)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return status, nil
		}
		return nil, err
	}
	status.Access = info
	status.Authenticated = !info.Expired
	if refresh, err := uc.inspector.Inspect(tokens.Refresh); err == nil {
		status.RefreshExpires = refresh.ExpiresAt
		// an expired access token still counts while the refresh token can renew it
		status.Authenticated = status.Authenticated || !refresh.Expired
	}
	return status, nil
}

func (uc *SessionUseCase) clear(ctx context.Context) {
	if err := uc.tokens.Clear(ctx); err != nil {
		slog.Error("session token clear failed", slog.Any("error", err))
	}
}
