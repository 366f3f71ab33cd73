// Package bootstrap wires the gateway client, the shared interaction store and the
// feature use cases for both binaries.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"meishiClient/internal/config"
	bookingusecase "meishiClient/internal/modules/booking/application/usecase"
	bookinginfra "meishiClient/internal/modules/booking/infrastructure"
	catalogusecase "meishiClient/internal/modules/catalog/application/usecase"
	cataloginfra "meishiClient/internal/modules/catalog/infrastructure"
	"meishiClient/internal/modules/gateway/application/port"
	gatewayusecase "meishiClient/internal/modules/gateway/application/usecase"
	gateway "meishiClient/internal/modules/gateway/domain"
	gatewayinfra "meishiClient/internal/modules/gateway/infrastructure"
	interactionsusecase "meishiClient/internal/modules/interactions/application/usecase"
	interactionsinfra "meishiClient/internal/modules/interactions/infrastructure"
	"meishiClient/internal/shared/notify"
)

type Services struct {
	Tokens  port.TokenStore
	REST    *gatewayinfra.RESTClient
	Session *gatewayusecase.SessionUseCase
	Store   *interactionsinfra.MemoryStore
	Toggle  *interactionsusecase.ToggleUseCase
	Catalog *catalogusecase.CatalogUseCase
	Wizards *bookingusecase.WizardRegistry
	Board   *bookingusecase.BoardUseCase
	Booking *bookinginfra.BookingHTTPClient

	redis *redis.Client
}

// New builds every service on top of one REST client and one token store.
func New(ctx context.Context, cfg *config.Config, notifier notify.Notifier) (*Services, error) {
	s := &Services{}
	tokens, err := s.openTokenStore(ctx, cfg.Auth)
	if err != nil {
		return nil, err
	}
	role := gateway.ParseRole(cfg.Auth.Role)

	s.Tokens = tokens
	s.REST = gatewayinfra.NewRESTClient(cfg.REST.BaseURL, cfg.REST.Timeout, nil, tokens, role)
	s.Session = gatewayusecase.NewSessionUseCase(gatewayinfra.NewAuthHTTPClient(s.REST), tokens, role)
	s.Store = interactionsinfra.NewMemoryStore()
	s.Toggle = interactionsusecase.NewToggleUseCase(interactionsinfra.NewInteractionHTTPClient(s.REST), s.Store, notifier)
	s.Catalog = catalogusecase.NewCatalogUseCase(cataloginfra.NewCatalogHTTPClient(s.REST), s.Store, notifier)
	s.Booking = bookinginfra.NewBookingHTTPClient(s.REST)
	s.Wizards = bookingusecase.NewWizardRegistry(s.Booking, notifier)
	s.Board = bookingusecase.NewBoardUseCase(s.Booking, notifier)

	slog.Info("services ready", slog.String("baseURL", cfg.REST.BaseURL), slog.String("tokenStore", cfg.Auth.TokenStore), slog.String("role", string(role)))
	return s, nil
}

func (s *Services) openTokenStore(ctx context.Context, cfg config.AuthConfig) (port.TokenStore, error) {
	switch cfg.TokenStore {
	case "memory":
		return gatewayinfra.NewMemoryTokenStore(), nil
	case "redis":
		client, err := gatewayinfra.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("open redis token store: %w", err)
		}
		s.redis = client
		return gatewayinfra.NewRedisTokenStore(client, cfg.RedisKey), nil
	case "file", "":
		return gatewayinfra.NewFileTokenStore(cfg.TokenFile), nil
	default:
		return nil, fmt.Errorf("unsupported token store %q", cfg.TokenStore)
	}
}

// UserID reports the signed-in user's id, or "" without a readable session.
func (s *Services) UserID(ctx context.Context) string {
	status, err := s.Session.Status(ctx)
	if err != nil || status.Access == nil {
		return ""
	}
	return status.Access.UserID
}

func (s *Services) Close() error {
	var errs []error
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}
	return errors.Join(errs...)
}
