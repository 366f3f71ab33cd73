package infrastructure

import (
	"context"

	"meishiClient/internal/modules/gateway/application/port"
)

// AuthHTTPClient implements port.AuthAPI on top of RESTClient.
type AuthHTTPClient struct {
	rest *RESTClient
}

func NewAuthHTTPClient(rest *RESTClient) *AuthHTTPClient {
	return &AuthHTTPClient{rest: rest}
}

func (c *AuthHTTPClient) ObtainTokens(ctx context.Context, username, password string) (string, string, error) {
	var out struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.rest.PostAnonymous(ctx, "/api/token/", body, &out); err != nil {
		return "", "", err
	}
	return out.Access, out.Refresh, nil
}

func (c *AuthHTTPClient) CurrentAccount(ctx context.Context) (*port.Account, error) {
	var account port.Account
	if err := c.rest.Get(ctx, "/api/user/", nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}
