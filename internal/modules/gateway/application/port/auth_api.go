package port

import (
	"context"
)

// Account is the subset of /api/user/ the client relies on.
type Account struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	UserType  string `json:"user_type"`
}

type AuthAPI interface {
	ObtainTokens(ctx context.Context, username, password string) (access, refresh string, err error)
	CurrentAccount(ctx context.Context) (*Account, error)
}
