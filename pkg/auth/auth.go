package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mynaturejourney/journey/pkg/api"
	"github.com/mynaturejourney/journey/pkg/session"
)

// ErrNoToken is returned when a login response carries no token.
var ErrNoToken = errors.New("login response did not include a token")

type User = session.User

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the data part of a login response.
type LoginResult struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

// Register creates an account. The backend's response body is returned as-is.
func Register(ctx context.Context, c *api.Client, req RegisterRequest) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.Post(ctx, "/auth/register", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func Login(ctx context.Context, c *api.Client, creds Credentials) (LoginResult, error) {
	var env api.DataEnvelope[LoginResult]
	if err := c.Post(ctx, "/auth/login", creds, &env); err != nil {
		return LoginResult{}, err
	}
	return env.Data, nil
}

// CurrentUser returns the account behind the session's token.
func CurrentUser(ctx context.Context, c *api.Client) (*User, error) {
	var raw json.RawMessage
	if err := c.Get(ctx, "/auth/me", nil, &raw); err != nil {
		return nil, err
	}
	var u User
	if err := api.DecodeMaybeEnveloped(raw, &u); err != nil {
		return nil, fmt.Errorf("failed to decode current user: %w", err)
	}
	return &u, nil
}

// SignIn logs in, stores the token, then caches the current user.
// A failed user lookup is reported through warn but does not fail the sign-in.
func SignIn(ctx context.Context, c *api.Client, sess *session.Session, creds Credentials, warn func(error)) (*User, error) {
	res, err := Login(ctx, c, creds)
	if err != nil {
		return nil, err
	}
	if res.Token == "" {
		return nil, ErrNoToken
	}
	if err := sess.SetToken(ctx, res.Token); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}

	u, err := CurrentUser(ctx, c)
	if err != nil {
		if warn != nil {
			warn(fmt.Errorf("failed to fetch user data: %w", err))
		}
		return nil, nil
	}
	if err := sess.SetUser(ctx, *u); err != nil {
		return nil, fmt.Errorf("failed to cache user: %w", err)
	}
	return u, nil
}

// Logout clears the session and broadcasts the invalidation.
func Logout(ctx context.Context, sess *session.Session) error {
	return sess.Clear(ctx)
}
