package users

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mynaturejourney/journey/pkg/api"
	"github.com/mynaturejourney/journey/pkg/session"
)

type User = session.User

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateRequest changes name and/or email; empty fields are not sent.
type UpdateRequest struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func decodeUsers(raw json.RawMessage) ([]User, error) {
	var out []User
	if err := api.DecodeMaybeEnveloped(raw, &out); err == nil {
		return out, nil
	}
	var named struct {
		Users []User `json:"users"`
	}
	if err := json.Unmarshal(raw, &named); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return named.Users, nil
}

func decodeUser(raw json.RawMessage) (User, error) {
	var u User
	if err := api.DecodeMaybeEnveloped(raw, &u); err != nil {
		return User{}, fmt.Errorf("failed to decode user: %w", err)
	}
	return u, nil
}

func List(ctx context.Context, c *api.Client) ([]User, error) {
	var raw json.RawMessage
	if err := c.Get(ctx, "/users", nil, &raw); err != nil {
		return nil, err
	}
	return decodeUsers(raw)
}

func Get(ctx context.Context, c *api.Client, id int) (User, error) {
	var raw json.RawMessage
	if err := c.Get(ctx, fmt.Sprintf("/users/%d", id), nil, &raw); err != nil {
		return User{}, err
	}
	return decodeUser(raw)
}

func Signup(ctx context.Context, c *api.Client, req SignupRequest) (User, error) {
	var raw json.RawMessage
	if err := c.Post(ctx, "/users", req, &raw); err != nil {
		return User{}, err
	}
	return decodeUser(raw)
}

func Update(ctx context.Context, c *api.Client, id int, req UpdateRequest) (User, error) {
	var raw json.RawMessage
	if err := c.Put(ctx, fmt.Sprintf("/users/%d", id), req, &raw); err != nil {
		return User{}, err
	}
	return decodeUser(raw)
}

func Delete(ctx context.Context, c *api.Client, id int) error {
	return c.Delete(ctx, fmt.Sprintf("/users/%d", id), nil)
}
