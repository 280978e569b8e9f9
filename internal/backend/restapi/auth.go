package restapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"

	"taskboard/internal/service"
)

// AuthAPI calls the /auth endpoints.
type AuthAPI struct {
	c *Client
}

// NewAuthAPI creates the authentication resource client.
func NewAuthAPI(c *Client) *AuthAPI {
	return &AuthAPI{c: c}
}

// Register implements service.Auth.
func (a *AuthAPI) Register(ctx context.Context, in service.RegisterInput) (service.User, error) {
	var u service.User
	err := a.c.Send(ctx, Request{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Body:   in,
	}, &u)
	return u, err
}

// Login implements service.Auth. Credentials are sent form-encoded, as the
// OAuth2 password flow expects.
func (a *AuthAPI) Login(ctx context.Context, username, password string) (service.Token, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var tok oauth2.Token
	if err := a.c.Send(ctx, Request{
		Method: http.MethodPost,
		Path:   LoginPath,
		Form:   form,
	}, &tok); err != nil {
		return service.Token{}, err
	}
	if tok.AccessToken == "" {
		return service.Token{}, errors.New("login response carries no access token")
	}
	return service.Token{AccessToken: tok.AccessToken, TokenType: tok.Type()}, nil
}

// Me implements service.Auth.
func (a *AuthAPI) Me(ctx context.Context) (service.User, error) {
	var u service.User
	err := a.c.Send(ctx, Request{Method: http.MethodGet, Path: "/auth/me"}, &u)
	return u, err
}
