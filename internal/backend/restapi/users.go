package restapi

import (
	"context"
	"net/http"
	"net/url"

	"taskboard/internal/service"
)

// UsersAPI calls the /users endpoints.
type UsersAPI struct {
	c *Client
}

// NewUsersAPI creates the users resource client.
func NewUsersAPI(c *Client) *UsersAPI {
	return &UsersAPI{c: c}
}

// SearchUsers implements service.Users.
func (u *UsersAPI) SearchUsers(ctx context.Context, query string) ([]service.User, error) {
	var out []service.User
	err := u.c.Send(ctx, Request{
		Method: http.MethodGet,
		Path:   "/users/search",
		Query:  url.Values{"q": {query}},
	}, &out)
	return out, err
}
