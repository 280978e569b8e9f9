package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taskboard/internal/app"
	"taskboard/internal/service"
)

// ErrUserNotFound is returned when no user matches a reference.
var ErrUserNotFound = errors.New("user not found")

// ErrAmbiguousUser is returned when several users match a reference.
var ErrAmbiguousUser = errors.New("ambiguous user")

// resolveUserID turns a user reference into an ID. A numeric reference is
// taken as the ID; anything else must match exactly one username,
// ignoring case.
func resolveUserID(ctx context.Context, a *app.App, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if isAllDigits(ref) {
		return atoi(ref), nil
	}

	users, err := a.API.SearchUsers(ctx, ref)
	if err != nil {
		return 0, fmt.Errorf("searching users: %w", err)
	}

	var matches []service.User
	for _, u := range users {
		if strings.EqualFold(u.Username, ref) {
			matches = append(matches, u)
		}
	}
	switch len(matches) {
	case 0:
		return 0, fmt.Errorf("%w: %s", ErrUserNotFound, ref)
	case 1:
		return matches[0].ID, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrAmbiguousUser, ref)
	}
}
