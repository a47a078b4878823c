package demo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vango-dev/weft/pkg/element"
)

// ErrUserNotFound is returned by a Directory for an unknown user id.
var ErrUserNotFound = errors.New("demo: user not found")

// User is shown by Profile.
type User struct {
	ID    int
	Name  string
	Email string
}

// UserLoader fetches a user.
type UserLoader func(ctx context.Context, id int) (User, error)

// Directory returns a UserLoader over a fixed set of users. Each lookup
// takes delay, or fails early if ctx ends first.
func Directory(delay time.Duration, users ...User) UserLoader {
	byID := make(map[int]User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return func(ctx context.Context, id int) (User, error) {
		if delay > 0 {
			t := time.NewTimer(delay)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return User{}, ctx.Err()
			case <-t.C:
			}
		}
		u, ok := byID[id]
		if !ok {
			return User{}, fmt.Errorf("%w: %d", ErrUserNotFound, id)
		}
		return u, nil
	}
}

// Profile renders a user card. The card shows a loading line until load
// returns.
func Profile(id int, load UserLoader) element.Element {
	return element.Async("Profile", func(ctx context.Context, s *element.Scope) (element.Element, error) {
		u, err := load(ctx, s.Prop("id").(int))
		if err != nil {
			return nil, err
		}
		return element.H("article", element.Class("profile"),
			element.H("h2", u.Name),
			element.H("a", element.Href("mailto:"+u.Email), u.Email),
		), nil
	}, element.H("p", element.Class("loading"), "Loading profile..."), element.Props{"id": id})
}
