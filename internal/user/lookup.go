package user

import (
	"context"
	"errors"
)

// Lookup finds a user by one kind of external identity. It returns
// ErrNotFound when that identity is unknown.
type Lookup struct {
	Name string
	Find func(ctx context.Context, subject string) (User, error)
}

// Resolver tries its lookups in order and returns the first match.
type Resolver struct {
	lookups []Lookup
}

func NewResolver(lookups ...Lookup) *Resolver {
	return &Resolver{lookups: lookups}
}

// DefaultLookups is login id, then Kakao id, then Apple id.
func DefaultLookups(repo Repository) []Lookup {
	return []Lookup{
		{Name: "login_id", Find: repo.FindByLoginID},
		{Name: "kakao_id", Find: repo.FindByKakaoID},
		{Name: "apple_id", Find: repo.FindByAppleID},
	}
}

// Resolve returns the first user any lookup finds for subject. A lookup
// failing with anything other than ErrNotFound stops the search.
func (r *Resolver) Resolve(ctx context.Context, subject string) (User, string, error) {
	if subject == "" {
		return User{}, "", ErrNotFound
	}
	for _, l := range r.lookups {
		u, err := l.Find(ctx, subject)
		switch {
		case err == nil:
			return u, l.Name, nil
		case errors.Is(err, ErrNotFound):
			continue
		default:
			return User{}, l.Name, err
		}
	}
	return User{}, "", ErrNotFound
}
