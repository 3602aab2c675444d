package user

import (
	"context"

	"booktrend/internal/logging"
)

type Service struct {
	resolver *Resolver
}

func NewService(repo Repository) *Service {
	return &Service{resolver: NewResolver(DefaultLookups(repo)...)}
}

// Current resolves the authenticated subject to a local account. The
// subject comes from the caller's token and is passed in explicitly.
func (s *Service) Current(ctx context.Context, subject string) (User, error) {
	u, via, err := s.resolver.Resolve(ctx, subject)
	if err != nil {
		return User{}, err
	}
	logging.Debug().Str("user_id", u.ID).Str("via", via).Msg("resolved caller identity")
	return u, nil
}
