// Package credits reads and administers user drink balances held in the
// identity directory.
package credits

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vendstack/barkeep/internal/auth"
	"github.com/vendstack/barkeep/internal/domain"
)

type directory interface {
	GetUser(ctx context.Context, uid string) (*domain.DirectoryUser, error)
	GetUserByIButton(ctx context.Context, value string) (*domain.DirectoryUser, error)
	SearchUsers(ctx context.Context, query string) ([]domain.DirectoryUser, error)
	ModifyUser(ctx context.Context, change domain.UserChangeSet) error
}

// Service provides balance lookups and administrative balance updates.
type Service struct {
	dir        directory
	adminGroup string
	log        *slog.Logger
}

// New creates the credits service. adminGroup is the directory group that
// may set other users' balances.
func New(dir directory, adminGroup string, logger *slog.Logger) *Service {
	return &Service{
		dir:        dir,
		adminGroup: adminGroup,
		log:        logger.With("service", "credits"),
	}
}

// GetByUID returns the user record for a username. Unknown users map to
// domain.ErrNotFound.
func (s *Service) GetByUID(ctx context.Context, uid string) (*domain.DirectoryUser, error) {
	if uid == "" {
		return nil, domain.NewMissingParamsError("uid")
	}

	user, err := s.dir.GetUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("fetch user '%s': %w", uid, err)
	}
	if user == nil {
		return nil, fmt.Errorf("uid '%s': %w", uid, domain.ErrNotFound)
	}
	return user, nil
}

// GetByIButton returns the user owning a physical token value. Kiosk-style
// clients identify users by token instead of username.
func (s *Service) GetByIButton(ctx context.Context, value string) (*domain.DirectoryUser, error) {
	if value == "" {
		return nil, domain.NewMissingParamsError("ibutton")
	}

	user, err := s.dir.GetUserByIButton(ctx, value)
	if err != nil {
		return nil, fmt.Errorf("fetch user by ibutton: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("ibutton: %w", domain.ErrNotFound)
	}
	return user, nil
}

// Search returns users whose uid or cn matches the query substring.
func (s *Service) Search(ctx context.Context, query string) ([]domain.DirectoryUser, error) {
	if query == "" {
		return nil, domain.NewMissingParamsError("query")
	}

	users, err := s.dir.SearchUsers(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return users, nil
}

// SetBalance sets a user's balance to an explicit value. Only members of
// the admin group may do this, and only to non-negative values. The update
// is addressed by the DN of the record fetched here, so it cannot land on a
// different account.
func (s *Service) SetBalance(ctx context.Context, caller *auth.Identity, uid string, balance int64) (*domain.DirectoryUser, error) {
	if caller == nil {
		return nil, domain.ErrUnauthorized
	}
	if !caller.HasGroup(s.adminGroup) {
		return nil, fmt.Errorf("user '%s' is not a member of '%s': %w", caller.Username, s.adminGroup, domain.ErrForbidden)
	}
	if uid == "" {
		return nil, domain.NewMissingParamsError("uid")
	}
	if balance < 0 {
		return nil, domain.NewValidationError("balance", "must be non-negative")
	}

	user, err := s.dir.GetUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("fetch user '%s': %w", uid, err)
	}
	if user == nil {
		return nil, fmt.Errorf("uid '%s': %w", uid, domain.ErrNotFound)
	}

	change := domain.UserChangeSet{DN: user.DN, DrinkBalance: &balance}
	if err := s.dir.ModifyUser(ctx, change); err != nil {
		return nil, fmt.Errorf("update balance for '%s': %w", uid, err)
	}

	s.log.InfoContext(ctx, "balance set",
		slog.String("admin", caller.Username),
		slog.String("uid", uid),
		slog.Int64("balance", balance),
	)

	user.DrinkBalance = &balance
	return user, nil
}
