package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kuohsuan/acg-forum/internal/model"
	"github.com/kuohsuan/acg-forum/internal/repository"
)

// Profile is what the identity provider tells us about a user after a
// successful login.  It is consumed once, to find or provision the
// local account, and never stored as-is.
type Profile struct {
	Email string
	Name  string
}

// UserStore is the slice of the user repository the auth core needs.
// *repository.UserRepo satisfies it.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	CreateOAuth(ctx context.Context, email, username string) (uint64, error)
}

// Resolver maps a verified external profile onto a local account,
// creating the account on first login.
type Resolver struct {
	Users UserStore
}

func NewResolver(users UserStore) *Resolver { return &Resolver{Users: users} }

// ResolveOrCreate looks the account up by email and returns it if it
// exists.  On a miss it provisions a new account (sentinel password
// hash, active, non-superuser) and returns the persisted row.
//
// Two requests can race through the miss path for the same
// never-seen email; the unique key on users.email makes the second
// insert fail with repository.ErrEmailExists, in which case we
// re-read and return the row the winner created.  The result is
// idempotent: same email in, same account id out.
func (r *Resolver) ResolveOrCreate(ctx context.Context, p Profile) (model.User, error) {
	u, err := r.Users.GetByEmail(ctx, p.Email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.User{}, fmt.Errorf("lookup account: %w", err)
	}

	id, err := r.Users.CreateOAuth(ctx, p.Email, p.Name)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			// Lost the first-login race; the account exists now.
			return r.Users.GetByEmail(ctx, p.Email)
		}
		return model.User{}, fmt.Errorf("create account: %w", err)
	}
	return r.Users.GetByID(ctx, id)
}
