package model

import "time"

// OAuthPasswordSentinel is stored in users.password_hash for accounts
// provisioned through Google login.  Such accounts have no local
// password; the sentinel keeps the NOT NULL column satisfied and makes
// externally-authenticated rows easy to recognize.
const OAuthPasswordSentinel = "OAUTH_GOOGLE_ONLY"

// User represents an application user record as stored in the `users`
// table.  Accounts are created exactly once, on the first successful
// Google login for a given email; the email column carries a unique
// constraint so a concurrent first login cannot produce two rows.
//
// Fields:
//  ID           – primary key identifier, assigned by the database.
//  Username     – display name taken from the Google profile.
//  Email        – unique email address; the external-identity correlation key.
//  PasswordHash – OAuthPasswordSentinel for provider-provisioned accounts.
//  IsActive     – whether the account may authenticate (default true).
//  IsSuperuser  – administrative flag (default false).
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	IsSuperuser  bool      `json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
}
