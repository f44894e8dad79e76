// Package repository holds the data-access layer: one repo per
// aggregate, all speaking database/sql against MySQL.  This file
// defines sentinel error values reused across repositories so that
// higher layers can distinguish failure scenarios with errors.Is
// instead of string matching.
package repository

import "errors"

// ErrEmailExists is returned when an insert hits the unique key on
// users.email.  The account resolver treats it as "somebody else won
// the first-login race" and re-reads instead of failing.
var ErrEmailExists = errors.New("email already exists")

// ErrNotFound is returned when a referenced row does not exist, e.g.
// posting to an unknown board or commenting on a deleted post.
// Handlers translate it into an HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrInvalidVote is returned when a vote value is neither +1 nor -1.
var ErrInvalidVote = errors.New("vote value must be +1 or -1")
