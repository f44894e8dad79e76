package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVoteRepo_CastRejectsInvalidValues(t *testing.T) {
	t.Parallel()

	// Validation happens before any database access.
	r := NewVoteRepo(nil)
	for _, v := range []int8{0, 2, -2, 100} {
		require.ErrorIs(t, r.Cast(context.Background(), 1, 1, v), ErrInvalidVote, "value %d", v)
	}
}
