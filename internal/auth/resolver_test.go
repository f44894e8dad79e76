package auth

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kuohsuan/acg-forum/internal/model"
	"github.com/kuohsuan/acg-forum/internal/repository"
)

// memStore is an in-memory UserStore with the same contract as the
// MySQL-backed repo: GetByEmail misses with sql.ErrNoRows and a
// duplicate CreateOAuth fails with repository.ErrEmailExists.
type memStore struct {
	mu      sync.Mutex
	nextID  uint64
	byEmail map[string]model.User
	byID    map[uint64]model.User
	creates int
}

func newMemStore() *memStore {
	return &memStore{nextID: 1, byEmail: map[string]model.User{}, byID: map[uint64]model.User{}}
}

func (s *memStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (s *memStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (s *memStore) CreateOAuth(_ context.Context, email, username string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	key := strings.ToLower(email)
	if _, ok := s.byEmail[key]; ok {
		return 0, repository.ErrEmailExists
	}
	u := model.User{
		ID:           s.nextID,
		Username:     username,
		Email:        key,
		PasswordHash: model.OAuthPasswordSentinel,
		IsActive:     true,
	}
	s.nextID++
	s.byEmail[key] = u
	s.byID[u.ID] = u
	return u.ID, nil
}

func TestResolveOrCreate_ProvisionsOnFirstLogin(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	r := NewResolver(store)

	u, err := r.ResolveOrCreate(context.Background(), Profile{Email: "a@b.com", Name: "Alice"})
	require.NoError(t, err)
	require.Equal(t, uint64(1), u.ID)
	require.Equal(t, "a@b.com", u.Email)
	require.Equal(t, "Alice", u.Username)
	require.Equal(t, model.OAuthPasswordSentinel, u.PasswordHash)
	require.True(t, u.IsActive)
	require.False(t, u.IsSuperuser)
}

func TestResolveOrCreate_Idempotent(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	r := NewResolver(store)

	first, err := r.ResolveOrCreate(context.Background(), Profile{Email: "a@b.com", Name: "Alice"})
	require.NoError(t, err)
	second, err := r.ResolveOrCreate(context.Background(), Profile{Email: "a@b.com", Name: "Alice"})
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 1, store.creates)
	require.Len(t, store.byEmail, 1)
}

// Two concurrent first logins for the same never-seen email must end
// up on one account.  The in-memory store enforces email uniqueness
// the way the database does, so whichever goroutine loses the insert
// race gets ErrEmailExists and must re-read.
func TestResolveOrCreate_ConcurrentFirstLogin(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	r := NewResolver(store)

	const n = 8
	ids := make([]uint64, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, err := r.ResolveOrCreate(context.Background(), Profile{Email: "race@b.com", Name: "Racer"})
			ids[i], errs[i] = u.ID, err
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, ids[0], ids[i])
	}
	require.Len(t, store.byEmail, 1)
}

type failingStore struct{ memStore }

func (s *failingStore) GetByEmail(context.Context, string) (model.User, error) {
	return model.User{}, context.DeadlineExceeded
}

func TestResolveOrCreate_PropagatesStoreErrors(t *testing.T) {
	t.Parallel()

	r := NewResolver(&failingStore{})
	_, err := r.ResolveOrCreate(context.Background(), Profile{Email: "a@b.com"})
	require.Error(t, err)
}
