package memory_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"ats-backend/internal/domain"
	"ats-backend/internal/repository/memory"
	"ats-backend/internal/repository/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestCandidateRepository(t *testing.T) {
	suite.Run(t, &repotest.CandidateRepositorySuite{NewRepo: memory.NewCandidateRepository})
}

func TestCandidateRepository_ConcurrentDuplicateEmail(t *testing.T) {
	repo := memory.NewCandidateRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := domain.NewCandidate(domain.CandidateParams{
				Email: "race@example.com", FirstName: "Race", LastName: "Condition",
			})
			if err != nil {
				errs <- err
				return
			}
			_, err = repo.Save(ctx, c)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var saved, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			saved++
		case errors.Is(err, domain.ErrAlreadyExists):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, saved)
	assert.Equal(t, 19, conflicts)
}

func TestCandidateRepository_ReturnsDetachedEntities(t *testing.T) {
	repo := memory.NewCandidateRepository()
	ctx := context.Background()

	c, err := domain.NewCandidate(domain.CandidateParams{
		Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace", Skills: []string{"Go"},
	})
	require.NoError(t, err)
	_, err = repo.Save(ctx, c)
	require.NoError(t, err)

	// Mutating without Update must not leak into the store.
	c.UpdateSkills([]string{"Rust"})
	found, err := repo.FindByID(ctx, c.ID())
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, found.Skills())
}

func TestCandidateRepository_UpdateEmailConflict(t *testing.T) {
	repo := memory.NewCandidateRepository()
	ctx := context.Background()

	var ids []string
	for i := 0; i < 2; i++ {
		c, err := domain.NewCandidate(domain.CandidateParams{
			Email: fmt.Sprintf("user%d@example.com", i), FirstName: "U", LastName: "Ser",
		})
		require.NoError(t, err)
		_, err = repo.Save(ctx, c)
		require.NoError(t, err)
		ids = append(ids, c.ID())
	}

	first, err := repo.FindByID(ctx, ids[0])
	require.NoError(t, err)
	snap := first.Snapshot()
	snap.Email = "user1@example.com"
	clash, err := domain.RestoreCandidate(snap)
	require.NoError(t, err)

	_, err = repo.Update(ctx, clash)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}
