// Package repotest holds the behavioural suite every CandidateRepository
// implementation must pass.
package repotest

import (
	"context"
	"fmt"
	"time"

	"ats-backend/internal/domain"

	"github.com/stretchr/testify/suite"
)

// CandidateRepositorySuite runs against the repository returned by NewRepo,
// which must be empty each time it is called.
type CandidateRepositorySuite struct {
	suite.Suite
	NewRepo func() domain.CandidateRepository

	ctx  context.Context
	repo domain.CandidateRepository
}

func (s *CandidateRepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = s.NewRepo()
}

func (s *CandidateRepositorySuite) candidate(email string, experience int, skills ...string) *domain.Candidate {
	c, err := domain.NewCandidate(domain.CandidateParams{
		Email:      email,
		FirstName:  "Test",
		LastName:   "Candidate",
		Skills:     skills,
		Experience: experience,
	})
	s.Require().NoError(err)
	return c
}

func (s *CandidateRepositorySuite) save(c *domain.Candidate) *domain.Candidate {
	saved, err := s.repo.Save(s.ctx, c)
	s.Require().NoError(err)
	return saved
}

func (s *CandidateRepositorySuite) TestSaveAndFind() {
	c := s.candidate("ada@example.com", 5, "Go", "SQL")
	saved := s.save(c)
	s.Equal(c.ID(), saved.ID())
	s.Equal([]string{"Go", "SQL"}, saved.Skills())

	byID, err := s.repo.FindByID(s.ctx, c.ID())
	s.Require().NoError(err)
	s.Require().NotNil(byID)
	s.Equal("ada@example.com", byID.Email())
	s.Equal(domain.CandidateStatusActive, byID.Status())

	byEmail, err := s.repo.FindByEmail(s.ctx, "ada@example.com")
	s.Require().NoError(err)
	s.Require().NotNil(byEmail)
	s.Equal(c.ID(), byEmail.ID())
}

func (s *CandidateRepositorySuite) TestFindMissingReturnsNil() {
	byID, err := s.repo.FindByID(s.ctx, "00000000-0000-0000-0000-000000000000")
	s.NoError(err)
	s.Nil(byID)

	byEmail, err := s.repo.FindByEmail(s.ctx, "nobody@example.com")
	s.NoError(err)
	s.Nil(byEmail)
}

func (s *CandidateRepositorySuite) TestSaveDuplicateEmail() {
	s.save(s.candidate("a@b.com", 1))

	_, err := s.repo.Save(s.ctx, s.candidate("a@b.com", 2))
	s.ErrorIs(err, domain.ErrAlreadyExists)

	total, err := s.repo.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
}

func (s *CandidateRepositorySuite) TestUpdate() {
	c := s.save(s.candidate("grace@example.com", 3, "COBOL"))
	createdAt := c.CreatedAt()

	c.UpdateSkills([]string{"Rust"})
	c.Deactivate()
	s.Require().NoError(c.UpdateProfile(domain.ProfileUpdate{Location: strPtr("Boston")}))

	updated, err := s.repo.Update(s.ctx, c)
	s.Require().NoError(err)
	s.Equal([]string{"Rust"}, updated.Skills())
	s.Equal(domain.CandidateStatusInactive, updated.Status())
	s.Equal("Boston", *updated.Location())
	s.True(createdAt.Equal(updated.CreatedAt()))

	reloaded, err := s.repo.FindByID(s.ctx, c.ID())
	s.Require().NoError(err)
	s.Equal([]string{"Rust"}, reloaded.Skills())
}

func (s *CandidateRepositorySuite) TestUpdateUnknown() {
	_, err := s.repo.Update(s.ctx, s.candidate("ghost@example.com", 1))
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *CandidateRepositorySuite) TestDelete() {
	c := s.save(s.candidate("del@example.com", 1))

	s.Require().NoError(s.repo.Delete(s.ctx, c.ID()))
	found, err := s.repo.FindByID(s.ctx, c.ID())
	s.NoError(err)
	s.Nil(found)

	s.ErrorIs(s.repo.Delete(s.ctx, c.ID()), domain.ErrNotFound)

	// The email is free again.
	s.save(s.candidate("del@example.com", 1))
}

func (s *CandidateRepositorySuite) TestFindBySkillsAnyOverlap() {
	gopher := s.save(s.candidate("gopher@example.com", 2, "Go", "Rust"))
	s.save(s.candidate("js@example.com", 2, "TypeScript"))

	found, err := s.repo.FindBySkills(s.ctx, []string{"Python", "Go"})
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal(gopher.ID(), found[0].ID())
}

func (s *CandidateRepositorySuite) TestFindByExperienceRangeInclusive() {
	five := s.save(s.candidate("five@example.com", 5))
	s.save(s.candidate("six@example.com", 6))

	found, err := s.repo.FindByExperienceRange(s.ctx, 5, 5)
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal(five.ID(), found[0].ID())
}

// TestSearchPagination saves 25 candidates with strictly increasing
// creation times; page two of ten holds the 11th to 20th newest.
func (s *CandidateRepositorySuite) TestSearchPagination() {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ids := make([]string, 25)
	for i := 0; i < 25; i++ {
		snap := s.candidate(fmt.Sprintf("c%02d@example.com", i), i).Snapshot()
		snap.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		snap.UpdatedAt = snap.CreatedAt
		c, err := domain.RestoreCandidate(snap)
		s.Require().NoError(err)
		s.save(c)
		ids[i] = c.ID()
	}

	page, total, err := s.repo.Search(s.ctx, domain.CandidateFilter{Limit: 10, Offset: 10})
	s.Require().NoError(err)
	s.Equal(int64(25), total)
	s.Require().Len(page, 10)
	for i, c := range page {
		// newest first: index 24 is record 1, so record 11 is index 14
		s.Equal(ids[14-i], c.ID())
	}

	all, err := s.repo.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 25)
	s.Equal(ids[24], all[0].ID())

	count, err := s.repo.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(25), count)
}

func (s *CandidateRepositorySuite) TestSearchFilters() {
	ada := s.candidate("ada@example.com", 8, "Go", "Math")
	s.Require().NoError(ada.UpdateProfile(domain.ProfileUpdate{Location: strPtr("London")}))
	s.save(ada)

	bob := s.candidate("bob@example.com", 2, "Java")
	s.Require().NoError(bob.UpdateProfile(domain.ProfileUpdate{Location: strPtr("Berlin")}))
	bob.Deactivate()
	s.save(bob)

	tests := []struct {
		name   string
		filter domain.CandidateFilter
		want   []string
	}{
		{"search is case-insensitive over email", domain.CandidateFilter{Search: "ADA@"}, []string{ada.ID()}},
		{"skills any-overlap", domain.CandidateFilter{Skills: []string{"Java", "Rust"}}, []string{bob.ID()}},
		{"experience lower bound", domain.CandidateFilter{MinExperience: intPtr(5)}, []string{ada.ID()}},
		{"experience upper bound", domain.CandidateFilter{MaxExperience: intPtr(2)}, []string{bob.ID()}},
		{"location substring", domain.CandidateFilter{Location: "lond"}, []string{ada.ID()}},
		{"status", domain.CandidateFilter{Status: domain.CandidateStatusInactive}, []string{bob.ID()}},
		{"no match", domain.CandidateFilter{Search: "zed"}, []string{}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			found, total, err := s.repo.Search(s.ctx, tt.filter)
			s.Require().NoError(err)
			s.Equal(int64(len(tt.want)), total)

			got := make([]string, 0, len(found))
			for _, c := range found {
				got = append(got, c.ID())
			}
			s.Equal(tt.want, got)
		})
	}
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
