package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"ats-backend/internal/domain"
	"ats-backend/internal/usecase"
	"ats-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock Repositories
type MockCandidateRepo struct {
	mock.Mock
}

func (m *MockCandidateRepo) FindAll(ctx context.Context) ([]*domain.Candidate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) FindByID(ctx context.Context, id string) (*domain.Candidate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) FindByEmail(ctx context.Context, email string) (*domain.Candidate, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

// savedAsGiven makes Save echo its argument back.
type savedAsGiven func(context.Context, *domain.Candidate) *domain.Candidate

func echo(_ context.Context, c *domain.Candidate) *domain.Candidate { return c }

func (m *MockCandidateRepo) Save(ctx context.Context, candidate *domain.Candidate) (*domain.Candidate, error) {
	args := m.Called(ctx, candidate)
	switch v := args.Get(0).(type) {
	case nil:
		return nil, args.Error(1)
	case savedAsGiven:
		return v(ctx, candidate), args.Error(1)
	default:
		return v.(*domain.Candidate), args.Error(1)
	}
}

func (m *MockCandidateRepo) Update(ctx context.Context, candidate *domain.Candidate) (*domain.Candidate, error) {
	args := m.Called(ctx, candidate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCandidateRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCandidateRepo) FindBySkills(ctx context.Context, skills []string) ([]*domain.Candidate, error) {
	args := m.Called(ctx, skills)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) FindByExperienceRange(ctx context.Context, minYears, maxYears int) ([]*domain.Candidate, error) {
	args := m.Called(ctx, minYears, maxYears)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) Search(ctx context.Context, filter domain.CandidateFilter) ([]*domain.Candidate, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Candidate), args.Get(1).(int64), args.Error(2)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	return m.Called(ctx, key, value).Error(0)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func newCandidate(t *testing.T, email string) *domain.Candidate {
	t.Helper()
	c, err := domain.NewCandidate(domain.CandidateParams{
		Email:      email,
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Skills:     []string{"Go", "Python"},
		Experience: 5,
	})
	require.NoError(t, err)
	return c
}

func validCreateRequest(email string) domain.CreateCandidateRequest {
	return domain.CreateCandidateRequest{
		Email:      email,
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Skills:     []string{"Go"},
		Experience: intPtr(5),
		Location:   strPtr("London"),
	}
}

func requireAppError(t *testing.T, err error, code int) *apperror.AppError {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func TestCreateCandidate(t *testing.T) {
	ctx := context.Background()

	t.Run("Should save and publish created event", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		pub := new(MockPublisher)
		uc := usecase.NewCandidateUsecase(repo, nil, pub, nil)

		repo.On("FindByEmail", ctx, "ada@example.com").Return(nil, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*domain.Candidate")).
			Return(savedAsGiven(echo), nil)
		pub.On("Publish", ctx, mock.Anything, mock.MatchedBy(func(e domain.CandidateEvent) bool {
			return e.Type == domain.CandidateCreated && e.Email == "ada@example.com"
		})).Return(nil)

		resp, err := uc.CreateCandidate(ctx, validCreateRequest("ada@example.com"))
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", resp.FullName)
		assert.Equal(t, "ACTIVE", resp.Status)
		assert.Equal(t, "London", *resp.Location)
		repo.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("Should reject duplicate email without saving", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(repo, nil, nil, nil)

		repo.On("FindByEmail", ctx, "a@b.com").Return(newCandidate(t, "a@b.com"), nil)

		_, err := uc.CreateCandidate(ctx, validCreateRequest("a@b.com"))
		appErr := requireAppError(t, err, http.StatusConflict)
		assert.Equal(t, "Candidate with this email already exists", appErr.Message)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Should map store unique violation to conflict", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(repo, nil, nil, nil)

		repo.On("FindByEmail", ctx, "race@example.com").Return(nil, nil)
		repo.On("Save", ctx, mock.Anything).Return(nil, domain.ErrAlreadyExists)

		_, err := uc.CreateCandidate(ctx, validCreateRequest("race@example.com"))
		requireAppError(t, err, http.StatusConflict)
	})

	t.Run("Should fail validation", func(t *testing.T) {
		tests := []struct {
			name  string
			field string
			edit  func(*domain.CreateCandidateRequest)
		}{
			{"negative experience", "experience", func(r *domain.CreateCandidateRequest) { r.Experience = intPtr(-1) }},
			{"missing experience", "experience", func(r *domain.CreateCandidateRequest) { r.Experience = nil }},
			{"bad email", "email", func(r *domain.CreateCandidateRequest) { r.Email = "not-an-email" }},
			{"negative salary", "salary", func(r *domain.CreateCandidateRequest) { r.Salary = intPtr(-5) }},
			{"experience beyond int32", "experience", func(r *domain.CreateCandidateRequest) { r.Experience = intPtr(1 << 31) }},
			{"salary beyond int32", "salary", func(r *domain.CreateCandidateRequest) { r.Salary = intPtr(1 << 31) }},
			{"long first name", "firstName", func(r *domain.CreateCandidateRequest) {
				r.FirstName = "ABCDEFGHIJABCDEFGHIJABCDEFGHIJABCDEFGHIJABCDEFGHIJX"
			}},
			{"bad resume url", "resumeUrl", func(r *domain.CreateCandidateRequest) { r.ResumeURL = strPtr("not a url") }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				repo := new(MockCandidateRepo)
				uc := usecase.NewCandidateUsecase(repo, nil, nil, nil)

				req := validCreateRequest("ada@example.com")
				tt.edit(&req)

				_, err := uc.CreateCandidate(ctx, req)
				appErr := requireAppError(t, err, http.StatusBadRequest)
				assert.Contains(t, appErr.Details, tt.field)
				repo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("Should not fail when publishing fails", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		pub := new(MockPublisher)
		uc := usecase.NewCandidateUsecase(repo, nil, pub, nil)

		repo.On("FindByEmail", ctx, "ada@example.com").Return(nil, nil)
		repo.On("Save", ctx, mock.Anything).
			Return(savedAsGiven(echo), nil)
		pub.On("Publish", ctx, mock.Anything, mock.Anything).Return(errors.New("broker down"))

		_, err := uc.CreateCandidate(ctx, validCreateRequest("ada@example.com"))
		assert.NoError(t, err)
	})
}

func TestGetCandidateByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Should return not found", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(repo, nil, nil, nil)
		repo.On("FindByID", ctx, "missing").Return(nil, nil)

		_, err := uc.GetCandidateByID(ctx, "missing")
		appErr := requireAppError(t, err, http.StatusNotFound)
		assert.Equal(t, "Candidate not found", appErr.Message)
	})

	t.Run("Should hide store failures behind internal error", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(repo, nil, nil, nil)
		storeErr := errors.New("connection reset")
		repo.On("FindByID", ctx, "x").Return(nil, storeErr)

		_, err := uc.GetCandidateByID(ctx, "x")
		appErr := requireAppError(t, err, http.StatusInternalServerError)
		assert.ErrorIs(t, appErr, storeErr)
	})

	t.Run("Should be idempotent", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(repo, nil, nil, nil)
		c := newCandidate(t, "ada@example.com")
		repo.On("FindByID", ctx, c.ID()).Return(c, nil)

		first, err := uc.GetCandidateByID(ctx, c.ID())
		require.NoError(t, err)
		second, err := uc.GetCandidateByID(ctx, c.ID())
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestGetAllCandidates(t *testing.T) {
	ctx := context.Background()

	t.Run("Should apply paging defaults and filters", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(repo, nil, nil, nil)

		want := domain.CandidateFilter{
			Search: "ada",
			Status: domain.CandidateStatusActive,
			Limit:  domain.DefaultLimit,
			Offset: 0,
		}
		repo.On("Search", ctx, want).Return([]*domain.Candidate{newCandidate(t, "ada@example.com")}, int64(1), nil)

		resp, err := uc.GetAllCandidates(ctx, domain.CandidateQuery{Search: "ada", Status: "ACTIVE"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Total)
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 10, resp.Limit)
		assert.Len(t, resp.Candidates, 1)
	})

	t.Run("Should reject invalid queries", func(t *testing.T) {
		tests := []struct {
			name  string
			query domain.CandidateQuery
		}{
			{"limit above max", domain.CandidateQuery{Limit: 101}},
			{"unknown status", domain.CandidateQuery{Status: "ARCHIVED"}},
			{"negative experience", domain.CandidateQuery{MinExperience: intPtr(-1)}},
			{"inverted experience range", domain.CandidateQuery{MinExperience: intPtr(5), MaxExperience: intPtr(2)}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				repo := new(MockCandidateRepo)
				uc := usecase.NewCandidateUsecase(repo, nil, nil, nil)

				_, err := uc.GetAllCandidates(ctx, tt.query)
				requireAppError(t, err, http.StatusBadRequest)
				repo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("Should return empty list, not null", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(repo, nil, nil, nil)
		repo.On("Search", ctx, mock.Anything).Return([]*domain.Candidate{}, int64(0), nil)

		resp, err := uc.GetAllCandidates(ctx, domain.CandidateQuery{})
		require.NoError(t, err)
		assert.NotNil(t, resp.Candidates)
		assert.Empty(t, resp.Candidates)
	})
}

func TestUpdateCandidate(t *testing.T) {
	ctx := context.Background()

	t.Run("Should return not found for unknown id", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(repo, nil, nil, nil)
		repo.On("FindByID", ctx, "missing").Return(nil, nil)

		_, err := uc.UpdateCandidate(ctx, "missing", domain.UpdateCandidateRequest{Location: strPtr("Boston")})
		requireAppError(t, err, http.StatusNotFound)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Should reject negative experience", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(repo, nil, nil, nil)

		_, err := uc.UpdateCandidate(ctx, "any", domain.UpdateCandidateRequest{Experience: intPtr(-3)})
		requireAppError(t, err, http.StatusBadRequest)
	})

	t.Run("Should publish updated event", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		pub := new(MockPublisher)
		uc := usecase.NewCandidateUsecase(repo, nil, pub, nil)
		c := newCandidate(t, "ada@example.com")

		repo.On("FindByID", ctx, c.ID()).Return(c, nil)
		repo.On("Update", ctx, c).Return(c, nil)
		pub.On("Publish", ctx, c.ID(), mock.MatchedBy(func(e domain.CandidateEvent) bool {
			return e.Type == domain.CandidateUpdated
		})).Return(nil)

		resp, err := uc.UpdateCandidate(ctx, c.ID(), domain.UpdateCandidateRequest{Skills: []string{"Rust"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Rust"}, resp.Skills)
		pub.AssertExpectations(t)
	})
}

func TestDeleteCandidate(t *testing.T) {
	ctx := context.Background()

	t.Run("Should delete existing candidate", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(repo, nil, nil, nil)
		c := newCandidate(t, "ada@example.com")
		repo.On("FindByID", ctx, c.ID()).Return(c, nil)
		repo.On("Delete", ctx, c.ID()).Return(nil)

		assert.NoError(t, uc.DeleteCandidate(ctx, c.ID()))
		repo.AssertExpectations(t)
	})

	t.Run("Should return not found", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(repo, nil, nil, nil)
		repo.On("FindByID", ctx, "missing").Return(nil, nil)

		err := uc.DeleteCandidate(ctx, "missing")
		requireAppError(t, err, http.StatusNotFound)
	})

	t.Run("Should map a concurrent delete to not found", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(repo, nil, nil, nil)
		c := newCandidate(t, "ada@example.com")
		repo.On("FindByID", ctx, c.ID()).Return(c, nil)
		repo.On("Delete", ctx, c.ID()).Return(domain.ErrNotFound)

		err := uc.DeleteCandidate(ctx, c.ID())
		requireAppError(t, err, http.StatusNotFound)
	})
}

func TestStatusTransitions(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCandidateRepo)
	uc := usecase.NewCandidateUsecase(repo, nil, nil, nil)
	c := newCandidate(t, "ada@example.com")

	repo.On("FindByID", ctx, c.ID()).Return(c, nil)
	repo.On("Update", ctx, c).Return(c, nil)

	resp, err := uc.DeactivateCandidate(ctx, c.ID())
	require.NoError(t, err)
	assert.Equal(t, "INACTIVE", resp.Status)

	resp, err = uc.ActivateCandidate(ctx, c.ID())
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", resp.Status)
}

func TestSearchCandidates(t *testing.T) {
	ctx := context.Background()

	t.Run("Should trim skills and require at least one", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(repo, nil, nil, nil)

		_, err := uc.SearchCandidatesBySkills(ctx, []string{" ", ""})
		appErr := requireAppError(t, err, http.StatusBadRequest)
		assert.Equal(t, "Skills parameter is required", appErr.Message)

		repo.On("FindBySkills", ctx, []string{"Go", "Rust"}).Return([]*domain.Candidate{}, nil)
		got, err := uc.SearchCandidatesBySkills(ctx, []string{" Go", "Rust "})
		require.NoError(t, err)
		assert.NotNil(t, got)
	})

	t.Run("Should validate experience range", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(repo, nil, nil, nil)

		_, err := uc.SearchCandidatesByExperience(ctx, 6, 2)
		requireAppError(t, err, http.StatusBadRequest)

		_, err = uc.SearchCandidatesByExperience(ctx, -1, 2)
		requireAppError(t, err, http.StatusBadRequest)

		repo.On("FindByExperienceRange", ctx, 5, 5).Return([]*domain.Candidate{newCandidate(t, "ada@example.com")}, nil)
		got, err := uc.SearchCandidatesByExperience(ctx, 5, 5)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestUpdateCandidateRejectsOutOfRangeNumbers(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCandidateRepo)
	uc := usecase.NewCandidateUsecase(repo, nil, nil, nil)

	_, err := uc.UpdateCandidate(ctx, "any-id", domain.UpdateCandidateRequest{Experience: intPtr(1 << 31)})
	appErr := requireAppError(t, err, http.StatusBadRequest)
	assert.Equal(t, "Experience must be at most 2147483647", appErr.Message)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestExportCandidatesRejectsUnknownFormatBeforeQuerying(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCandidateRepo)
	uc := usecase.NewCandidateUsecase(repo, nil, nil, nil)

	data, filename, err := uc.ExportCandidates(ctx, domain.CandidateExportRequest{Format: "pdf"})
	appErr := requireAppError(t, err, http.StatusBadRequest)
	assert.Equal(t, "unsupported export format: pdf", appErr.Message)
	assert.Nil(t, data)
	assert.Empty(t, filename)
	repo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}
