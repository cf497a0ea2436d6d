package domain

import "context"

// CandidateFilter narrows Search. Zero values mean "no constraint"; a zero
// Limit returns every match.
type CandidateFilter struct {
	Search        string
	Skills        []string
	MinExperience *int
	MaxExperience *int
	Location      string
	Status        CandidateStatus
	Limit         int
	Offset        int
}

// CandidateRepository is the persistence port for candidates.
//
// FindByID and FindByEmail return (nil, nil) when nothing matches.
// Save returns ErrAlreadyExists on a duplicate email; Update and Delete
// return ErrNotFound for an unknown id. Listing methods order by
// creation time, newest first.
type CandidateRepository interface {
	FindAll(ctx context.Context) ([]*Candidate, error)
	FindByID(ctx context.Context, id string) (*Candidate, error)
	FindByEmail(ctx context.Context, email string) (*Candidate, error)
	Save(ctx context.Context, candidate *Candidate) (*Candidate, error)
	Update(ctx context.Context, candidate *Candidate) (*Candidate, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	// FindBySkills matches candidates holding at least one of skills.
	FindBySkills(ctx context.Context, skills []string) ([]*Candidate, error)
	// FindByExperienceRange uses inclusive bounds.
	FindByExperienceRange(ctx context.Context, minYears, maxYears int) ([]*Candidate, error)
	// Search returns one page of matches plus the total number of matches.
	Search(ctx context.Context, filter CandidateFilter) ([]*Candidate, int64, error)
}

type CandidateUsecase interface {
	CreateCandidate(ctx context.Context, req CreateCandidateRequest) (*CandidateResponse, error)
	GetCandidateByID(ctx context.Context, id string) (*CandidateResponse, error)
	GetAllCandidates(ctx context.Context, query CandidateQuery) (*CandidateListResponse, error)
	UpdateCandidate(ctx context.Context, id string, req UpdateCandidateRequest) (*CandidateResponse, error)
	DeleteCandidate(ctx context.Context, id string) error
	ActivateCandidate(ctx context.Context, id string) (*CandidateResponse, error)
	DeactivateCandidate(ctx context.Context, id string) (*CandidateResponse, error)
	SearchCandidatesBySkills(ctx context.Context, skills []string) ([]CandidateResponse, error)
	SearchCandidatesByExperience(ctx context.Context, minYears, maxYears int) ([]CandidateResponse, error)
	ExportCandidates(ctx context.Context, req CandidateExportRequest) ([]byte, string, error)
}

// EventPublisher delivers candidate lifecycle events keyed by candidate id.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
}
