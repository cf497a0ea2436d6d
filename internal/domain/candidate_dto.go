package domain

import "time"

type CreateCandidateRequest struct {
	Email       string   `json:"email" validate:"required,email"`
	FirstName   string   `json:"firstName" validate:"required,notblank,max=50"`
	LastName    string   `json:"lastName" validate:"required,notblank,max=50"`
	Phone       *string  `json:"phone,omitempty"`
	ResumeURL   *string  `json:"resumeUrl,omitempty" validate:"omitempty,url"`
	LinkedInURL *string  `json:"linkedinUrl,omitempty" validate:"omitempty,url"`
	Skills      []string `json:"skills"`
	Experience  *int     `json:"experience" validate:"required,min=0,max=2147483647"`
	Location    *string  `json:"location,omitempty"`
	Salary      *int     `json:"salary,omitempty" validate:"omitempty,min=0,max=2147483647"`
}

// UpdateCandidateRequest uses pointers so an absent field can be told
// apart from an empty one. A nil Skills slice means "not provided".
type UpdateCandidateRequest struct {
	FirstName   *string  `json:"firstName,omitempty" validate:"omitempty,min=1,max=50"`
	LastName    *string  `json:"lastName,omitempty" validate:"omitempty,min=1,max=50"`
	Phone       *string  `json:"phone,omitempty"`
	ResumeURL   *string  `json:"resumeUrl,omitempty" validate:"omitempty,url"`
	LinkedInURL *string  `json:"linkedinUrl,omitempty" validate:"omitempty,url"`
	Skills      []string `json:"skills,omitempty"`
	Experience  *int     `json:"experience,omitempty" validate:"omitempty,min=0,max=2147483647"`
	Location    *string  `json:"location,omitempty"`
	Salary      *int     `json:"salary,omitempty" validate:"omitempty,min=0,max=2147483647"`
}

// HasProfileChanges reports whether any field handled by
// Candidate.UpdateProfile is present.
func (r UpdateCandidateRequest) HasProfileChanges() bool {
	return (r.FirstName != nil && *r.FirstName != "") ||
		(r.LastName != nil && *r.LastName != "") ||
		r.Phone != nil || r.Location != nil || r.Salary != nil
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type CandidateQuery struct {
	Page          int      `json:"page" validate:"min=1"`
	Limit         int      `json:"limit" validate:"min=1,max=100"`
	Search        string   `json:"search,omitempty"`
	Skills        []string `json:"skills,omitempty"`
	MinExperience *int     `json:"minExperience,omitempty" validate:"omitempty,min=0,max=2147483647"`
	MaxExperience *int     `json:"maxExperience,omitempty" validate:"omitempty,min=0,max=2147483647"`
	Location      string   `json:"location,omitempty"`
	Status        string   `json:"status,omitempty" validate:"omitempty,candidate_status"`
}

// Filter converts the query into a repository filter for its page.
func (q CandidateQuery) Filter() CandidateFilter {
	return CandidateFilter{
		Search:        q.Search,
		Skills:        q.Skills,
		MinExperience: q.MinExperience,
		MaxExperience: q.MaxExperience,
		Location:      q.Location,
		Status:        CandidateStatus(q.Status),
		Limit:         q.Limit,
		Offset:        (q.Page - 1) * q.Limit,
	}
}

type CandidateExportRequest struct {
	Query  CandidateQuery
	Format string
}

const MaxExportRows = 10000

type CandidateResponse struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	FullName    string   `json:"fullName"`
	Phone       *string  `json:"phone,omitempty"`
	ResumeURL   *string  `json:"resumeUrl,omitempty"`
	LinkedInURL *string  `json:"linkedinUrl,omitempty"`
	Skills      []string `json:"skills"`
	Experience  int      `json:"experience"`
	Location    *string  `json:"location,omitempty"`
	Salary      *int     `json:"salary,omitempty"`
	Status      string   `json:"status"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

// NewCandidateResponse is the single mapping from entity to wire shape.
func NewCandidateResponse(c *Candidate) CandidateResponse {
	s := c.Snapshot()
	return CandidateResponse{
		ID:          s.ID,
		Email:       s.Email,
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		FullName:    c.FullName(),
		Phone:       s.Phone,
		ResumeURL:   s.ResumeURL,
		LinkedInURL: s.LinkedInURL,
		Skills:      s.Skills,
		Experience:  s.Experience,
		Location:    s.Location,
		Salary:      s.Salary,
		Status:      string(s.Status),
		CreatedAt:   s.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   s.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

type CandidateListResponse struct {
	Candidates []CandidateResponse `json:"candidates"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
}

type CandidateEventType string

const (
	CandidateCreated     CandidateEventType = "candidate.created"
	CandidateUpdated     CandidateEventType = "candidate.updated"
	CandidateDeleted     CandidateEventType = "candidate.deleted"
	CandidateActivated   CandidateEventType = "candidate.activated"
	CandidateDeactivated CandidateEventType = "candidate.deactivated"
)

type CandidateEvent struct {
	Type        CandidateEventType `json:"type"`
	CandidateID string             `json:"candidateId"`
	Email       string             `json:"email,omitempty"`
	Status      string             `json:"status,omitempty"`
	OccurredAt  time.Time          `json:"occurredAt"`
}
