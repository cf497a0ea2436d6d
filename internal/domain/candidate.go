package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CandidateStatus string

const (
	CandidateStatusActive      CandidateStatus = "ACTIVE"
	CandidateStatusInactive    CandidateStatus = "INACTIVE"
	CandidateStatusBlacklisted CandidateStatus = "BLACKLISTED"
)

func (s CandidateStatus) IsValid() bool {
	switch s {
	case CandidateStatusActive, CandidateStatusInactive, CandidateStatusBlacklisted:
		return true
	}
	return false
}

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// now is swapped in tests to observe updatedAt bumps deterministically.
var now = time.Now

// Candidate is the aggregate root of the ATS. Fields are only reachable
// through getters and the mutation methods below, which keep the
// invariants intact.
type Candidate struct {
	id          string
	email       string
	firstName   string
	lastName    string
	phone       *string
	resumeURL   *string
	linkedInURL *string
	skills      []string
	experience  int
	location    *string
	salary      *int
	status      CandidateStatus
	createdAt   time.Time
	updatedAt   time.Time
}

// CandidateParams carries the caller supplied fields for NewCandidate.
type CandidateParams struct {
	Email       string
	FirstName   string
	LastName    string
	Phone       *string
	ResumeURL   *string
	LinkedInURL *string
	Skills      []string
	Experience  int
	Location    *string
	Salary      *int
}

// CandidateSnapshot is a detached copy of every Candidate field. Stores
// persist snapshots and rebuild entities from them with RestoreCandidate.
type CandidateSnapshot struct {
	ID          string
	Email       string
	FirstName   string
	LastName    string
	Phone       *string
	ResumeURL   *string
	LinkedInURL *string
	Skills      []string
	Experience  int
	Location    *string
	Salary      *int
	Status      CandidateStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProfileUpdate lists the profile fields UpdateProfile may touch. A nil
// field is left alone.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Location  *string
	Salary    *int
}

// NewCandidate builds a fresh ACTIVE candidate with a random UUID.
func NewCandidate(p CandidateParams) (*Candidate, error) {
	ts := now().UTC()
	c := &Candidate{
		id:          uuid.NewString(),
		email:       p.Email,
		firstName:   p.FirstName,
		lastName:    p.LastName,
		phone:       cloneString(p.Phone),
		resumeURL:   cloneString(p.ResumeURL),
		linkedInURL: cloneString(p.LinkedInURL),
		skills:      cloneSkills(p.Skills),
		experience:  p.Experience,
		location:    cloneString(p.Location),
		salary:      cloneInt(p.Salary),
		status:      CandidateStatusActive,
		createdAt:   ts,
		updatedAt:   ts,
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// RestoreCandidate rebuilds a candidate from persisted state.
func RestoreCandidate(s CandidateSnapshot) (*Candidate, error) {
	c := &Candidate{
		id:          s.ID,
		email:       s.Email,
		firstName:   s.FirstName,
		lastName:    s.LastName,
		phone:       cloneString(s.Phone),
		resumeURL:   cloneString(s.ResumeURL),
		linkedInURL: cloneString(s.LinkedInURL),
		skills:      cloneSkills(s.Skills),
		experience:  s.Experience,
		location:    cloneString(s.Location),
		salary:      cloneInt(s.Salary),
		status:      s.Status,
		createdAt:   s.CreatedAt,
		updatedAt:   s.UpdatedAt,
	}
	if !c.status.IsValid() {
		return nil, newValidationError("status", "Invalid candidate status %q", s.Status)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Candidate) ID() string              { return c.id }
func (c *Candidate) Email() string           { return c.email }
func (c *Candidate) FirstName() string       { return c.firstName }
func (c *Candidate) LastName() string        { return c.lastName }
func (c *Candidate) FullName() string        { return c.firstName + " " + c.lastName }
func (c *Candidate) Phone() *string          { return cloneString(c.phone) }
func (c *Candidate) ResumeURL() *string      { return cloneString(c.resumeURL) }
func (c *Candidate) LinkedInURL() *string    { return cloneString(c.linkedInURL) }
func (c *Candidate) Skills() []string        { return cloneSkills(c.skills) }
func (c *Candidate) Experience() int         { return c.experience }
func (c *Candidate) Location() *string       { return cloneString(c.location) }
func (c *Candidate) Salary() *int            { return cloneInt(c.salary) }
func (c *Candidate) Status() CandidateStatus { return c.status }
func (c *Candidate) CreatedAt() time.Time    { return c.createdAt }
func (c *Candidate) UpdatedAt() time.Time    { return c.updatedAt }
func (c *Candidate) IsActive() bool          { return c.status == CandidateStatusActive }

func (c *Candidate) HasSkill(skill string) bool { return containsString(c.skills, skill) }

// UpdateProfile applies the non-nil fields of u. Empty first or last names
// are ignored; an empty phone or location clears the field. The candidate
// is left untouched when the merged state would be invalid.
func (c *Candidate) UpdateProfile(u ProfileUpdate) error {
	next := *c
	if u.FirstName != nil && *u.FirstName != "" {
		next.firstName = *u.FirstName
	}
	if u.LastName != nil && *u.LastName != "" {
		next.lastName = *u.LastName
	}
	if u.Phone != nil {
		next.phone = optionalString(*u.Phone)
	}
	if u.Location != nil {
		next.location = optionalString(*u.Location)
	}
	if u.Salary != nil {
		next.salary = cloneInt(u.Salary)
	}
	if err := next.validate(); err != nil {
		return err
	}
	next.updatedAt = now().UTC()
	*c = next
	return nil
}

// UpdateSkills replaces the skill list.
func (c *Candidate) UpdateSkills(skills []string) {
	c.skills = cloneSkills(skills)
	c.touch()
}

func (c *Candidate) UpdateExperience(years int) error {
	if years < 0 {
		return newValidationError("experience", "Experience cannot be negative")
	}
	c.experience = years
	c.touch()
	return nil
}

// Status transitions are unrestricted: any status may move to any other.

func (c *Candidate) Activate() {
	c.status = CandidateStatusActive
	c.touch()
}

func (c *Candidate) Deactivate() {
	c.status = CandidateStatusInactive
	c.touch()
}

func (c *Candidate) Blacklist() {
	c.status = CandidateStatusBlacklisted
	c.touch()
}

// Snapshot returns a copy that shares no mutable state with c.
func (c *Candidate) Snapshot() CandidateSnapshot {
	return CandidateSnapshot{
		ID:          c.id,
		Email:       c.email,
		FirstName:   c.firstName,
		LastName:    c.lastName,
		Phone:       cloneString(c.phone),
		ResumeURL:   cloneString(c.resumeURL),
		LinkedInURL: cloneString(c.linkedInURL),
		Skills:      cloneSkills(c.skills),
		Experience:  c.experience,
		Location:    cloneString(c.location),
		Salary:      cloneInt(c.salary),
		Status:      c.status,
		CreatedAt:   c.createdAt,
		UpdatedAt:   c.updatedAt,
	}
}

func (c *Candidate) touch() {
	c.updatedAt = now().UTC()
}

func (c *Candidate) validate() error {
	if c.email == "" || !emailRegex.MatchString(c.email) {
		return newValidationError("email", "Invalid email address")
	}
	if strings.TrimSpace(c.firstName) == "" {
		return newValidationError("firstName", "First name is required")
	}
	if strings.TrimSpace(c.lastName) == "" {
		return newValidationError("lastName", "Last name is required")
	}
	if c.experience < 0 {
		return newValidationError("experience", "Experience cannot be negative")
	}
	if c.salary != nil && *c.salary < 0 {
		return newValidationError("salary", "Salary cannot be negative")
	}
	return nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}

// cloneSkills never returns nil so snapshots serialise as [].
func cloneSkills(skills []string) []string {
	out := make([]string, len(skills))
	copy(out, skills)
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
