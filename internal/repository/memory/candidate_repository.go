package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"ats-backend/internal/domain"
)

// candidateRepository keeps snapshots in a map guarded by a RWMutex.
// Entities handed out are rebuilt from snapshots, so callers never share
// state with the store.
type candidateRepository struct {
	mu      sync.RWMutex
	byID    map[string]domain.CandidateSnapshot
	byEmail map[string]string
	seq     map[string]int64
	nextSeq int64
}

func NewCandidateRepository() domain.CandidateRepository {
	return &candidateRepository{
		byID:    make(map[string]domain.CandidateSnapshot),
		byEmail: make(map[string]string),
		seq:     make(map[string]int64),
	}
}

func (r *candidateRepository) FindAll(ctx context.Context) ([]*domain.Candidate, error) {
	items, _, err := r.Search(ctx, domain.CandidateFilter{})
	return items, err
}

func (r *candidateRepository) FindByID(_ context.Context, id string) (*domain.Candidate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return domain.RestoreCandidate(s)
}

func (r *candidateRepository) FindByEmail(_ context.Context, email string) (*domain.Candidate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	return domain.RestoreCandidate(r.byID[id])
}

func (r *candidateRepository) Save(_ context.Context, candidate *domain.Candidate) (*domain.Candidate, error) {
	s := candidate.Snapshot()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byEmail[s.Email]; taken {
		return nil, domain.ErrAlreadyExists
	}
	if _, taken := r.byID[s.ID]; taken {
		return nil, domain.ErrAlreadyExists
	}
	r.nextSeq++
	r.byID[s.ID] = s
	r.byEmail[s.Email] = s.ID
	r.seq[s.ID] = r.nextSeq
	return domain.RestoreCandidate(s)
}

func (r *candidateRepository) Update(_ context.Context, candidate *domain.Candidate) (*domain.Candidate, error) {
	s := candidate.Snapshot()

	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.byID[s.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if owner, taken := r.byEmail[s.Email]; taken && owner != s.ID {
		return nil, domain.ErrAlreadyExists
	}
	delete(r.byEmail, prev.Email)
	s.CreatedAt = prev.CreatedAt
	r.byID[s.ID] = s
	r.byEmail[s.Email] = s.ID
	return domain.RestoreCandidate(s)
}

func (r *candidateRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	delete(r.byEmail, s.Email)
	delete(r.seq, id)
	return nil
}

func (r *candidateRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byID)), nil
}

func (r *candidateRepository) FindBySkills(ctx context.Context, skills []string) ([]*domain.Candidate, error) {
	if len(skills) == 0 {
		return []*domain.Candidate{}, nil
	}
	items, _, err := r.Search(ctx, domain.CandidateFilter{Skills: skills})
	return items, err
}

func (r *candidateRepository) FindByExperienceRange(ctx context.Context, minYears, maxYears int) ([]*domain.Candidate, error) {
	items, _, err := r.Search(ctx, domain.CandidateFilter{MinExperience: &minYears, MaxExperience: &maxYears})
	return items, err
}

func (r *candidateRepository) Search(_ context.Context, filter domain.CandidateFilter) ([]*domain.Candidate, int64, error) {
	r.mu.RLock()
	matched := make([]domain.CandidateSnapshot, 0, len(r.byID))
	for _, s := range r.byID {
		if matches(s, filter) {
			matched = append(matched, s)
		}
	}
	seq := make(map[string]int64, len(matched))
	for _, s := range matched {
		seq[s.ID] = r.seq[s.ID]
	}
	r.mu.RUnlock()

	// Newest first; insertion order breaks CreatedAt ties.
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return seq[matched[i].ID] > seq[matched[j].ID]
	})

	total := int64(len(matched))
	start, end := pageBounds(len(matched), filter.Offset, filter.Limit)

	out := make([]*domain.Candidate, 0, end-start)
	for _, s := range matched[start:end] {
		c, err := domain.RestoreCandidate(s)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, nil
}

func pageBounds(n, offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	end := n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	return offset, end
}

func matches(s domain.CandidateSnapshot, f domain.CandidateFilter) bool {
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(s.FirstName), term) &&
			!strings.Contains(strings.ToLower(s.LastName), term) &&
			!strings.Contains(strings.ToLower(s.Email), term) {
			return false
		}
	}
	if len(f.Skills) > 0 && !hasAnySkill(s.Skills, f.Skills) {
		return false
	}
	if f.MinExperience != nil && s.Experience < *f.MinExperience {
		return false
	}
	if f.MaxExperience != nil && s.Experience > *f.MaxExperience {
		return false
	}
	if f.Location != "" {
		if s.Location == nil || !strings.Contains(strings.ToLower(*s.Location), strings.ToLower(f.Location)) {
			return false
		}
	}
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	return true
}

func hasAnySkill(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
