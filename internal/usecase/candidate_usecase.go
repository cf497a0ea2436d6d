package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"ats-backend/internal/domain"
	"ats-backend/pkg/apperror"
	"ats-backend/pkg/events"
	"ats-backend/pkg/logger"
	"ats-backend/pkg/metrics"
	"ats-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type candidateUsecase struct {
	repo      domain.CandidateRepository
	validate  *validator.Validate
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
}

// NewCandidateUsecase wires the candidate use-cases. publisher and m may be
// nil; validate defaults to validation.New().
func NewCandidateUsecase(repo domain.CandidateRepository, validate *validator.Validate, publisher domain.EventPublisher, m *metrics.Metrics) domain.CandidateUsecase {
	if validate == nil {
		validate = validation.New()
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &candidateUsecase{
		repo:      repo,
		validate:  validate,
		publisher: publisher,
		metrics:   m,
	}
}

func (u *candidateUsecase) CreateCandidate(ctx context.Context, req domain.CreateCandidateRequest) (*domain.CandidateResponse, error) {
	const op = "create"
	if err := u.validate.Struct(req); err != nil {
		return nil, u.fail(op, err)
	}

	// Friendly fast path; the store's unique constraint settles races.
	existing, err := u.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, u.fail(op, err)
	}
	if existing != nil {
		return nil, u.fail(op, domain.ErrAlreadyExists)
	}

	candidate, err := domain.NewCandidate(domain.CandidateParams{
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		ResumeURL:   req.ResumeURL,
		LinkedInURL: req.LinkedInURL,
		Skills:      req.Skills,
		Experience:  *req.Experience,
		Location:    req.Location,
		Salary:      req.Salary,
	})
	if err != nil {
		return nil, u.fail(op, err)
	}

	saved, err := u.repo.Save(ctx, candidate)
	if err != nil {
		return nil, u.fail(op, err)
	}

	u.succeed(ctx, op, domain.CandidateCreated, saved)
	resp := domain.NewCandidateResponse(saved)
	return &resp, nil
}

func (u *candidateUsecase) GetCandidateByID(ctx context.Context, id string) (*domain.CandidateResponse, error) {
	const op = "get"
	candidate, err := u.findExisting(ctx, id)
	if err != nil {
		return nil, u.fail(op, err)
	}
	u.metrics.IncrementOperation(op, "ok")
	resp := domain.NewCandidateResponse(candidate)
	return &resp, nil
}

func (u *candidateUsecase) GetAllCandidates(ctx context.Context, query domain.CandidateQuery) (*domain.CandidateListResponse, error) {
	const op = "list"
	query, err := u.normalizeQuery(query)
	if err != nil {
		return nil, u.fail(op, err)
	}

	candidates, total, err := u.repo.Search(ctx, query.Filter())
	if err != nil {
		return nil, u.fail(op, err)
	}

	u.metrics.IncrementOperation(op, "ok")
	return &domain.CandidateListResponse{
		Candidates: toResponses(candidates),
		Total:      total,
		Page:       query.Page,
		Limit:      query.Limit,
	}, nil
}

func (u *candidateUsecase) UpdateCandidate(ctx context.Context, id string, req domain.UpdateCandidateRequest) (*domain.CandidateResponse, error) {
	const op = "update"
	if err := u.validate.Struct(req); err != nil {
		return nil, u.fail(op, err)
	}

	candidate, err := u.findExisting(ctx, id)
	if err != nil {
		return nil, u.fail(op, err)
	}

	if req.HasProfileChanges() {
		err := candidate.UpdateProfile(domain.ProfileUpdate{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Phone:     req.Phone,
			Location:  req.Location,
			Salary:    req.Salary,
		})
		if err != nil {
			return nil, u.fail(op, err)
		}
	}
	if req.Skills != nil {
		candidate.UpdateSkills(req.Skills)
	}
	if req.Experience != nil {
		if err := candidate.UpdateExperience(*req.Experience); err != nil {
			return nil, u.fail(op, err)
		}
	}

	updated, err := u.repo.Update(ctx, candidate)
	if err != nil {
		return nil, u.fail(op, err)
	}

	u.succeed(ctx, op, domain.CandidateUpdated, updated)
	resp := domain.NewCandidateResponse(updated)
	return &resp, nil
}

func (u *candidateUsecase) DeleteCandidate(ctx context.Context, id string) error {
	const op = "delete"
	candidate, err := u.findExisting(ctx, id)
	if err != nil {
		return u.fail(op, err)
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		return u.fail(op, err)
	}
	u.succeed(ctx, op, domain.CandidateDeleted, candidate)
	return nil
}

func (u *candidateUsecase) ActivateCandidate(ctx context.Context, id string) (*domain.CandidateResponse, error) {
	return u.transition(ctx, "activate", id, domain.CandidateActivated, (*domain.Candidate).Activate)
}

func (u *candidateUsecase) DeactivateCandidate(ctx context.Context, id string) (*domain.CandidateResponse, error) {
	return u.transition(ctx, "deactivate", id, domain.CandidateDeactivated, (*domain.Candidate).Deactivate)
}

func (u *candidateUsecase) SearchCandidatesBySkills(ctx context.Context, skills []string) ([]domain.CandidateResponse, error) {
	const op = "search_skills"
	cleaned := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		return nil, u.fail(op, apperror.BadRequest("Skills parameter is required"))
	}

	candidates, err := u.repo.FindBySkills(ctx, cleaned)
	if err != nil {
		return nil, u.fail(op, err)
	}
	u.metrics.IncrementOperation(op, "ok")
	return toResponses(candidates), nil
}

func (u *candidateUsecase) SearchCandidatesByExperience(ctx context.Context, minYears, maxYears int) ([]domain.CandidateResponse, error) {
	const op = "search_experience"
	if minYears < 0 || maxYears < 0 {
		return nil, u.fail(op, apperror.BadRequest("Experience cannot be negative"))
	}
	if minYears > maxYears {
		return nil, u.fail(op, apperror.BadRequest("minYears cannot be greater than maxYears"))
	}

	candidates, err := u.repo.FindByExperienceRange(ctx, minYears, maxYears)
	if err != nil {
		return nil, u.fail(op, err)
	}
	u.metrics.IncrementOperation(op, "ok")
	return toResponses(candidates), nil
}

func (u *candidateUsecase) transition(ctx context.Context, op, id string, eventType domain.CandidateEventType, apply func(*domain.Candidate)) (*domain.CandidateResponse, error) {
	candidate, err := u.findExisting(ctx, id)
	if err != nil {
		return nil, u.fail(op, err)
	}

	apply(candidate)

	updated, err := u.repo.Update(ctx, candidate)
	if err != nil {
		return nil, u.fail(op, err)
	}

	u.succeed(ctx, op, eventType, updated)
	resp := domain.NewCandidateResponse(updated)
	return &resp, nil
}

func (u *candidateUsecase) findExisting(ctx context.Context, id string) (*domain.Candidate, error) {
	candidate, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, domain.ErrNotFound
	}
	return candidate, nil
}

// normalizeQuery fills paging defaults and validates the filters.
func (u *candidateUsecase) normalizeQuery(q domain.CandidateQuery) (domain.CandidateQuery, error) {
	if q.Page == 0 {
		q.Page = domain.DefaultPage
	}
	if q.Limit == 0 {
		q.Limit = domain.DefaultLimit
	}
	if err := u.validate.Struct(q); err != nil {
		return q, err
	}
	// The page offset and its end must both fit in an int.
	if q.Page-1 > (math.MaxInt-q.Limit)/q.Limit {
		msg := "page is too large"
		return q, apperror.Validation(msg, map[string]string{"page": msg}, nil)
	}
	if q.MinExperience != nil && q.MaxExperience != nil && *q.MinExperience > *q.MaxExperience {
		return q, apperror.BadRequest("minExperience cannot be greater than maxExperience")
	}
	return q, nil
}

func (u *candidateUsecase) succeed(ctx context.Context, op string, eventType domain.CandidateEventType, c *domain.Candidate) {
	u.metrics.IncrementOperation(op, "ok")
	logger.Log.Info("Candidate "+op, "candidate_id", c.ID(), "status", c.Status())

	event := domain.CandidateEvent{
		Type:        eventType,
		CandidateID: c.ID(),
		Email:       c.Email(),
		Status:      string(c.Status()),
		OccurredAt:  time.Now().UTC(),
	}
	if err := u.publisher.Publish(ctx, c.ID(), event); err != nil {
		u.metrics.IncrementEventPublishFailed()
		logger.Log.Warn("Failed to publish candidate event", "type", eventType, "candidate_id", c.ID(), "error", err)
	}
}

// fail translates err into an AppError and records the outcome.
func (u *candidateUsecase) fail(op string, err error) error {
	appErr := translateError(err)
	u.metrics.IncrementOperation(op, resultLabel(appErr.Code))
	if appErr.Code >= http.StatusInternalServerError {
		logger.Log.Error("Candidate "+op+" failed", "error", err)
	}
	return appErr
}

func translateError(err error) *apperror.AppError {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var domainErr *domain.ValidationError
	var fieldErrs validator.ValidationErrors
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return apperror.NotFound("Candidate not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		return apperror.Conflict("Candidate with this email already exists", err)
	case errors.As(err, &domainErr):
		return apperror.Validation(domainErr.Message, map[string]string{domainErr.Field: domainErr.Message}, err)
	case errors.As(err, &fieldErrs):
		messages := validation.FormatValidationErrors(err)
		return apperror.Validation(messages[0], validation.FieldErrors(err), err)
	default:
		return apperror.Internal(fmt.Errorf("candidate store: %w", err))
	}
}

func resultLabel(code int) string {
	switch code {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusBadRequest:
		return "invalid"
	default:
		return "error"
	}
}

func toResponses(candidates []*domain.Candidate) []domain.CandidateResponse {
	out := make([]domain.CandidateResponse, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, domain.NewCandidateResponse(c))
	}
	return out
}
