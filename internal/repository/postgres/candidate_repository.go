package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ats-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

const candidateColumns = `id, email, first_name, last_name, phone, resume_url, linkedin_url,
	skills, experience, location, salary, status, created_at, updated_at`

type candidateRepository struct {
	db *pgxpool.Pool
}

func NewCandidateRepository(db *pgxpool.Pool) domain.CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) FindAll(ctx context.Context) ([]*domain.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates ORDER BY created_at DESC, id`
	return r.queryCandidates(ctx, query)
}

func (r *candidateRepository) FindByID(ctx context.Context, id string) (*domain.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

func (r *candidateRepository) FindByEmail(ctx context.Context, email string) (*domain.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE email = $1`
	return r.queryOne(ctx, query, email)
}

func (r *candidateRepository) Save(ctx context.Context, candidate *domain.Candidate) (*domain.Candidate, error) {
	s := candidate.Snapshot()
	query := `
		INSERT INTO candidates (` + candidateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + candidateColumns

	row := r.db.QueryRow(ctx, query,
		s.ID, s.Email, s.FirstName, s.LastName, s.Phone, s.ResumeURL, s.LinkedInURL,
		pq.Array(s.Skills), s.Experience, s.Location, s.Salary, string(s.Status),
		s.CreatedAt, s.UpdatedAt,
	)
	saved, err := scanCandidate(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("insert candidate %s: %w", s.Email, domain.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("insert candidate: %w", err)
	}
	return saved, nil
}

func (r *candidateRepository) Update(ctx context.Context, candidate *domain.Candidate) (*domain.Candidate, error) {
	s := candidate.Snapshot()
	query := `
		UPDATE candidates SET
			email = $2, first_name = $3, last_name = $4,
			phone = $5, resume_url = $6, linkedin_url = $7,
			skills = $8, experience = $9, location = $10,
			salary = $11, status = $12, updated_at = $13
		WHERE id = $1
		RETURNING ` + candidateColumns

	row := r.db.QueryRow(ctx, query,
		s.ID, s.Email, s.FirstName, s.LastName, s.Phone, s.ResumeURL, s.LinkedInURL,
		pq.Array(s.Skills), s.Experience, s.Location, s.Salary, string(s.Status),
		s.UpdatedAt,
	)
	updated, err := scanCandidate(row)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, domain.ErrNotFound
		case isUniqueViolation(err):
			return nil, fmt.Errorf("update candidate %s: %w", s.ID, domain.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("update candidate: %w", err)
	}
	return updated, nil
}

func (r *candidateRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete candidate: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *candidateRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM candidates`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count candidates: %w", err)
	}
	return total, nil
}

func (r *candidateRepository) FindBySkills(ctx context.Context, skills []string) ([]*domain.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates
		WHERE skills && $1::text[]
		ORDER BY created_at DESC, id`
	return r.queryCandidates(ctx, query, pq.Array(skills))
}

func (r *candidateRepository) FindByExperienceRange(ctx context.Context, minYears, maxYears int) ([]*domain.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates
		WHERE experience BETWEEN $1 AND $2
		ORDER BY created_at DESC, id`
	return r.queryCandidates(ctx, query, minYears, maxYears)
}

func (r *candidateRepository) Search(ctx context.Context, filter domain.CandidateFilter) ([]*domain.Candidate, int64, error) {
	where, args := buildWhere(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM candidates` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count candidates: %w", err)
	}

	query := `SELECT ` + candidateColumns + ` FROM candidates` + where + ` ORDER BY created_at DESC, id`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	candidates, err := r.queryCandidates(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return candidates, total, nil
}

// buildWhere renders the filter as a WHERE clause with positional args.
func buildWhere(f domain.CandidateFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}
	next := func(v interface{}) int {
		args = append(args, v)
		return len(args)
	}

	if f.Search != "" {
		n := next("%" + escapeLike(f.Search) + "%")
		conds = append(conds, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", n, n, n))
	}
	if len(f.Skills) > 0 {
		conds = append(conds, fmt.Sprintf("skills && $%d::text[]", next(pq.Array(f.Skills))))
	}
	if f.MinExperience != nil {
		conds = append(conds, fmt.Sprintf("experience >= $%d", next(*f.MinExperience)))
	}
	if f.MaxExperience != nil {
		conds = append(conds, fmt.Sprintf("experience <= $%d", next(*f.MaxExperience)))
	}
	if f.Location != "" {
		conds = append(conds, fmt.Sprintf("location ILIKE $%d", next("%"+escapeLike(f.Location)+"%")))
	}
	if f.Status != "" {
		conds = append(conds, fmt.Sprintf("status = $%d", next(string(f.Status))))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *candidateRepository) queryOne(ctx context.Context, query string, args ...interface{}) (*domain.Candidate, error) {
	c, err := scanCandidate(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *candidateRepository) queryCandidates(ctx context.Context, query string, args ...interface{}) ([]*domain.Candidate, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	candidates := []*domain.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	return candidates, nil
}

func scanCandidate(row pgx.Row) (*domain.Candidate, error) {
	var s domain.CandidateSnapshot
	var status string
	err := row.Scan(
		&s.ID, &s.Email, &s.FirstName, &s.LastName, &s.Phone, &s.ResumeURL, &s.LinkedInURL,
		pq.Array(&s.Skills), &s.Experience, &s.Location, &s.Salary, &status,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Status = domain.CandidateStatus(status)
	return domain.RestoreCandidate(s)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
