package usecase

import (
	"context"
	"sort"
	"time"
)

// HealthCheck pings one dependency; a nil error means healthy.
type HealthCheck func(ctx context.Context) error

type HealthStatus struct {
	Status      string            `json:"status"`
	Timestamp   string            `json:"timestamp"`
	Environment string            `json:"environment"`
	Checks      map[string]string `json:"checks,omitempty"`
}

type HealthUsecase interface {
	Check(ctx context.Context) HealthStatus
}

type healthUsecase struct {
	environment string
	checks      map[string]HealthCheck
}

func NewHealthUsecase(environment string, checks map[string]HealthCheck) HealthUsecase {
	return &healthUsecase{environment: environment, checks: checks}
}

// Check reports "OK" when every dependency answers, "DEGRADED" otherwise.
// The process itself is up either way.
func (u *healthUsecase) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:      "OK",
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Environment: u.environment,
	}
	if len(u.checks) == 0 {
		return status
	}

	names := make([]string, 0, len(u.checks))
	for name := range u.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status.Checks = make(map[string]string, len(names))
	for _, name := range names {
		checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := u.checks[name](checkCtx)
		cancel()
		if err != nil {
			status.Checks[name] = "down"
			status.Status = "DEGRADED"
			continue
		}
		status.Checks[name] = "up"
	}
	return status
}
