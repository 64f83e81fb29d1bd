package usecase

import (
	"context"
	"log/slog"

	"github.com/larabeech/guestgate/internal/domain"
	"github.com/larabeech/guestgate/internal/repository"
)

// Auditor writes authentication events to the append-only sink.
// Audit is observability, not correctness: a failed write is warned
// about locally and never propagated.
type Auditor struct {
	repo   repository.AuditRepository
	logger *slog.Logger
}

func NewAuditor(repo repository.AuditRepository, logger *slog.Logger) *Auditor {
	return &Auditor{repo: repo, logger: logger.With("component", "audit")}
}

func (a *Auditor) Record(ctx context.Context, ev domain.AuditEvent) {
	if err := a.repo.Append(ctx, ev); err != nil {
		a.logger.WarnContext(ctx, "audit write failed", "action", ev.Action, "error", err)
	}
}
