package service

import (
	"context"
	"fmt"

	"github.com/frotalog/frotalog/internal/domain"
	"github.com/frotalog/frotalog/internal/repo"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// AuditService reads the audit log written by the events subscriber.
type AuditService struct {
	repo repo.AuditRepo
}

// NewAuditService constructs an AuditService.
func NewAuditService(r repo.AuditRepo) *AuditService {
	return &AuditService{repo: r}
}

// Recent returns the newest entries. A nil or non-positive limit means 50;
// limits above 500 are capped.
func (s *AuditService) Recent(ctx context.Context, limit *int) ([]domain.AuditEntry, error) {
	n := defaultAuditLimit
	if limit != nil && *limit > 0 {
		n = min(*limit, maxAuditLimit)
	}

	entries, err := s.repo.ListRecent(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("service.AuditService.Recent: %w", err)
	}
	return entries, nil
}
