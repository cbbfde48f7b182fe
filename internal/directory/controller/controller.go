// Package controller implements the business logic (service layer) for the
// directory: the list query, the slug lookup fallback chain, sitemap
// enumeration, and CSV import orchestration.
package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/floqer/directory/internal/directory/csvimport"
	e "github.com/floqer/directory/internal/directory/errors"
	"github.com/floqer/directory/internal/directory/events"
	"github.com/floqer/directory/internal/directory/models"
	"github.com/floqer/directory/internal/directory/slug"
)

// ImportMode selects how an import treats existing records.
type ImportMode string

const (
	ModeAppend  ImportMode = "append"
	ModeReplace ImportMode = "replace"
)

// Repository defines the storage interface for directory records.
type Repository interface {
	ListCompanies(ctx context.Context, q models.Query) ([]models.CompanySummary, int64, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	GetCompanyByName(ctx context.Context, name string) (*models.Company, error)
	SearchCompanyByName(ctx context.Context, fragment string) (*models.Company, error)
	ListAllSummaries(ctx context.Context) ([]models.CompanySummary, error)
	ListSitemapRows(ctx context.Context, limit int) ([]models.SitemapRow, error)
	UpsertCompanies(ctx context.Context, companies []*models.Company) error
	ReplaceCompanies(ctx context.Context, companies []*models.Company) error
	CountCompanies(ctx context.Context) (int64, error)
	Close() error
}

// EventProducer publishes import lifecycle events.
type EventProducer interface {
	Produce(eventType events.EventType, report *events.ImportReport)
}

// DirectoryService provides directory operations over a repository and an
// event producer.
type DirectoryService struct {
	repo     Repository
	producer EventProducer
	logger   *zap.Logger
}

// NewDirectoryService constructs a DirectoryService.
func NewDirectoryService(repo Repository, producer EventProducer, logger *zap.Logger) *DirectoryService {
	return &DirectoryService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("directory_service"),
	}
}

// ListCompanies runs the filtered, paginated list query and computes the
// pagination metadata. Database errors abort the request; there are no
// partial results.
func (s *DirectoryService) ListCompanies(ctx context.Context, q models.Query) (*models.Page, error) {
	q = q.Normalize()

	companies, total, err := s.repo.ListCompanies(ctx, q)
	if err != nil {
		s.logger.Error("list query failed",
			zap.Error(err),
			zap.String("search", q.Search),
			zap.String("stage", q.Stage),
			zap.String("type", q.Type),
			zap.String("size", q.Size),
			zap.String("revenue", q.Revenue),
			zap.Int("page", q.Page),
		)
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}

	s.logger.Info("companies fetched",
		zap.Int("count", len(companies)),
		zap.Int64("total_items", total),
		zap.Int("page", q.Page),
	)

	return &models.Page{
		Companies:  companies,
		Pagination: models.NewPagination(q, total, len(companies)),
	}, nil
}

// GetCompanyBySlug resolves a URL path segment to a company: primary
// lookup by UUID, then case-insensitive exact name match for legacy
// name-based slugs, then a substring match as a last resort. Returns nil
// when nothing matches. Backend errors are logged and degraded to nil so
// the caller renders a not-found page rather than an error page.
func (s *DirectoryService) GetCompanyBySlug(ctx context.Context, sl string) *models.Company {
	if id, err := uuid.Parse(sl); err == nil {
		company, err := s.repo.GetCompany(ctx, id)
		if err == nil {
			return company
		}
		if !errors.Is(err, e.ErrNotFound) {
			s.logger.Error("id lookup failed", zap.Error(err), zap.String("slug", sl))
			return nil
		}
	}

	name := slug.ToName(sl)
	company, err := s.repo.GetCompanyByName(ctx, name)
	if err == nil {
		return company
	}
	if !errors.Is(err, e.ErrNotFound) {
		s.logger.Error("name lookup failed", zap.Error(err), zap.String("slug", sl))
		return nil
	}

	company, err = s.repo.SearchCompanyByName(ctx, name)
	if err != nil {
		if !errors.Is(err, e.ErrNotFound) {
			s.logger.Error("fuzzy lookup failed", zap.Error(err), zap.String("slug", sl))
		}
		return nil
	}
	return company
}

// ListAllCompanies returns every record's summary columns sorted by name.
// Backend errors degrade to an empty list.
func (s *DirectoryService) ListAllCompanies(ctx context.Context) []models.CompanySummary {
	companies, err := s.repo.ListAllSummaries(ctx)
	if err != nil {
		s.logger.Error("list all failed", zap.Error(err))
		return []models.CompanySummary{}
	}
	return companies
}

// SitemapRows returns up to limit rows for sitemap generation, degrading
// to an empty list on backend errors so the caller can fall back to the
// minimal sitemap.
func (s *DirectoryService) SitemapRows(ctx context.Context, limit int) []models.SitemapRow {
	rows, err := s.repo.ListSitemapRows(ctx, limit)
	if err != nil {
		s.logger.Error("sitemap query failed", zap.Error(err))
		return nil
	}
	return rows
}

// ImportCSV validates parsed CSV content and persists the mapped records
// in the requested mode. Row-level problems are reported, not fatal; an
// invalid import (missing name column or name-less rows) is rejected
// before any write.
func (s *DirectoryService) ImportCSV(ctx context.Context, rows []map[string]string, headers []string, mode ImportMode) (*csvimport.Result, error) {
	if mode != ModeAppend && mode != ModeReplace {
		return nil, fmt.Errorf("%w: unknown import mode %q", e.ErrInvalidInput, mode)
	}

	result := csvimport.ValidateAndMap(rows, headers)
	if !result.IsValid {
		return result, fmt.Errorf("%w: csv validation failed", e.ErrInvalidInput)
	}

	var err error
	if mode == ModeReplace {
		err = s.repo.ReplaceCompanies(ctx, result.Companies)
	} else {
		err = s.repo.UpsertCompanies(ctx, result.Companies)
	}
	if err != nil {
		s.logger.Error("import write failed",
			zap.Error(err),
			zap.String("mode", string(mode)),
			zap.Int("rows", len(result.Companies)),
		)
		return result, fmt.Errorf("failed to import companies: %w", err)
	}

	s.logger.Info("import completed",
		zap.String("mode", string(mode)),
		zap.Int("uploaded", len(result.Companies)),
		zap.Int("warnings", len(result.Warnings)),
		zap.Strings("removed_columns", result.RemovedColumns),
	)

	report := &events.ImportReport{
		Mode:           string(mode),
		Uploaded:       len(result.Companies),
		Warnings:       len(result.Warnings),
		RemovedColumns: result.RemovedColumns,
	}
	go func() {
		s.producer.Produce(events.ImportCompleted, report)
	}()

	return result, nil
}
