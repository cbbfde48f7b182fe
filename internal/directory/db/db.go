// Package db implements the gorm/Postgres repository behind the directory.
// All reads used by page rendering go through here; the query semantics
// (conjunctive facet filters, case-insensitive name search, count over the
// same predicate as the range) live in ListCompanies.
package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	e "github.com/floqer/directory/internal/directory/errors"
	"github.com/floqer/directory/internal/directory/models"
)

// summaryColumns is the fixed column subset fetched for list/card display.
const summaryColumns = "id, name, logo_url, industry, hq, employee_range, stage, funding_stage, company_type, revenue_range"

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// NewRepository connects to Postgres, retrying with exponential backoff
// while the database comes up, and migrates the schema.
func NewRepository(cfg *Config) (*Repository, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	var db *gorm.DB
	connect := func() error {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		return err
	}
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5)
	if err := backoff.Retry(connect, policy); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.Company{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{db: db}, nil
}

// ListCompanies runs the filtered, sorted, paginated list query. The count
// is taken over the same predicate as the range so it reflects the whole
// filtered set. The query must already be normalized.
func (r *Repository) ListCompanies(ctx context.Context, q models.Query) ([]models.CompanySummary, int64, error) {
	base := r.filtered(ctx, q)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "name asc"
	if q.Sort == models.SortDesc {
		order = "name desc"
	}

	var page []models.CompanySummary
	err := r.filtered(ctx, q).
		Select(summaryColumns).
		Order(order).
		Limit(q.Limit).
		Offset(q.Offset()).
		Find(&page).Error
	if err != nil {
		return nil, 0, err
	}
	return page, total, nil
}

// filtered builds the shared filter predicate for count and range queries.
func (r *Repository) filtered(ctx context.Context, q models.Query) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&models.Company{})
	if s := strings.TrimSpace(q.Search); s != "" {
		tx = tx.Where("LOWER(name) LIKE LOWER(?)", "%"+s+"%")
	}
	if q.Stage != models.AllStages {
		tx = tx.Where("funding_stage = ?", q.Stage)
	}
	if q.Type != models.AllTypes {
		tx = tx.Where("company_type = ?", q.Type)
	}
	if q.Size != models.AllSizes {
		tx = tx.Where("employee_range = ?", q.Size)
	}
	if q.Revenue != models.AllRevenue {
		tx = tx.Where("revenue_range = ?", q.Revenue)
	}
	return tx
}

// GetCompany retrieves a company by its primary identifier.
func (r *Repository) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company models.Company
	result := r.db.WithContext(ctx).First(&company, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &company, nil
}

// GetCompanyByName retrieves a company by case-insensitive exact name
// match, supporting legacy name-based slugs.
func (r *Repository) GetCompanyByName(ctx context.Context, name string) (*models.Company, error) {
	var company models.Company
	result := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		First(&company)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &company, nil
}

// SearchCompanyByName retrieves the first company whose name contains the
// given fragment, case-insensitively. Last resort of the slug fallback chain.
func (r *Repository) SearchCompanyByName(ctx context.Context, fragment string) (*models.Company, error) {
	var company models.Company
	result := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE LOWER(?)", "%"+fragment+"%").
		Order("name asc").
		First(&company)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &company, nil
}

// ListAllSummaries returns every record's summary columns, sorted by name
// ascending. Unpaginated: the source for client-side-filtering paths.
func (r *Repository) ListAllSummaries(ctx context.Context) ([]models.CompanySummary, error) {
	var out []models.CompanySummary
	err := r.db.WithContext(ctx).Model(&models.Company{}).
		Select(summaryColumns).
		Order("name asc").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListSitemapRows returns up to limit (name, last_updated) pairs ordered
// by name for sitemap generation.
func (r *Repository) ListSitemapRows(ctx context.Context, limit int) ([]models.SitemapRow, error) {
	var out []models.SitemapRow
	err := r.db.WithContext(ctx).Model(&models.Company{}).
		Select("name, last_updated").
		Order("name asc").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CountCompanies returns the total number of records.
func (r *Repository) CountCompanies(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Company{}).Count(&count).Error
	return count, err
}

// UpsertCompanies inserts the given records, assigning IDs where missing.
// Used by append-mode imports.
func (r *Repository) UpsertCompanies(ctx context.Context, companies []*models.Company) error {
	if len(companies) == 0 {
		return nil
	}
	return r.WithTransaction(ctx, func(repo *Repository) error {
		for _, c := range companies {
			if c.ID == uuid.Nil {
				c.ID = uuid.New()
			}
			var existing models.Company
			err := repo.db.WithContext(ctx).
				Where("LOWER(name) = LOWER(?)", c.Name).
				First(&existing).Error
			switch {
			case err == nil:
				c.ID = existing.ID
				c.CreatedAt = existing.CreatedAt
				if err := repo.db.WithContext(ctx).Save(c).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := repo.db.WithContext(ctx).Create(c).Error; err != nil {
					return err
				}
			default:
				return err
			}
		}
		return nil
	})
}

// ReplaceCompanies wipes the table and inserts the given records in a
// single transaction. Used by replace-mode imports.
func (r *Repository) ReplaceCompanies(ctx context.Context, companies []*models.Company) error {
	return r.WithTransaction(ctx, func(repo *Repository) error {
		if err := repo.db.WithContext(ctx).
			Where("1 = 1").
			Delete(&models.Company{}).Error; err != nil {
			return err
		}
		for _, c := range companies {
			if c.ID == uuid.Nil {
				c.ID = uuid.New()
			}
			if err := repo.db.WithContext(ctx).Create(c).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// WithTransaction runs fn against a transactional repository.
func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
