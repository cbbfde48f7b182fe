package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	e "github.com/floqer/directory/internal/directory/errors"
	"github.com/floqer/directory/internal/directory/models"
)

// SetupTestDB initializes an in-memory SQLite database for testing.
func SetupTestDB(t *testing.T) *Repository {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open test database")

	err = db.AutoMigrate(&models.Company{})
	require.NoError(t, err, "failed to migrate test database")

	return &Repository{db: db}
}

func seed(t *testing.T, repo *Repository, companies ...*models.Company) {
	t.Helper()
	for _, c := range companies {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		require.NoError(t, repo.db.Create(c).Error, "seeding %s should succeed", c.Name)
	}
}

func TestGetCompany(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	company := &models.Company{ID: uuid.New(), Name: "Existing Company"}
	seed(t, repo, company)

	result, err := repo.GetCompany(ctx, company.ID)
	assert.NoError(t, err, "GetCompany should succeed")
	assert.Equal(t, company.ID, result.ID, "Company ID should match")
}

func TestGetCompanyNotFound(t *testing.T) {
	repo := SetupTestDB(t)

	_, err := repo.GetCompany(context.Background(), uuid.New())
	assert.ErrorIs(t, err, e.ErrNotFound, "GetCompany should return ErrNotFound for non-existent company")
}

func TestGetCompanyByNameCaseInsensitive(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	seed(t, repo, &models.Company{Name: "Floqer Analytics"})

	result, err := repo.GetCompanyByName(ctx, "floqer analytics")
	require.NoError(t, err, "lookup should match regardless of case")
	assert.Equal(t, "Floqer Analytics", result.Name)

	_, err = repo.GetCompanyByName(ctx, "No Such Company")
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestSearchCompanyByName(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	seed(t, repo,
		&models.Company{Name: "Zeta Floqer"},
		&models.Company{Name: "Alpha Floqer"},
		&models.Company{Name: "Globex"},
	)

	result, err := repo.SearchCompanyByName(ctx, "FLOQ")
	require.NoError(t, err, "substring search should succeed")
	assert.Equal(t, "Alpha Floqer", result.Name, "first match in name order wins")

	_, err = repo.SearchCompanyByName(ctx, "nomatch")
	assert.ErrorIs(t, err, e.ErrNotFound)
}

// TestListCompaniesPagination covers the core list scenario: 25 records
// match both the search term and the stage filter, and page 2 with limit
// 10 sorted descending returns exactly the middle ten, with the count
// reflecting all 25 matches.
func TestListCompaniesPagination(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	for i := 1; i <= 25; i++ {
		seed(t, repo, &models.Company{
			Name:         fmt.Sprintf("Floqer %02d", i),
			FundingStage: "Series A",
		})
	}
	// Noise that must not appear: wrong stage or non-matching name.
	seed(t, repo,
		&models.Company{Name: "Floqer Seed Co", FundingStage: "Seed"},
		&models.Company{Name: "Globex", FundingStage: "Series A"},
	)

	q := models.Query{
		Search: "floq",
		Stage:  "Series A",
		Page:   2,
		Limit:  10,
		Sort:   models.SortDesc,
	}.Normalize()

	page, total, err := repo.ListCompanies(ctx, q)
	require.NoError(t, err, "ListCompanies should succeed")
	assert.Equal(t, int64(25), total, "count covers the whole filtered set")
	require.Len(t, page, 10)
	assert.Equal(t, "Floqer 15", page[0].Name, "descending page 2 starts at record 11")
	assert.Equal(t, "Floqer 06", page[9].Name)
}

func TestListCompaniesDefaults(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	seed(t, repo,
		&models.Company{Name: "Beta", FundingStage: "Seed", CompanyType: "Private"},
		&models.Company{Name: "Alpha", FundingStage: "Series B", CompanyType: "Public"},
	)

	page, total, err := repo.ListCompanies(ctx, models.Query{}.Normalize())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total, "sentinel filters match everything")
	require.Len(t, page, 2)
	assert.Equal(t, "Alpha", page[0].Name, "default sort is name ascending")
}

func TestListCompaniesConjunctiveFilters(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	seed(t, repo,
		&models.Company{Name: "Match", FundingStage: "Series A", CompanyType: "Private", EmployeeRange: "11-50", RevenueRange: "1M-10M"},
		&models.Company{Name: "Wrong Type", FundingStage: "Series A", CompanyType: "Public", EmployeeRange: "11-50", RevenueRange: "1M-10M"},
		&models.Company{Name: "Wrong Size", FundingStage: "Series A", CompanyType: "Private", EmployeeRange: "1-10", RevenueRange: "1M-10M"},
	)

	q := models.Query{
		Stage:   "Series A",
		Type:    "Private",
		Size:    "11-50",
		Revenue: "1M-10M",
	}.Normalize()

	page, total, err := repo.ListCompanies(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, page, 1)
	assert.Equal(t, "Match", page[0].Name)
}

func TestListCompaniesPageBeyondEnd(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	seed(t, repo, &models.Company{Name: "Only One"})

	q := models.Query{Page: 5, Limit: 10}.Normalize()
	page, total, err := repo.ListCompanies(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Empty(t, page, "pages past the end are empty, not errors")
}

func TestListAllSummaries(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	seed(t, repo,
		&models.Company{Name: "Charlie", Industry: "Fintech"},
		&models.Company{Name: "Alice"},
		&models.Company{Name: "Bob"},
	)

	out, err := repo.ListAllSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, []string{"Alice", "Bob", "Charlie"}, []string{out[0].Name, out[1].Name, out[2].Name})
	assert.Equal(t, "Fintech", out[2].Industry)
}

func TestListSitemapRows(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	seed(t, repo,
		&models.Company{Name: "Beta", LastUpdated: "2024-02-01"},
		&models.Company{Name: "Alpha", LastUpdated: "2024-01-01"},
		&models.Company{Name: "Gamma", LastUpdated: "2024-03-01"},
	)

	rows, err := repo.ListSitemapRows(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2, "limit caps the result")
	assert.Equal(t, "Alpha", rows[0].Name)
	assert.Equal(t, "2024-01-01", rows[0].LastUpdated)
	assert.Equal(t, "Beta", rows[1].Name)
}

func TestCountCompanies(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	count, err := repo.CountCompanies(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	seed(t, repo, &models.Company{Name: "A"}, &models.Company{Name: "B"})

	count, err = repo.CountCompanies(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

// TestUpsertCompanies verifies append-mode semantics: new names insert,
// existing names update in place keeping their identifier.
func TestUpsertCompanies(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	existing := &models.Company{Name: "Floqer", Industry: "Sales Intelligence"}
	seed(t, repo, existing)

	err := repo.UpsertCompanies(ctx, []*models.Company{
		{Name: "floqer", Industry: "Data"},
		{Name: "Brand New Co"},
	})
	require.NoError(t, err, "UpsertCompanies should succeed")

	count, err := repo.CountCompanies(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count, "matching name updates instead of inserting")

	updated, err := repo.GetCompany(ctx, existing.ID)
	require.NoError(t, err, "existing identifier survives the upsert")
	assert.Equal(t, "Data", updated.Industry)

	_, err = repo.GetCompanyByName(ctx, "Brand New Co")
	assert.NoError(t, err)
}

func TestUpsertCompaniesEmpty(t *testing.T) {
	repo := SetupTestDB(t)
	assert.NoError(t, repo.UpsertCompanies(context.Background(), nil))
}

// TestReplaceCompanies verifies replace-mode semantics: the previous
// contents are gone and only the new records remain.
func TestReplaceCompanies(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	seed(t, repo, &models.Company{Name: "Old One"}, &models.Company{Name: "Old Two"})

	err := repo.ReplaceCompanies(ctx, []*models.Company{{Name: "Fresh"}})
	require.NoError(t, err, "ReplaceCompanies should succeed")

	count, err := repo.CountCompanies(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = repo.GetCompanyByName(ctx, "Old One")
	assert.ErrorIs(t, err, e.ErrNotFound)

	_, err = repo.GetCompanyByName(ctx, "Fresh")
	assert.NoError(t, err)
}
