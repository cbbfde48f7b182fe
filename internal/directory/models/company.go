// Package models defines the core domain models for the directory:
// the Company record, the list-view summary projection, and the
// query/pagination types used by the list endpoint.
package models

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
)

// Company is one directory record. The semi-structured attributes are kept
// as raw JSON exactly as imported; the normalize package coerces them into
// display shapes at read time.
type Company struct {
	// ID is the unique identifier for the company.
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	// Name is the company's name, also the legacy slug key.
	Name        string `gorm:"uniqueIndex;size:255" json:"name"`
	LogoURL     string `json:"logoUrl,omitempty"`
	Website     string `json:"website,omitempty"`
	LinkedInURL string `json:"linkedinUrl,omitempty"`

	Industry      string `json:"industry,omitempty"`
	HQ            string `json:"hq,omitempty"`
	Address       string `json:"address,omitempty"`
	EmployeeRange string `json:"employeeRange,omitempty"`
	RevenueRange  string `json:"revenueRange,omitempty"`
	Stage         string `json:"stage,omitempty"`
	FundingStage  string `json:"fundingStage,omitempty"`
	CompanyType   string `json:"companyType,omitempty"`
	Ticker        string `json:"ticker,omitempty"`
	PricingModel  json.RawMessage `gorm:"type:jsonb" json:"pricingModel,omitempty"`

	Description string `gorm:"size:5000" json:"description,omitempty"`

	LinkedInFollowers *int64 `json:"linkedinFollowers,omitempty"`
	SICCode           *int   `json:"sicCode,omitempty"`
	NAICSCode         *int   `json:"naicsCode,omitempty"`
	FoundingYear      *int   `json:"foundingYear,omitempty"`
	Headcount         *int   `json:"headcount,omitempty"`

	FundingRoundCount *int     `json:"fundingRoundCount,omitempty"`
	TotalFunding      *float64 `json:"totalFunding,omitempty"`
	LatestFundingDate string   `json:"latestFundingDate,omitempty"`

	// Semi-structured attributes. Any of these may hold an array, a single
	// object, or a JSON-encoded (possibly malformed) string.
	CountriesOperational json.RawMessage `gorm:"type:jsonb" json:"countriesOperational,omitempty"`
	Technologies         json.RawMessage `gorm:"type:jsonb" json:"technologies,omitempty"`
	KeyFocusAreas        json.RawMessage `gorm:"type:jsonb" json:"keyFocusAreas,omitempty"`
	LatestNews           json.RawMessage `gorm:"type:jsonb" json:"latestNews,omitempty"`
	AffiliatedCompanies  json.RawMessage `gorm:"type:jsonb" json:"affiliatedCompanies,omitempty"`
	Competitors          json.RawMessage `gorm:"type:jsonb" json:"competitors,omitempty"`
	Leadership           json.RawMessage `gorm:"type:jsonb" json:"leadership,omitempty"`
	FundingStages        json.RawMessage `gorm:"type:jsonb" json:"fundingStages,omitempty"`
	FundingRounds        json.RawMessage `gorm:"type:jsonb" json:"fundingRounds,omitempty"`
	HeadcountByCountry   json.RawMessage `gorm:"type:jsonb" json:"headcountByCountry,omitempty"`
	HeadcountByMonth     json.RawMessage `gorm:"type:jsonb" json:"headcountByMonth,omitempty"`
	YoutubeMentions      json.RawMessage `gorm:"type:jsonb" json:"youtubeMentions,omitempty"`
	RedditMentions       json.RawMessage `gorm:"type:jsonb" json:"redditMentions,omitempty"`
	FAQs                 json.RawMessage `gorm:"type:jsonb" json:"faqs,omitempty"`

	NewsAISummary    string `json:"newsAiSummary,omitempty"`
	YoutubeAISummary string `json:"youtubeAiSummary,omitempty"`
	RedditAISummary  string `json:"redditAiSummary,omitempty"`

	LastUpdated string    `json:"lastUpdated,omitempty"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// CompanySummary is the column subset needed for list/card display.
type CompanySummary struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	LogoURL       string    `json:"logoUrl,omitempty"`
	Industry      string    `json:"industry,omitempty"`
	HQ            string    `json:"hq,omitempty"`
	EmployeeRange string    `json:"employeeRange,omitempty"`
	Stage         string    `json:"stage,omitempty"`
	FundingStage  string    `json:"fundingStage,omitempty"`
	CompanyType   string    `json:"companyType,omitempty"`
	RevenueRange  string    `json:"revenueRange,omitempty"`
}

// SitemapRow carries the two columns the sitemap needs.
type SitemapRow struct {
	Name        string
	LastUpdated string
}

// Pagination defaults and bounds.
const (
	DefaultPageSize = 24
	MaxPageSize     = 100
)

// Filter sentinels meaning "no filter" for the corresponding facet.
const (
	AllStages  = "All Stages"
	AllTypes   = "All Types"
	AllSizes   = "All Sizes"
	AllRevenue = "All Revenue"
)

// Sort directions accepted by the list endpoint.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Fixed facet enumerations presented by the directory UI.
var (
	Stages = []string{
		AllStages, "Seed", "Series A", "Series B", "Series C", "Series D",
		"Series E", "Series F", "Corporate", "IPO", "Private Equity",
	}
	Types = []string{AllTypes, "Public", "Private"}
	Sizes = []string{
		AllSizes, "1-10", "11-50", "51-200", "201-500", "501-1000",
		"1001-5000", "5001-10000", "10001+",
	}
	Revenues = []string{
		AllRevenue, "<1M", "1M-10M", "10M-50M", "50M-100M", "100M-500M",
		"500M-1B", "1B-10B", "10B+",
	}
)

// Query holds the list endpoint's request parameters.
type Query struct {
	Search  string `json:"search"`
	Page    int    `json:"page"`
	Limit   int    `json:"limit"`
	Stage   string `json:"stage"`
	Type    string `json:"type"`
	Size    string `json:"size"`
	Revenue string `json:"revenue"`
	Sort    string `json:"sort"`
}

// Normalize applies defaults and clamps the query to valid ranges:
// page >= 1, limit in [1, MaxPageSize], sort either asc or desc.
func (q Query) Normalize() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = DefaultPageSize
	}
	if q.Limit < 1 {
		q.Limit = 1
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	if q.Stage == "" {
		q.Stage = AllStages
	}
	if q.Type == "" {
		q.Type = AllTypes
	}
	if q.Size == "" {
		q.Size = AllSizes
	}
	if q.Revenue == "" {
		q.Revenue = AllRevenue
	}
	if q.Sort != SortDesc {
		q.Sort = SortAsc
	}
	return q
}

// Offset returns the range offset for the normalized query.
func (q Query) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Pagination describes the position of a page within the filtered set.
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	PageSize     int   `json:"pageSize"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

// Page is one page of list results plus its pagination metadata.
type Page struct {
	Companies  []CompanySummary
	Pagination Pagination
}

// NewPagination computes pagination metadata from the normalized query, the
// exact filtered count, and the number of records actually returned.
func NewPagination(q Query, totalItems int64, returned int) Pagination {
	totalPages := int(math.Ceil(float64(totalItems) / float64(q.Limit)))
	return Pagination{
		CurrentPage:  q.Page,
		TotalPages:   totalPages,
		TotalItems:   totalItems,
		PageSize:     q.Limit,
		HasNextPage:  q.Page < totalPages,
		HasPrevPage:  q.Page > 1,
		ItemsPerPage: returned,
	}
}
