// Package csvimport maps uploaded CSV content onto the company schema.
// Recognized headers are resolved through a fixed alias table; values are
// coerced per destination column. Coercion failures are warnings, a
// missing company name is a row-level error, and a CSV without any
// name column at all fails before row processing.
package csvimport

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/floqer/directory/internal/directory/models"
	"github.com/floqer/directory/internal/directory/normalize"
)

// Canonical column names of the import schema. The company name keeps its
// legacy vendor name W2 on the CSV side.
const (
	colName           = "W2"
	colLogoURL        = "Company Logo URL"
	colIndustry       = "Company Industry"
	colHQ             = "HQ"
	colAddress        = "Company Address"
	colEmployeeRange  = "Employee Range"
	colStage          = "Stage"
	colFundingStage   = "Current Funding Stage"
	colCompanyType    = "Public or Private Company Type"
	colRevenueRange   = "Revenue Range"
	colTicker         = "Ticker"
	colWebsite        = "Website"
	colLinkedInURL    = "LinkedIn Company Page URL"
	colLinkedInCount  = "LinkedIn Followers"
	colDescription    = "Business Description"
	colSICCode        = "SIC Code"
	colNAICSCode      = "NAICS Code"
	colFoundingYear   = "Founding Year"
	colCountries      = "Countries Operational"
	colTechnologies   = "Technologies"
	colFocusAreas     = "Key Focus Areas"
	colLatestNews     = "Latest News"
	colAffiliates     = "Affiliated Companies"
	colCompetitors    = "Competitors"
	colLeadership     = "Leadership"
	colRoundCount     = "Number of Funding Rounds"
	colTotalFunding   = "Total Funding"
	colFundingDate    = "Latest Funding Date"
	colFundingStages  = "Funding Stages"
	colHeadcount      = "Employee Headcount"
	colHCByCountry    = "Employee Headcount by Country"
	colHCByMonth      = "Employee HeadCount by Month"
	colYoutube        = "Youtube Mentions"
	colReddit         = "Reddit Mentions"
	colFAQs           = "FAQs"
	colFundingRounds  = "Funding Rounds"
	colPricingModel   = "Pricing Model"
	colNewsSummary    = "News AI Summary"
	colYoutubeSummary = "YouTube AI Summary"
	colRedditSummary  = "Reddit AI Summary"
	colLastUpdated    = "Last Updated"
)

type columnAlias struct {
	Header string
	Column string
}

// columnAliases maps every accepted CSV header onto its canonical column,
// in template order. Several headers are historical alternates.
var columnAliases = []columnAlias{
	{"W2", colName},
	{"Company Name", colName},
	{"Company Logo URL", colLogoURL},
	{"Logo", colLogoURL},
	{"Company Industry", colIndustry},
	{"Industry", colIndustry},
	{"HQ", colHQ},
	{"Location", colHQ},
	{"Company Address", colAddress},
	{"Address", colAddress},
	{"Employee Range", colEmployeeRange},
	{"Size", colEmployeeRange},
	{"Stage", colStage},
	{"Current Funding Stage", colFundingStage},
	{"Funding Stage", colFundingStage},
	{"Public or Private Company Type", colCompanyType},
	{"Company Type", colCompanyType},
	{"Revenue Range", colRevenueRange},
	{"Revenue", colRevenueRange},
	{"Ticker", colTicker},
	{"Website", colWebsite},
	{"LinkedIn Company Page URL", colLinkedInURL},
	{"LinkedIn", colLinkedInURL},
	{"LinkedIn Followers", colLinkedInCount},
	{"Business Description", colDescription},
	{"Description", colDescription},
	{"SIC Code", colSICCode},
	{"NAICS Code", colNAICSCode},
	{"Founding Year", colFoundingYear},
	{"Countries Operational", colCountries},
	{"Technologies", colTechnologies},
	{"Tech Stack", colTechnologies},
	{"Key Focus Areas", colFocusAreas},
	{"Focus Areas", colFocusAreas},
	{"Latest News", colLatestNews},
	{"News", colLatestNews},
	{"Affiliated Companies", colAffiliates},
	{"Affiliates", colAffiliates},
	{"Competitors", colCompetitors},
	{"Leadership", colLeadership},
	{"Number of Funding Rounds", colRoundCount},
	{"Total Funding", colTotalFunding},
	{"Latest Funding Date", colFundingDate},
	{"Funding Stages", colFundingStages},
	{"Employee Headcount", colHeadcount},
	{"Employee Headcount by Country", colHCByCountry},
	{"Employee HeadCount by Month", colHCByMonth},
	{"Youtube Mentions", colYoutube},
	{"YouTube", colYoutube},
	{"Reddit Mentions", colReddit},
	{"Reddit", colReddit},
	{"FAQs", colFAQs},
	{"Funding Rounds", colFundingRounds},
	{"Pricing Model", colPricingModel},
	{"Pricing", colPricingModel},
	{"News AI Summary", colNewsSummary},
	{"YouTube AI Summary", colYoutubeSummary},
	{"Reddit AI Summary", colRedditSummary},
	{"Last Updated", colLastUpdated},
	{"Updated", colLastUpdated},
}

// Result is the structured import report.
type Result struct {
	IsValid        bool              `json:"isValid"`
	Errors         []string          `json:"errors"`
	Warnings       []string          `json:"warnings"`
	RemovedColumns []string          `json:"removedColumns"`
	Companies      []*models.Company `json:"-"`
}

// ParseCSV reads an uploaded CSV into a header list and per-row value
// maps keyed by the trimmed header names. Ragged rows are tolerated.
func ParseCSV(r io.Reader) ([]map[string]string, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("csv is empty")
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(headers))
		for i, v := range record {
			if i < len(headers) {
				row[headers[i]] = v
			}
		}
		rows = append(rows, row)
	}
	return rows, headers, nil
}

// ValidateAndMap maps parsed CSV rows onto company records. Headers not in
// the alias table are reported as removed; a CSV without any company-name
// column short-circuits before row processing.
func ValidateAndMap(rows []map[string]string, headers []string) *Result {
	result := &Result{
		Errors:         []string{},
		Warnings:       []string{},
		RemovedColumns: []string{},
	}

	aliasFor := make(map[string]string, len(columnAliases))
	for _, a := range columnAliases {
		aliasFor[strings.ToLower(a.Header)] = a.Column
	}

	nameColumn := false
	for _, h := range headers {
		col, ok := aliasFor[strings.ToLower(strings.TrimSpace(h))]
		if !ok {
			result.RemovedColumns = append(result.RemovedColumns, strings.TrimSpace(h))
			continue
		}
		if col == colName {
			nameColumn = true
		}
	}
	if !nameColumn {
		result.Errors = append(result.Errors, fmt.Sprintf("Missing required column: %s", colName))
		return result
	}

	for i, row := range rows {
		company := &models.Company{}
		for _, a := range columnAliases {
			value, ok := row[a.Header]
			if !ok || value == "" {
				continue
			}
			if warn := setColumn(company, a.Column, value); warn != "" {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("Row %d: %s for %s", i+1, warn, a.Header))
			}
		}

		if company.Name == "" {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Row %d: company name (%s) is required", i+1, colName))
			continue
		}
		result.Companies = append(result.Companies, company)
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

// Template returns the CSV header template covering every accepted header.
func Template() string {
	headers := make([]string, len(columnAliases))
	for i, a := range columnAliases {
		headers[i] = a.Header
	}
	return strings.Join(headers, ",") + "\n"
}

// setColumn coerces one CSV value into its destination field. It returns
// a warning message for soft coercion failures and leaves the field unset.
func setColumn(c *models.Company, column, value string) string {
	switch column {
	case colName:
		c.Name = strings.TrimSpace(value)
	case colIndustry:
		c.Industry = strings.TrimSpace(value)
	case colHQ:
		c.HQ = strings.TrimSpace(value)
	case colAddress:
		c.Address = strings.TrimSpace(value)
	case colEmployeeRange:
		c.EmployeeRange = strings.TrimSpace(value)
	case colStage:
		c.Stage = strings.TrimSpace(value)
	case colFundingStage:
		c.FundingStage = strings.TrimSpace(value)
	case colCompanyType:
		c.CompanyType = strings.TrimSpace(value)
	case colRevenueRange:
		c.RevenueRange = strings.TrimSpace(value)
	case colTicker:
		c.Ticker = strings.TrimSpace(value)
	case colDescription:
		c.Description = strings.TrimSpace(value)
	case colNewsSummary:
		c.NewsAISummary = strings.TrimSpace(value)
	case colYoutubeSummary:
		c.YoutubeAISummary = strings.TrimSpace(value)
	case colRedditSummary:
		c.RedditAISummary = strings.TrimSpace(value)
	case colLastUpdated:
		c.LastUpdated = strings.TrimSpace(value)

	case colLogoURL:
		c.LogoURL = strings.TrimSpace(value)
	case colWebsite:
		c.Website = strings.TrimSpace(value)
	case colLinkedInURL:
		c.LinkedInURL = strings.TrimSpace(value)

	case colLinkedInCount:
		n, ok := parseNumber(value)
		if !ok {
			return "unparseable number"
		}
		v := int64(n)
		c.LinkedInFollowers = &v
	case colSICCode:
		return setIntField(&c.SICCode, value)
	case colNAICSCode:
		return setIntField(&c.NAICSCode, value)
	case colFoundingYear:
		return setIntField(&c.FoundingYear, value)
	case colRoundCount:
		return setIntField(&c.FundingRoundCount, value)
	case colHeadcount:
		return setIntField(&c.Headcount, value)
	case colTotalFunding:
		n, ok := parseNumber(value)
		if !ok {
			return "unparseable number"
		}
		c.TotalFunding = &n

	case colFundingDate:
		c.LatestFundingDate = normalize.FormatDate(strings.TrimSpace(value))

	case colCountries:
		c.CountriesOperational = stringListJSON(value)
	case colTechnologies:
		c.Technologies = stringListJSON(value)
	case colFocusAreas:
		c.KeyFocusAreas = stringListJSON(value)

	case colLatestNews:
		c.LatestNews = listJSON(value)
	case colAffiliates:
		c.AffiliatedCompanies = listJSON(value)
	case colCompetitors:
		c.Competitors = listJSON(value)
	case colLeadership:
		// Stored raw; the leadership normalizer repairs and parses at read time.
		raw, err := json.Marshal(value)
		if err != nil {
			return "unencodable value"
		}
		c.Leadership = raw
	case colFundingStages:
		c.FundingStages = listJSON(value)
	case colFundingRounds:
		c.FundingRounds = listJSON(value)
	case colHCByCountry:
		c.HeadcountByCountry = listJSON(value)
	case colHCByMonth:
		c.HeadcountByMonth = listJSON(value)
	case colYoutube:
		c.YoutubeMentions = listJSON(value)
	case colReddit:
		c.RedditMentions = listJSON(value)
	case colFAQs:
		c.FAQs = listJSON(value)
	case colPricingModel:
		c.PricingModel = listJSON(value)
	}
	return ""
}

// parseNumber strips thousands separators before parsing.
func parseNumber(value string) (float64, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if cleaned == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func setIntField(dst **int, value string) string {
	n, ok := parseNumber(value)
	if !ok {
		return "unparseable number"
	}
	v := int(n)
	*dst = &v
	return ""
}

// stringListJSON parses a JSON string array, falling back to comma
// splitting, and re-encodes the result for storage.
func stringListJSON(value string) json.RawMessage {
	items := normalize.StringList(value)
	if len(items) == 0 {
		parts := strings.Split(value, ",")
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				items = append(items, s)
			}
		}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil
	}
	return raw
}

// listJSON runs the generic list normalizer and re-encodes the result.
func listJSON(value string) json.RawMessage {
	raw, err := json.Marshal(normalize.ToList(value))
	if err != nil {
		return nil
	}
	return raw
}
