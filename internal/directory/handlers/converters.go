package handlers

import (
	"strconv"

	"github.com/floqer/directory/internal/directory/models"
	"github.com/floqer/directory/internal/directory/normalize"
	"github.com/floqer/directory/internal/directory/slug"
)

// maxCountryBars is the fixed row count of the headcount-by-location chart.
const maxCountryBars = 5

// Profile is the display-ready company page: identity fields plus every
// semi-structured attribute run through its normalizer.
type Profile struct {
	ID            string `json:"id"`
	Slug          string `json:"slug"`
	Name          string `json:"name"`
	LogoURL       string `json:"logoUrl,omitempty"`
	Website       string `json:"website,omitempty"`
	WebsiteDomain string `json:"websiteDomain,omitempty"`
	LinkedInURL   string `json:"linkedinUrl,omitempty"`

	Industry      string `json:"industry,omitempty"`
	HQ            string `json:"hq,omitempty"`
	Address       string `json:"address,omitempty"`
	EmployeeRange string `json:"employeeRange,omitempty"`
	RevenueRange  string `json:"revenueRange,omitempty"`
	CompanyType   string `json:"companyType,omitempty"`
	FundingStage  string `json:"fundingStage,omitempty"`
	Ticker        string `json:"ticker,omitempty"`
	TickerValid   bool   `json:"tickerValid"`
	Description   string `json:"description,omitempty"`

	FoundingYear      *int   `json:"foundingYear,omitempty"`
	LinkedInFollowers *int64 `json:"linkedinFollowers,omitempty"`
	Headcount         *int   `json:"headcount,omitempty"`
	FundingRoundCount *int   `json:"fundingRoundCount,omitempty"`
	TotalFunding      string `json:"totalFunding,omitempty"`
	LatestFundingDate string `json:"latestFundingDate,omitempty"`

	Technologies         []string `json:"technologies"`
	KeyFocusAreas        []string `json:"keyFocusAreas"`
	CountriesOperational []string `json:"countriesOperational"`

	LatestNews          []NewsItem               `json:"latestNews"`
	AffiliatedCompanies []NamedLink              `json:"affiliatedCompanies"`
	Competitors         []NamedLink              `json:"competitors"`
	Leadership          *normalize.Leader        `json:"leadership,omitempty"`
	FundingRounds       []normalize.FundingRound `json:"fundingRounds"`
	HeadcountByCountry  []normalize.CountryCount `json:"headcountByCountry"`
	HeadcountByMonth    []normalize.MonthCount   `json:"headcountByMonth"`
	YoutubeMentions     []VideoMention           `json:"youtubeMentions"`
	RedditMentions      []PostMention            `json:"redditMentions"`
	FAQs                []FAQ                    `json:"faqs"`

	NewsAISummary    string `json:"newsAiSummary,omitempty"`
	YoutubeAISummary string `json:"youtubeAiSummary,omitempty"`
	RedditAISummary  string `json:"redditAiSummary,omitempty"`
}

// NewsItem is one normalized news entry.
type NewsItem struct {
	Title  string `json:"title"`
	Date   string `json:"date,omitempty"`
	URL    string `json:"url,omitempty"`
	Source string `json:"source,omitempty"`
}

// NamedLink is an affiliated company or competitor reference.
type NamedLink struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// VideoMention is one normalized YouTube mention.
type VideoMention struct {
	Title   string `json:"title"`
	Channel string `json:"channel,omitempty"`
	URL     string `json:"url"`
	Views   string `json:"views,omitempty"`
	Date    string `json:"date,omitempty"`
}

// PostMention is one normalized Reddit mention.
type PostMention struct {
	Title     string `json:"title"`
	Subreddit string `json:"subreddit,omitempty"`
	URL       string `json:"url"`
	Date      string `json:"date,omitempty"`
}

// FAQ is one question/answer pair.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// toProfile renders a company record for profile display.
func toProfile(c *models.Company) *Profile {
	p := &Profile{
		ID:            c.ID.String(),
		Slug:          slug.Generate(c.Name),
		Name:          c.Name,
		LogoURL:       c.LogoURL,
		Website:       c.Website,
		WebsiteDomain: normalize.ExtractDomain(c.Website),
		LinkedInURL:   c.LinkedInURL,

		Industry:      c.Industry,
		HQ:            c.HQ,
		Address:       c.Address,
		EmployeeRange: c.EmployeeRange,
		RevenueRange:  c.RevenueRange,
		CompanyType:   c.CompanyType,
		FundingStage:  normalize.FormatFundingStage(c.FundingStage),
		Ticker:        c.Ticker,
		TickerValid:   normalize.IsValidTicker(c.Ticker),
		Description:   c.Description,

		FoundingYear:      c.FoundingYear,
		LinkedInFollowers: c.LinkedInFollowers,
		Headcount:         c.Headcount,
		FundingRoundCount: c.FundingRoundCount,
		LatestFundingDate: normalize.FormatDate(c.LatestFundingDate),

		Technologies:         normalize.StringList(normalize.Decode(c.Technologies)),
		KeyFocusAreas:        normalize.StringList(normalize.Decode(c.KeyFocusAreas)),
		CountriesOperational: normalize.StringList(normalize.Decode(c.CountriesOperational)),

		Leadership:         normalize.Leadership(normalize.Decode(c.Leadership)),
		FundingRounds:      normalize.FundingRounds(normalize.Decode(c.FundingRounds)),
		HeadcountByCountry: normalize.TopCountries(normalize.HeadcountByCountry(normalize.Decode(c.HeadcountByCountry)), maxCountryBars),
		HeadcountByMonth:   normalize.HeadcountByMonth(normalize.Decode(c.HeadcountByMonth)),

		NewsAISummary:    c.NewsAISummary,
		YoutubeAISummary: c.YoutubeAISummary,
		RedditAISummary:  c.RedditAISummary,
	}
	if c.TotalFunding != nil {
		p.TotalFunding = normalize.FormatAmount(c.TotalFunding)
	}

	p.LatestNews = newsItems(c.LatestNews)
	p.AffiliatedCompanies = namedLinks(c.AffiliatedCompanies, false)
	p.Competitors = namedLinks(c.Competitors, true)
	p.YoutubeMentions = videoMentions(c.YoutubeMentions)
	p.RedditMentions = postMentions(c.RedditMentions)
	p.FAQs = faqs(c.FAQs)
	return p
}

func newsItems(raw []byte) []NewsItem {
	rows := normalize.ToList(normalize.Decode(raw))
	out := make([]NewsItem, 0, len(rows))
	for _, rowAny := range rows {
		row, ok := rowAny.(map[string]any)
		if !ok {
			continue
		}
		title := field(row, "title", "Title")
		if title == "" {
			continue
		}
		out = append(out, NewsItem{
			Title:  title,
			Date:   normalize.FormatDate(field(row, "date", "Date")),
			URL:    field(row, "url", "URL", "link"),
			Source: field(row, "source", "Source"),
		})
	}
	return out
}

func namedLinks(raw []byte, cleanNames bool) []NamedLink {
	rows := normalize.ToList(normalize.Decode(raw))
	out := make([]NamedLink, 0, len(rows))
	for _, rowAny := range rows {
		row, ok := rowAny.(map[string]any)
		if !ok {
			continue
		}
		name := field(row, "name", "Name")
		if cleanNames {
			name = normalize.CleanCompetitorName(name)
		}
		if name == "" {
			continue
		}
		link := field(row, "url", "website", "Website")
		if link != "" {
			link = normalize.EnsureHTTPS(link)
		}
		out = append(out, NamedLink{Name: name, URL: link})
	}
	return out
}

func videoMentions(raw []byte) []VideoMention {
	rows := normalize.ToList(normalize.Decode(raw))
	out := make([]VideoMention, 0, len(rows))
	for _, rowAny := range rows {
		row, ok := rowAny.(map[string]any)
		if !ok {
			continue
		}
		title := field(row, "title", "Title")
		if title == "" {
			continue
		}
		channel := field(row, "channel", "Channel")
		link := field(row, "url", "URL")
		if link == "" {
			link = normalize.YoutubeSearchURL(title, channel)
		}
		out = append(out, VideoMention{
			Title:   title,
			Channel: channel,
			URL:     link,
			Views:   field(row, "views", "Views"),
			Date:    normalize.FormatShortDate(field(row, "date", "Date")),
		})
	}
	return out
}

func postMentions(raw []byte) []PostMention {
	rows := normalize.ToList(normalize.Decode(raw))
	out := make([]PostMention, 0, len(rows))
	for _, rowAny := range rows {
		row, ok := rowAny.(map[string]any)
		if !ok {
			continue
		}
		title := field(row, "title", "Title")
		if title == "" {
			continue
		}
		sub := field(row, "subreddit", "Subreddit")
		link := field(row, "url", "URL")
		if link == "" {
			link = normalize.RedditSearchURL(sub, title)
		}
		out = append(out, PostMention{
			Title:     title,
			Subreddit: sub,
			URL:       link,
			Date:      normalize.FormatShortDate(field(row, "date", "Date")),
		})
	}
	return out
}

func faqs(raw []byte) []FAQ {
	rows := normalize.ToList(normalize.Decode(raw))
	out := make([]FAQ, 0, len(rows))
	for _, rowAny := range rows {
		row, ok := rowAny.(map[string]any)
		if !ok {
			continue
		}
		q := field(row, "question", "Question")
		a := field(row, "answer", "Answer")
		if q == "" || a == "" {
			continue
		}
		out = append(out, FAQ{Question: q, Answer: a})
	}
	return out
}

// field returns the first present key as a display string.
func field(row map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := row[k]; ok && v != nil {
			if s, ok := v.(string); ok {
				return s
			}
			if n, ok := normalize.ToNumber(v); ok && n == float64(int64(n)) {
				return strconv.FormatInt(int64(n), 10)
			}
		}
	}
	return ""
}
