package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/floqer/directory/internal/directory/controller"
	"github.com/floqer/directory/internal/directory/csvimport"
	e "github.com/floqer/directory/internal/directory/errors"
	"github.com/floqer/directory/internal/directory/models"
)

// maxUploadBytes bounds admin CSV uploads.
const maxUploadBytes = 32 << 20

// DirectoryController defines the business logic interface the HTTP
// handlers invoke.
type DirectoryController interface {
	ListCompanies(ctx context.Context, q models.Query) (*models.Page, error)
	GetCompanyBySlug(ctx context.Context, slug string) *models.Company
	ListAllCompanies(ctx context.Context) []models.CompanySummary
	SitemapRows(ctx context.Context, limit int) []models.SitemapRow
	ImportCSV(ctx context.Context, rows []map[string]string, headers []string, mode controller.ImportMode) (*csvimport.Result, error)
}

// DirectoryHandler serves the directory's HTTP endpoints.
type DirectoryHandler struct {
	svc          DirectoryController
	logger       *zap.Logger
	siteURL      string
	sitemapLimit int
}

// NewDirectoryHandler constructs a DirectoryHandler.
func NewDirectoryHandler(svc DirectoryController, logger *zap.Logger, siteURL string, sitemapLimit int) *DirectoryHandler {
	return &DirectoryHandler{
		svc:          svc,
		logger:       logger.Named("http"),
		siteURL:      siteURL,
		sitemapLimit: sitemapLimit,
	}
}

// filterEcho mirrors the request's filter parameters back in the response.
type filterEcho struct {
	Search  string `json:"search"`
	Stage   string `json:"stage"`
	Type    string `json:"type"`
	Size    string `json:"size"`
	Revenue string `json:"revenue"`
	Sort    string `json:"sort"`
}

type listResponse struct {
	Data       []models.CompanySummary `json:"data"`
	Pagination models.Pagination       `json:"pagination"`
	Filters    filterEcho              `json:"filters"`
}

// ListCompanies handles GET /api/companies.
func (h *DirectoryHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	q := queryFromRequest(r)

	page, err := h.svc.ListCompanies(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch companies")
		return
	}

	norm := q.Normalize()
	writeJSON(w, http.StatusOK, listResponse{
		Data:       page.Companies,
		Pagination: page.Pagination,
		Filters: filterEcho{
			Search:  norm.Search,
			Stage:   norm.Stage,
			Type:    norm.Type,
			Size:    norm.Size,
			Revenue: norm.Revenue,
			Sort:    norm.Sort,
		},
	})
}

// GetCompany handles GET /api/companies/{slug}: id lookup with legacy
// name fallbacks, rendering the normalized profile.
func (h *DirectoryHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	sl := mux.Vars(r)["slug"]

	company := h.svc.GetCompanyBySlug(r.Context(), sl)
	if company == nil {
		writeError(w, http.StatusNotFound, "company not found")
		return
	}

	writeJSON(w, http.StatusOK, toProfile(company))
}

// ListAllCompanies handles GET /api/companies/all: the unpaginated summary
// listing used by client-side filtering.
func (h *DirectoryHandler) ListAllCompanies(w http.ResponseWriter, r *http.Request) {
	companies := h.svc.ListAllCompanies(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"data": companies})
}

type uploadResponse struct {
	Success        bool     `json:"success"`
	Mode           string   `json:"mode"`
	Uploaded       int      `json:"uploaded"`
	Warnings       []string `json:"warnings"`
	RemovedColumns []string `json:"removedColumns"`
}

// UploadCSV handles POST /api/admin/upload: multipart form with a CSV file
// part and an append|replace mode field.
func (h *DirectoryHandler) UploadCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file part")
		return
	}
	defer file.Close()

	mode := controller.ImportMode(r.FormValue("mode"))
	if mode == "" {
		mode = controller.ModeAppend
	}

	rows, headers, err := csvimport.ParseCSV(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.ImportCSV(r.Context(), rows, headers, mode)
	if err != nil {
		if errors.Is(err, e.ErrInvalidInput) {
			status := http.StatusBadRequest
			body := map[string]any{"error": "csv validation failed"}
			if result != nil {
				body["details"] = result
			}
			writeJSON(w, status, body)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to import companies")
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Success:        true,
		Mode:           string(mode),
		Uploaded:       len(result.Companies),
		Warnings:       result.Warnings,
		RemovedColumns: result.RemovedColumns,
	})
}

// CSVTemplate handles GET /api/admin/template.
func (h *DirectoryHandler) CSVTemplate(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="companies-template.csv"`)
	_, _ = w.Write([]byte(csvimport.Template()))
}

// Health handles GET /health.
func (h *DirectoryHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// queryFromRequest reads list parameters; malformed numbers fall back to
// defaults via Query.Normalize.
func queryFromRequest(r *http.Request) models.Query {
	params := r.URL.Query()
	page, _ := strconv.Atoi(params.Get("page"))
	limit, _ := strconv.Atoi(params.Get("limit"))
	return models.Query{
		Search:  params.Get("search"),
		Page:    page,
		Limit:   limit,
		Stage:   params.Get("stage"),
		Type:    params.Get("type"),
		Size:    params.Get("size"),
		Revenue: params.Get("revenue"),
		Sort:    params.Get("sort"),
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
