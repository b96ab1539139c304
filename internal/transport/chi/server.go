package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/thecaralice/trieve/internal/domain"
	domcrawl "github.com/thecaralice/trieve/internal/domain/crawl"
	domds "github.com/thecaralice/trieve/internal/domain/dataset"
	crawluc "github.com/thecaralice/trieve/internal/usecase/crawl"
	datasetuc "github.com/thecaralice/trieve/internal/usecase/dataset"
	healthuc "github.com/thecaralice/trieve/internal/usecase/health"
)

// EmbedderFactory builds a query embedder for a dataset's configuration.
type EmbedderFactory func(cfg domds.ServerConfiguration) domain.Embedder

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the dataset configuration API over HTTP.
type Server struct {
	datasets      *datasetuc.Service
	crawls        *crawluc.Service
	health        *healthuc.Service
	embedders     EmbedderFactory
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	datasets *datasetuc.Service,
	crawls *crawluc.Service,
	health *healthuc.Service,
	embedders EmbedderFactory,
	logger *zap.Logger,
) *Server {
	s := &Server{
		datasets:  datasets,
		crawls:    crawls,
		health:    health,
		embedders: embedders,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeDatasetNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, CodeDatasetAlreadyExists),
		sentinelHandler(domain.ErrInvalidDataset, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrConfigLocked, http.StatusConflict, CodeConfigLocked),
		sentinelHandler(domain.ErrCrawlNotFound, http.StatusNotFound, CodeCrawlNotFound),
		sentinelHandler(domain.ErrInvalidCrawlOptions, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeEmbeddingProviderErr),
	}
	return s
}

// Mount registers all API routes on the router.
func (s *Server) Mount(r chi.Router) {
	r.Get("/health", s.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/dataset", func(r chi.Router) {
		r.Post("/", s.CreateDataset)
		r.Get("/", s.ListDatasets)
		r.Route("/{datasetID}", func(r chi.Router) {
			r.Get("/", s.GetDataset)
			r.Delete("/", s.DeleteDataset)
			r.Put("/configuration", s.UpdateDatasetConfiguration)
			r.Post("/crawl", s.ScheduleCrawl)
			r.Get("/crawl", s.GetCrawl)
			r.Put("/crawl/status", s.UpdateCrawlStatus)
			r.Post("/query-vector", s.QueryVector)
		})
	})
}

// CreateDataset handles POST /api/dataset.
func (s *Server) CreateDataset(w http.ResponseWriter, r *http.Request) {
	var req CreateDatasetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "Dataset name is required")
		return
	}
	orgID, err := uuid.Parse(req.OrganizationID)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "Invalid organization id")
		return
	}

	var override *domds.ConfigurationOverride
	if req.ServerConfiguration != nil {
		o := req.ServerConfiguration.ToOverride()
		override = &o
	}

	ds, err := s.datasets.Create(r.Context(), req.Name, orgID, req.TrackingID, override)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, datasetToResponse(ds))
}

// ListDatasets handles GET /api/dataset.
func (s *Server) ListDatasets(w http.ResponseWriter, r *http.Request) {
	datasets, err := s.datasets.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]DatasetResponse, len(datasets))
	for i, ds := range datasets {
		items[i] = datasetToResponse(ds)
	}

	writeJSON(w, http.StatusOK, DatasetListResponse{Items: items, Total: len(items)})
}

// GetDataset handles GET /api/dataset/{datasetID}.
func (s *Server) GetDataset(w http.ResponseWriter, r *http.Request) {
	id, ok := s.datasetID(w, r)
	if !ok {
		return
	}

	ds, err := s.datasets.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, datasetToResponse(ds))
}

// UpdateDatasetConfiguration handles PUT /api/dataset/{datasetID}/configuration.
func (s *Server) UpdateDatasetConfiguration(w http.ResponseWriter, r *http.Request) {
	id, ok := s.datasetID(w, r)
	if !ok {
		return
	}

	var req ServerConfigurationJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ds, err := s.datasets.UpdateConfiguration(r.Context(), id, req.ToOverride())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, datasetToResponse(ds))
}

// DeleteDataset handles DELETE /api/dataset/{datasetID}.
func (s *Server) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	id, ok := s.datasetID(w, r)
	if !ok {
		return
	}

	if err := s.datasets.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ScheduleCrawl handles POST /api/dataset/{datasetID}/crawl.
func (s *Server) ScheduleCrawl(w http.ResponseWriter, r *http.Request) {
	id, ok := s.datasetID(w, r)
	if !ok {
		return
	}

	var req ScheduleCrawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	opts := domcrawl.Options{
		SiteURL:      req.SiteURL,
		Interval:     domcrawl.Interval(req.Interval),
		IncludePaths: req.IncludePaths,
		ExcludePaths: req.ExcludePaths,
		PageLimit:    req.PageLimit,
	}
	crawlReq, err := s.crawls.Schedule(r.Context(), id, opts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, crawlToResponse(crawlReq))
}

// GetCrawl handles GET /api/dataset/{datasetID}/crawl.
func (s *Server) GetCrawl(w http.ResponseWriter, r *http.Request) {
	id, ok := s.datasetID(w, r)
	if !ok {
		return
	}

	crawlReq, err := s.crawls.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, crawlToResponse(crawlReq))
}

// UpdateCrawlStatus handles PUT /api/dataset/{datasetID}/crawl/status.
// Crawl workers report lifecycle transitions through it.
func (s *Server) UpdateCrawlStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.datasetID(w, r)
	if !ok {
		return
	}

	var req UpdateCrawlStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := s.crawls.UpdateStatus(r.Context(), id, domcrawl.Status(req.Status)); err != nil {
		s.handleDomainError(w, err)
		return
	}

	crawlReq, err := s.crawls.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, crawlToResponse(crawlReq))
}

// QueryVector handles POST /api/dataset/{datasetID}/query-vector.
// It embeds a search query using the dataset's embedding settings.
func (s *Server) QueryVector(w http.ResponseWriter, r *http.Request) {
	id, ok := s.datasetID(w, r)
	if !ok {
		return
	}

	var req QueryVectorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "Query is required")
		return
	}

	ds, err := s.datasets.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	result, err := s.embedders(ds.Configuration()).Embed(r.Context(), req.Query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, QueryVectorResponse{
		Embedding:    result.Embedding,
		PromptTokens: result.PromptTokens,
		TotalTokens:  result.TotalTokens,
	})
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for name, res := range report.Checks {
		checks[name] = string(res)
	}

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, HealthResponse{Status: string(report.Status), Checks: checks})
}

// datasetID parses the {datasetID} URL parameter.
func (s *Server) datasetID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "datasetID")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "Invalid dataset id")
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, handle := range s.errorHandlers {
		if handle(w, err, err.Error()) {
			return
		}
	}
	s.logger.Error("unhandled domain error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
