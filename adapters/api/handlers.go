package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"hetracker/app"
	"hetracker/domain/metric"
	"hetracker/internal/errors"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleQuery(c *gin.Context) {
	var req app.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.InvalidInput("invalid request body: "+err.Error()))
		return
	}
	q, err := req.Query()
	if err != nil {
		writeError(c, err)
		return
	}
	resp, err := s.queries.Execute(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, QueryResponse{
		QueryID:            q.ID.String(),
		Data:               resp.Data,
		ConsumedDatasetIDs: resp.ConsumedDatasetIDs,
		MissingData:        resp.ShouldShowMissingDataMessage(q.MetricIDs),
		InvalidValueCounts: resp.InvalidValues,
	})
}

func (s *Server) handleTrends(c *gin.Context) {
	var req app.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.InvalidInput("invalid request body: "+err.Error()))
		return
	}
	treq, err := req.TrendsRequest()
	if err != nil {
		writeError(c, err)
		return
	}
	result, err := s.queries.ExecuteTrends(c.Request.Context(), treq)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleDatasets(c *gin.Context) {
	available := make(map[string]bool)
	if s.source != nil {
		ids, err := s.source.List(c.Request.Context())
		if err != nil {
			writeError(c, errors.Wrap(err, "list datasets"))
			return
		}
		for _, id := range ids {
			available[id] = true
		}
	}

	var out []DatasetInfo
	for _, m := range s.registry.List() {
		out = append(out, DatasetInfo{Metadata: m, Available: available[m.ID]})
	}
	c.JSON(http.StatusOK, gin.H{"datasets": out})
}

func (s *Server) handleMetrics(c *gin.Context) {
	providers := s.queries.Providers()
	var out []MetricInfo
	for _, id := range providers.MetricIDs() {
		cfg, ok := metric.Lookup(id)
		if !ok {
			cfg = &metric.Config{ID: id}
		}
		p, err := providers.Provider(id)
		if err != nil {
			continue
		}
		out = append(out, MetricInfo{Config: cfg, ProviderID: p.ProviderID()})
	}
	c.JSON(http.StatusOK, gin.H{"metrics": out})
}

func (s *Server) handleVariables(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"variables": metric.Variables()})
}

// writeError maps an error code onto an HTTP status
func writeError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch {
	case errors.IsClientError(code):
		status = http.StatusBadRequest
	case code == errors.CodeNotFound:
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		log.Printf("[API] ERROR %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, ErrorResponse{Code: code, Error: err.Error()})
}
