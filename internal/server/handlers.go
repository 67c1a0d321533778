package server

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"FundPulse/internal/engine"
	"FundPulse/internal/model"
)

var fundCodeRe = regexp.MustCompile(`^\d{6}$`)

// respondError maps the shared error taxonomy onto HTTP statuses.
func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case engine.IsValidation(err):
		status = http.StatusBadRequest
	case errors.Is(err, engine.ErrLookupMiss):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrDataUnavailable):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badCode(c *gin.Context, code string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fund code: " + code})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"funds":  s.store.Snapshot().Len(),
	})
}

func (s *Server) searchFund(c *gin.Context) {
	keyword := c.Query("keyword")
	limit := 10
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	funds := s.store.Snapshot().Search(keyword, limit)
	if funds == nil {
		funds = []model.Fund{}
	}
	c.JSON(http.StatusOK, gin.H{"results": funds, "count": len(funds)})
}

func (s *Server) fundInfo(c *gin.Context) {
	code := c.Param("code")
	if !fundCodeRe.MatchString(code) {
		badCode(c, code)
		return
	}
	fund, ok := s.store.Snapshot().Lookup(code)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": engine.ErrLookupMiss.Error()})
		return
	}
	c.JSON(http.StatusOK, fund)
}

func (s *Server) getFundDetail(c *gin.Context) {
	code := c.Query("code")
	if !fundCodeRe.MatchString(code) {
		badCode(c, code)
		return
	}
	detail, err := s.analyzer.Detail(c.Request.Context(), code)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// portfolioRequest is the shared body of the estimate and analysis routes.
type portfolioRequest struct {
	Funds []model.Holding `json:"funds"`
}

func (s *Server) bindPortfolio(c *gin.Context) ([]model.Holding, bool) {
	var req portfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return nil, false
	}
	for _, h := range req.Funds {
		if !fundCodeRe.MatchString(h.FundCode) {
			badCode(c, h.FundCode)
			return nil, false
		}
	}
	return req.Funds, true
}

func (s *Server) estimate(c *gin.Context) {
	holdings, ok := s.bindPortfolio(c)
	if !ok {
		return
	}
	resp, err := s.analyzer.EstimateOnly(c.Request.Context(), holdings)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) fundAnalysis(c *gin.Context) {
	holdings, ok := s.bindPortfolio(c)
	if !ok {
		return
	}
	resp, err := s.analyzer.Analyze(c.Request.Context(), holdings)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type drawdownRequest struct {
	Codes       []string `json:"codes"`
	RollingDays int      `json:"rolling_days"`
}

func (s *Server) drawdown(c *gin.Context) {
	var req drawdownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}
	if req.RollingDays == 0 {
		req.RollingDays = 90
	}
	for _, code := range req.Codes {
		if !fundCodeRe.MatchString(code) {
			badCode(c, code)
			return
		}
	}
	entries, err := s.analyzer.DrawdownBatch(c.Request.Context(), req.Codes, req.RollingDays)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": entries, "rolling_days": req.RollingDays})
}

func (s *Server) getIndices(c *gin.Context) {
	quotes, err := s.analyzer.Indices(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"indices": quotes})
}

func (s *Server) getNavHistory(c *gin.Context) {
	code := c.Query("code")
	if !fundCodeRe.MatchString(code) {
		badCode(c, code)
		return
	}
	days := 90
	if v := c.Query("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days: " + v})
			return
		}
		days = n
	}
	res, err := s.analyzer.NavHistory(c.Request.Context(), code, days)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) getNavHistoryBatch(c *gin.Context) {
	raw := strings.Split(c.Query("codes"), ",")
	codes := make([]string, 0, len(raw))
	for _, code := range raw {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		if !fundCodeRe.MatchString(code) {
			badCode(c, code)
			return
		}
		codes = append(codes, code)
	}
	days := 90
	if v := c.Query("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days: " + v})
			return
		}
		days = n
	}
	results, err := s.analyzer.NavHistoryBatch(c.Request.Context(), codes, days)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "days": days})
}
