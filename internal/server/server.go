// Package server exposes the analysis operations over HTTP.
package server

import (
	"github.com/gin-gonic/gin"

	"FundPulse/internal/analyzer"
	"FundPulse/internal/common"
	"FundPulse/internal/directory"
)

// Options configures the HTTP surface.
type Options struct {
	RatePerMinute int
	RateBurst     int
	Logger        *common.Logger
}

// Server wires the analyzer and directory into a gin router.
type Server struct {
	router   *gin.Engine
	analyzer *analyzer.Analyzer
	store    *directory.Store
	logger   *common.Logger
}

// New builds the router with middleware and all routes registered.
func New(a *analyzer.Analyzer, store *directory.Store, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = common.NewSilentLogger()
	}
	if opts.RatePerMinute <= 0 {
		opts.RatePerMinute = 60
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 20
	}

	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		router:   gin.New(),
		analyzer: a,
		store:    store,
		logger:   opts.Logger,
	}
	s.setup(opts)
	return s
}

func (s *Server) setup(opts Options) {
	s.router.Use(gin.Recovery())

	api := s.router.Group("/api")
	api.Use(CORS())
	api.Use(RateLimit(opts.RatePerMinute, opts.RateBurst))

	api.GET("/health", s.health)
	api.GET("/search_fund", s.searchFund)
	api.GET("/fund_info/:code", s.fundInfo)
	api.GET("/get_fund_detail", s.getFundDetail)
	api.GET("/get_indices", s.getIndices)
	api.GET("/get_nav_history", s.getNavHistory)
	api.GET("/get_nav_history_batch", s.getNavHistoryBatch)
	api.POST("/estimate", s.estimate)
	api.POST("/fund_analysis", s.fundAnalysis)
	api.POST("/drawdown", s.drawdown)
}

// Router exposes the handler tree, mainly for tests and the http.Server in
// main.
func (s *Server) Router() *gin.Engine { return s.router }
