package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"CryptoSentinel/internal/logger"
	"CryptoSentinel/internal/recorder"
	"CryptoSentinel/internal/scheduler"
)

// Analyzer is the part of the scheduler the HTTP surface drives.
type Analyzer interface {
	RunCycle(ctx context.Context, trigger string) error
	Latest(symbol string) (*scheduler.Report, bool)
	Symbols() []string
}

// History reads recorded signal snapshots.
type History interface {
	RecentSignals(symbol string, limit int) ([]recorder.SignalRecord, error)
}

// Server exposes health, manual trigger, the latest cycle output and metrics.
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	analyzer   Analyzer
	history    History
	log        zerolog.Logger
	started    time.Time
}

// NewServer builds the router. metrics may be nil to omit /metrics.
func NewServer(addr string, analyzer Analyzer, history History, metrics http.Handler, log zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	s := &Server{
		router:   router,
		analyzer: analyzer,
		history:  history,
		log:      logger.Component(log, "server"),
		started:  time.Now(),
	}
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	router.Use(s.requestLogger())
	router.Use(gin.Recovery())

	router.GET("/health", s.handleHealth)
	router.POST("/trigger", s.handleTrigger)
	router.GET("/signal", s.handleSignal)
	router.GET("/backtest", s.handleBacktest)
	router.GET("/history", s.handleHistory)
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("starting HTTP server")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"symbols": s.analyzer.Symbols(),
		"uptime":  time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleTrigger(c *gin.Context) {
	err := s.analyzer.RunCycle(c.Request.Context(), scheduler.TriggerManual)
	switch {
	case errors.Is(err, scheduler.ErrCycleRunning):
		errorResponse(c, http.StatusConflict, err.Error())
		return
	case err != nil:
		s.log.Error().Err(err).Msg("manual cycle failed")
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	summary := make([]gin.H, 0, len(s.analyzer.Symbols()))
	for _, sym := range s.analyzer.Symbols() {
		if r, ok := s.analyzer.Latest(sym); ok {
			summary = append(summary, gin.H{
				"symbol":   sym,
				"run_id":   r.RunID,
				"action":   r.Signal.Action,
				"strength": r.Signal.Strength,
				"score":    r.Signal.Score,
			})
		}
	}
	successResponse(c, summary)
}

type symbolQuery struct {
	Symbol string `form:"symbol" binding:"omitempty,uppercase"`
}

// report resolves the symbol query to the latest report, writing the error
// response itself when it cannot.
func (s *Server) report(c *gin.Context) (*scheduler.Report, bool) {
	var q symbolQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return nil, false
	}
	symbol, ok := s.resolveSymbol(q.Symbol)
	if !ok {
		errorResponse(c, http.StatusBadRequest, fmt.Sprintf("symbol %q is not configured", q.Symbol))
		return nil, false
	}
	r, ok := s.analyzer.Latest(symbol)
	if !ok {
		errorResponse(c, http.StatusNotFound, fmt.Sprintf("no analysis yet for %s", symbol))
		return nil, false
	}
	return r, true
}

func (s *Server) resolveSymbol(symbol string) (string, bool) {
	symbols := s.analyzer.Symbols()
	if symbol == "" {
		if len(symbols) == 0 {
			return "", false
		}
		return symbols[0], true
	}
	for _, sym := range symbols {
		if sym == symbol {
			return sym, true
		}
	}
	return "", false
}

func (s *Server) handleSignal(c *gin.Context) {
	r, ok := s.report(c)
	if !ok {
		return
	}
	successResponse(c, gin.H{
		"run_id":       r.RunID,
		"symbol":       r.Symbol,
		"interval":     r.Interval,
		"generated_at": r.GeneratedAt,
		"signal":       r.Signal,
		"levels":       r.Levels,
	})
}

func (s *Server) handleBacktest(c *gin.Context) {
	r, ok := s.report(c)
	if !ok {
		return
	}
	successResponse(c, gin.H{
		"run_id":       r.RunID,
		"symbol":       r.Symbol,
		"interval":     r.Interval,
		"generated_at": r.GeneratedAt,
		"backtest":     r.Backtest,
	})
}

type historyQuery struct {
	Symbol string `form:"symbol" binding:"omitempty,uppercase"`
	Limit  int    `form:"limit" binding:"omitempty,gte=1,lte=500"`
}

func (s *Server) handleHistory(c *gin.Context) {
	var q historyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	symbol, ok := s.resolveSymbol(q.Symbol)
	if !ok {
		errorResponse(c, http.StatusBadRequest, fmt.Sprintf("symbol %q is not configured", q.Symbol))
		return
	}
	recs, err := s.history.RecentSignals(symbol, q.Limit)
	if err != nil {
		s.log.Error().Err(err).Str("symbol", symbol).Msg("read history")
		errorResponse(c, http.StatusInternalServerError, "failed to read history")
		return
	}
	successResponse(c, recs)
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":   true,
		"message": message,
	})
}

func successResponse(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}
