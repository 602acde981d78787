package api

import (
	"context"
	"net/http"
	"time"

	"github.com/AjeyHanamanal/meeting-summarizer/internal/summary/delivery"
	summaryUsecase "github.com/AjeyHanamanal/meeting-summarizer/internal/summary/usecase"
	"github.com/AjeyHanamanal/meeting-summarizer/pkg/logging"
	"github.com/AjeyHanamanal/meeting-summarizer/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 10 * time.Second

// Pinger reports whether the summary store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	summaryHandler *delivery.SummaryHandler
	historyHandler *delivery.HistoryHandler
	emailHandler   *delivery.EmailHandler
	systemHandler  *SystemHandler
	metrics        *metrics.Metrics
	logger         zerolog.Logger
}

// NewHandler wires the HTTP surface. gatherer may be nil to disable /metrics.
func NewHandler(summaryUc summaryUsecase.SummaryUsecase, historyUc summaryUsecase.HistoryUsecase, store Pinger, m *metrics.Metrics, gatherer prometheus.Gatherer) *Handler {
	return &Handler{
		summaryHandler: delivery.NewSummaryHandler(summaryUc),
		historyHandler: delivery.NewHistoryHandler(historyUc),
		emailHandler:   delivery.NewEmailHandler(summaryUc),
		systemHandler:  NewSystemHandler(store, gatherer),
		metrics:        m,
		logger:         logging.Component("http"),
	}
}

// Engine builds the gin engine with middlewares and routes.
func (h *Handler) Engine() *gin.Engine {
	r := gin.New()
	r.Use(logging.GinRecovery(h.logger))
	r.Use(logging.GinLogger(h.logger))
	r.Use(h.metrics.GinMiddleware())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found", "message": "Route not found"})
	})

	SetupRoutes(r, h.summaryHandler, h.historyHandler, h.emailHandler, h.systemHandler)
	return r
}

// Start serves on addr until ctx is cancelled, then drains in-flight requests.
func (h *Handler) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.logger.Info().Str("addr", addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "http server")
	case <-ctx.Done():
	}

	h.logger.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "http shutdown")
	}
	return nil
}
