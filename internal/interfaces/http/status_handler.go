package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/erp/fulfillment/internal/infrastructure/journal"
)

const maxJournalLimit = 500

// PassReporter reports the state of the polling loop
type PassReporter interface {
	IsRunning() bool
	LastSummary() (fulfillment.PassSummary, bool)
}

// JournalReader reads journalled passes and order outcomes
type JournalReader interface {
	RecentPasses(ctx context.Context, limit int) ([]journal.PassEntry, error)
	RecentResults(ctx context.Context, limit int) ([]journal.ResultEntry, error)
	ResultsForOrder(ctx context.Context, orderID string) ([]journal.ResultEntry, error)
}

// SeenCounter reports the size of the seen-order set
type SeenCounter interface {
	Size() int
}

// StatusHandler serves the operator status API
type StatusHandler struct {
	poller    PassReporter
	journal   JournalReader
	seen      SeenCounter
	dryRun    bool
	startedAt time.Time
}

// NewStatusHandler creates the status handler.
func NewStatusHandler(poller PassReporter, journalReader JournalReader, seen SeenCounter, dryRun bool) *StatusHandler {
	return &StatusHandler{
		poller:    poller,
		journal:   journalReader,
		seen:      seen,
		dryRun:    dryRun,
		startedAt: time.Now(),
	}
}

// RegisterRoutes attaches the status routes to the engine.
func (h *StatusHandler) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/healthz", h.healthz)

	api := engine.Group("/api/v1")
	api.GET("/status", h.status)
	api.GET("/journal/passes", h.recentPasses)
	api.GET("/journal/results", h.recentResults)
}

func (h *StatusHandler) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// passSummaryResponse is the wire form of the last pass summary
type passSummaryResponse struct {
	PassID      string    `json:"pass_id"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	Candidates  int       `json:"candidates"`
	Processed   int       `json:"processed"`
	Skipped     int       `json:"skipped"`
	FailedLabel int       `json:"failed_label"`
	FailedSlip  int       `json:"failed_slip"`
	FailedPrint int       `json:"failed_print"`
	SourceError string    `json:"source_error,omitempty"`
}

// statusResponse is the wire form of GET /api/v1/status
type statusResponse struct {
	Running       bool                 `json:"running"`
	DryRun        bool                 `json:"dry_run"`
	UptimeSeconds int64                `json:"uptime_seconds"`
	SeenOrders    int                  `json:"seen_orders"`
	LastPass      *passSummaryResponse `json:"last_pass,omitempty"`
}

func (h *StatusHandler) status(c *gin.Context) {
	resp := statusResponse{
		Running:       h.poller.IsRunning(),
		DryRun:        h.dryRun,
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		SeenOrders:    h.seen.Size(),
	}

	if summary, ok := h.poller.LastSummary(); ok {
		lp := passSummaryResponse{
			PassID:      summary.PassID.String(),
			StartedAt:   summary.StartedAt,
			CompletedAt: summary.CompletedAt,
			Candidates:  summary.Candidates,
			Processed:   summary.Count(fulfillment.OutcomeProcessed),
			Skipped:     summary.Count(fulfillment.OutcomeSkippedAlreadySeen),
			FailedLabel: summary.Count(fulfillment.OutcomeFailedLabel),
			FailedSlip:  summary.Count(fulfillment.OutcomeFailedSlip),
			FailedPrint: summary.Count(fulfillment.OutcomeFailedPrint),
		}
		if summary.SourceErr != nil {
			lp.SourceError = summary.SourceErr.Error()
		}
		resp.LastPass = &lp
	}

	c.JSON(http.StatusOK, resp)
}

func (h *StatusHandler) recentPasses(c *gin.Context) {
	entries, err := h.journal.RecentPasses(c.Request.Context(), parseLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read journal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"passes": entries})
}

func (h *StatusHandler) recentResults(c *gin.Context) {
	ctx := c.Request.Context()

	if orderID := c.Query("order_id"); orderID != "" {
		entries, err := h.journal.ResultsForOrder(ctx, orderID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read journal"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": entries})
		return
	}

	entries, err := h.journal.RecentResults(ctx, parseLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read journal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": entries})
}

// parseLimit reads and clamps the limit query parameter.
func parseLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		return 50
	}
	if limit > maxJournalLimit {
		return maxJournalLimit
	}
	return limit
}
