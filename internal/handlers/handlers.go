package handlers

import (
	"net/http"
	"time"

	"github.com/vaultline/vaultline/common/httputil"
	"github.com/vaultline/vaultline/common/logging"
	"github.com/vaultline/vaultline/internal/auth"
	"github.com/vaultline/vaultline/internal/faults"
	"github.com/vaultline/vaultline/internal/insights"
	"github.com/vaultline/vaultline/internal/models"
	"github.com/vaultline/vaultline/internal/reader"
	"github.com/vaultline/vaultline/internal/taxonomy"
)

// Handler wires HTTP routes to the activity read side.
type Handler struct {
	reader     *reader.Reader
	aggregator *insights.Aggregator
	cards      *insights.CardProvider
	logger     *logging.Logger
	started    time.Time
}

// New creates a Handler instance.
func New(r *reader.Reader, a *insights.Aggregator, c *insights.CardProvider, logger *logging.Logger) *Handler {
	return &Handler{reader: r, aggregator: a, cards: c, logger: logger, started: time.Now()}
}

// Activity handles GET /api/v1/activity - the paginated event feed.
func (h *Handler) Activity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.methodNotAllowed(w, http.MethodGet)
		return
	}
	principal := auth.PrincipalFrom(r.Context())
	if principal == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	qs := r.URL.Query()
	from, okFrom := httputil.ParseTimeParam(qs.Get("from"))
	to, okTo := httputil.ParseTimeParam(qs.Get("to"))
	if !okFrom || !okTo {
		httputil.WriteError(w, http.StatusBadRequest, "from and to must be RFC 3339 timestamps")
		return
	}

	var groups []taxonomy.Group
	for _, g := range httputil.ParseListParam(qs.Get("groups")) {
		groups = append(groups, taxonomy.Group(g))
	}

	query := models.FeedQuery{
		OrgID:    principal.OrgID,
		From:     from,
		To:       to,
		Groups:   groups,
		Provider: qs.Get("provider"),
		Search:   qs.Get("search"),
		Limit:    httputil.ParseIntParam(qs.Get("limit"), 0),
		Cursor:   qs.Get("cursor"),
	}

	page, err := h.reader.ListEvents(r.Context(), query)
	if err != nil {
		h.writeFault(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

// InsightsMetrics handles GET /api/v1/insights/metrics - windowed rollups.
// Absent bounds default to a trailing 7-day window.
func (h *Handler) InsightsMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.methodNotAllowed(w, http.MethodGet)
		return
	}
	principal := auth.PrincipalFrom(r.Context())
	if principal == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	qs := r.URL.Query()
	now := time.Now()
	window := models.Window{From: now.Add(-7 * 24 * time.Hour), To: now}
	if from, ok := httputil.ParseTimeParam(qs.Get("from")); ok {
		window.From = from
	}
	if to, ok := httputil.ParseTimeParam(qs.Get("to")); ok {
		window.To = to
	}

	m, err := h.aggregator.ComputeMetrics(r.Context(), principal.OrgID, window)
	if err != nil {
		h.writeFault(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, m)
}

// InsightsCards handles GET /api/v1/insights/cards?range=7d|30d|90d.
// Cards are supplementary content: missing auth yields an empty set, not 401.
func (h *Handler) InsightsCards(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.methodNotAllowed(w, http.MethodGet)
		return
	}

	var principal models.Principal
	if p := auth.PrincipalFrom(r.Context()); p != nil {
		principal = *p
	}

	rangeName := models.CardRange(r.URL.Query().Get("range"))
	if rangeName == "" {
		rangeName = models.Range7d
	}

	cards, err := h.cards.ComputeCards(r.Context(), principal, rangeName)
	if err != nil {
		if faults.IsValidation(err) {
			httputil.WriteJSON(w, http.StatusBadRequest, models.CardsResponse{OK: false, Error: err.Error()})
			return
		}
		httputil.WriteJSON(w, http.StatusInternalServerError, models.CardsResponse{OK: false, Error: "cards unavailable"})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.CardsResponse{OK: true, Cards: cards})
}

// Health handles GET /healthz liveness probes.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
	})
}

func (h *Handler) writeFault(w http.ResponseWriter, r *http.Request, err error) {
	if faults.IsValidation(err) {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	// Feed/metrics read failures must be visible, never conflated with an
	// empty result. The driver detail stays in the log, not the response.
	h.logger.ErrorContext(r.Context(), "activity read failed",
		logging.Error(err), logging.Path(r.URL.Path))
	httputil.WriteError(w, http.StatusInternalServerError, "temporarily unavailable")
}

func (h *Handler) methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	for _, m := range allowed {
		w.Header().Add("Allow", m)
	}
	httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
}
