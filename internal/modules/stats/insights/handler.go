// Package insights serves the calendar, mood rollups and unlock state of a
// profile over HTTP.
package insights

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mood-space/core/internal/config"
	"github.com/mood-space/core/internal/insight"
	"github.com/mood-space/core/internal/middleware"
	"github.com/mood-space/core/internal/models"
	"github.com/mood-space/core/internal/modules/content/entry"
	"github.com/mood-space/core/internal/modules/content/profile"
	"github.com/mood-space/core/internal/pkg/metrics"
	"github.com/mood-space/core/internal/pkg/response"
	"github.com/mood-space/core/internal/pkg/revision"
	"go.uber.org/zap"
)

const (
	reportCalendar = "calendar"
	reportWeek     = "week"
	reportMonth    = "month"
	reportYear     = "year"
	reportUnlocks  = "unlocks"
)

// EntrySource is the read side of the entry store.
type EntrySource interface {
	ListEntries(ctx context.Context, accountID, profileID string, order entry.Order) ([]models.EntryModel, error)
}

type Options struct {
	Location *time.Location
	Policy   insight.Policy
	Now      func() time.Time

	Cache        middleware.Store
	CacheTTL     time.Duration
	DisableCache bool
	Revisions    *revision.Tracker

	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

type Handler struct {
	entries  EntrySource
	profiles entry.ProfileResolver
	opts     Options
}

func NewHandler(entries EntrySource, profiles entry.ProfileResolver, opts Options) *Handler {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Handler{entries: entries, profiles: profiles, opts: opts}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/insights", authMW)
	g.GET("/moods", h.moods)

	cached := g.Group("", middleware.ResponseCache(h.opts.Cache, middleware.ResponseCacheOptions{
		TTL:     h.opts.CacheTTL,
		Disable: h.opts.DisableCache,
		KeyFunc: h.cacheKey,
		OnHit:   h.opts.Metrics.CacheHit,
		OnMiss:  h.opts.Metrics.CacheMiss,
	}))
	cached.GET("/calendar", h.calendar)
	cached.GET("/week", h.week)
	cached.GET("/month", h.month)
	cached.GET("/year", h.year)
	cached.GET("/unlocks", h.unlocks)
}

// cacheKey varies on the account's data revision and on the local date, so a
// write or midnight both miss.
func (h *Handler) cacheKey(c *gin.Context) (string, bool) {
	accountID := middleware.CurrentAccountID(c)
	if accountID == "" {
		return "", false
	}
	rev, err := h.opts.Revisions.Current(c.Request.Context(), accountID)
	if err != nil {
		h.opts.Logger.Warn("insight cache disabled for request", zap.Error(err))
		return "", false
	}
	loc, err := h.location(c)
	if err != nil {
		return "", false
	}
	today := h.opts.Now().In(loc).Format(insight.DateLayout)
	return "insights:" + accountID + ":" + strconv.FormatInt(rev, 10) + ":" + today + ":" + c.Request.URL.RequestURI(), true
}

type moodTable struct {
	Version      string                   `json:"version"`
	FallbackMood string                   `json:"fallback_mood"`
	NeutralScore int                      `json:"neutral_score"`
	Moods        []insight.MoodDefinition `json:"moods"`
}

func (h *Handler) moods(c *gin.Context) {
	response.OK(c, moodTable{
		Version:      insight.TableVersion,
		FallbackMood: insight.MoodOther,
		NeutralScore: insight.NeutralScore,
		Moods:        insight.Definitions(),
	})
}

// location is the zone of the request: the tz query param when present,
// otherwise the configured zone.
func (h *Handler) location(c *gin.Context) (*time.Location, error) {
	raw := strings.TrimSpace(c.Query("tz"))
	if raw == "" {
		return h.opts.Location, nil
	}
	return config.ParseLocation(raw)
}

// snapshot is everything one report needs: the engine bound to the request's
// zone and the profile's entries.
type snapshot struct {
	engine  *insight.Engine
	entries []insight.Entry
	profile *models.SubProfileModel
	started time.Time
}

func (h *Handler) load(c *gin.Context) (*snapshot, bool) {
	started := time.Now()
	ctx := c.Request.Context()

	loc, err := h.location(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return nil, false
	}

	accountID := middleware.CurrentAccountID(c)
	p, err := h.profiles.Resolve(ctx, accountID, c.Query("profile"))
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			response.NotFoundMsg(c, err.Error())
			return nil, false
		}
		response.InternalError(c, err)
		return nil, false
	}

	rows, err := h.entries.ListEntries(ctx, accountID, p.ID, entry.OrderAsc)
	if err != nil {
		response.InternalError(c, err)
		return nil, false
	}

	return &snapshot{
		engine: &insight.Engine{
			Location: loc,
			Now:      h.opts.Now,
			Policy:   h.opts.Policy,
		},
		entries: entry.ToInsight(rows),
		profile: p,
		started: started,
	}, true
}

func (h *Handler) anchor(c *gin.Context, s *snapshot) (time.Time, bool) {
	raw := strings.TrimSpace(c.Query("anchor"))
	if raw == "" {
		return h.opts.Now(), true
	}
	t, err := time.ParseInLocation(insight.DateLayout, raw, s.engine.Location)
	if err != nil {
		response.BadRequest(c, "invalid anchor, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}

func (h *Handler) done(c *gin.Context, s *snapshot, report string, skipped int, body any) {
	h.opts.Metrics.ObserveReport(report, time.Since(s.started), skipped)
	if skipped > 0 {
		h.opts.Logger.Debug("entries skipped",
			zap.String("report", report),
			zap.String("profile", s.profile.ID),
			zap.Int("skipped", skipped),
		)
	}
	response.OK(c, body)
}

func (h *Handler) calendar(c *gin.Context) {
	s, ok := h.load(c)
	if !ok {
		return
	}

	month := insight.MonthOf(h.opts.Now(), s.engine.Location)
	if raw := strings.TrimSpace(c.Query("month")); raw != "" {
		parsed, err := insight.ParseYearMonth(raw)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		month = parsed
	}
	filter := insight.Filter{Keyword: c.Query("keyword"), Mood: c.Query("mood")}

	cal := s.engine.BuildCalendar(month, s.entries, filter)
	h.done(c, s, reportCalendar, cal.Skipped, cal)
}

func (h *Handler) week(c *gin.Context) {
	s, ok := h.load(c)
	if !ok {
		return
	}
	at, ok := h.anchor(c, s)
	if !ok {
		return
	}
	report := s.engine.Weekly(s.entries, at)
	h.done(c, s, reportWeek, report.Skipped, report)
}

func (h *Handler) month(c *gin.Context) {
	s, ok := h.load(c)
	if !ok || !h.gate(c, s, insight.TierMonth) {
		return
	}
	at, ok := h.anchor(c, s)
	if !ok {
		return
	}
	report := s.engine.Monthly(s.entries, at)
	h.done(c, s, reportMonth, report.Skipped, report)
}

func (h *Handler) year(c *gin.Context) {
	s, ok := h.load(c)
	if !ok || !h.gate(c, s, insight.TierYear) {
		return
	}
	at, ok := h.anchor(c, s)
	if !ok {
		return
	}
	report := s.engine.Yearly(s.entries, at)
	h.done(c, s, reportYear, report.Skipped, report)
}

func (h *Handler) unlocks(c *gin.Context) {
	s, ok := h.load(c)
	if !ok {
		return
	}
	h.done(c, s, reportUnlocks, 0, s.engine.Unlocks(s.entries))
}

// gate answers 403 with the tenure details when tier is still locked.
func (h *Handler) gate(c *gin.Context, s *snapshot, tier insight.Tier) bool {
	if s.engine.IsUnlocked(tier, s.entries) {
		return true
	}
	h.opts.Metrics.Locked(string(tier))
	required, _ := s.engine.Policy.Required(tier)
	days := s.engine.DaysActive(s.entries)
	response.ErrorWith(c, http.StatusForbidden, "keep journaling to unlock the "+string(tier)+" view", gin.H{
		"tier":           tier,
		"days_active":    days,
		"required_days":  required,
		"remaining_days": required - days,
	})
	return false
}
