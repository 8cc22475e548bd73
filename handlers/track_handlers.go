package handlers

import (
	"context"
	"errors"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"skillrise/api/analytics"
	"skillrise/api/middleware"
	"skillrise/api/models"
	"skillrise/api/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	ErrMissingField    = errors.New("page, path and duration are required")
	ErrEmptyField      = errors.New("page and path must not be empty")
	ErrInvalidDuration = errors.New("duration must be at least 1 second")
	ErrDurationTooLong = errors.New("duration exceeds the maximum session length")
)

// maxDurationSeconds bounds a single sample so rounding can never overflow.
const maxDurationSeconds = math.MaxInt32

type TrackingHandlers struct {
	Store  store.RecordStore
	Engine *analytics.Engine

	now func() time.Time
}

func NewTrackingHandlers(s store.RecordStore, engine *analytics.Engine) *TrackingHandlers {
	return &TrackingHandlers{
		Store:  s,
		Engine: engine,
		now:    time.Now,
	}
}

// validateTrackRequest checks a flushed sample and returns the duration
// rounded to whole seconds.
func validateTrackRequest(req models.TrackRequest) (int64, error) {
	if req.Page == nil || req.Path == nil || req.Duration == nil {
		return 0, ErrMissingField
	}
	if strings.TrimSpace(*req.Page) == "" || strings.TrimSpace(*req.Path) == "" {
		return 0, ErrEmptyField
	}
	d := *req.Duration
	if math.IsNaN(d) || d < 1 {
		return 0, ErrInvalidDuration
	}
	if math.IsInf(d, 1) || d > maxDurationSeconds {
		return 0, ErrDurationTooLong
	}
	return int64(math.Round(d)), nil
}

// TrackTime records exactly one tracking record per accepted request. It
// does not deduplicate; the client only flushes each interval once.
func (h *TrackingHandlers) TrackTime(c *gin.Context) {
	var req models.TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid tracking data"})
		return
	}

	duration, err := validateTrackRequest(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	record := models.TrackingRecord{
		ID:              uuid.New().String(),
		UserID:          c.GetString(middleware.UserIDKey),
		Page:            *req.Page,
		Path:            *req.Path,
		DurationSeconds: duration,
		RecordedAt:      h.now(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	if err := h.Store.InsertRecord(ctx, record); err != nil {
		log.Printf("ERROR: failed to insert tracking record for user %s: %v", record.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to record tracking data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetAnalytics returns the caller's dashboard summary.
func (h *TrackingHandlers) GetAnalytics(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	summary, err := h.Engine.Summarize(ctx, userID)
	if err != nil {
		log.Printf("ERROR: failed to compute analytics for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve analytics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "analytics": summary})
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
