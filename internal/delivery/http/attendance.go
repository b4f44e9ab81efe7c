package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/entity"
)

type CheckToggleInput struct {
	UserID    string  `json:"user_id" binding:"required"`
	Username  string  `json:"username"`
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
	Address   string  `json:"address"`
}

// checkToggle handles a check-in/check-out request. The direction of the
// toggle is derived from the user's event log, not trusted from the client.
func (h *Handler) checkToggle(c *gin.Context) {
	var input CheckToggleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	pos := entity.GeoPoint{Latitude: input.Latitude, Longitude: input.Longitude}

	currentlyCheckedIn, err := h.Sessions.IsCheckedIn(ctx, input.UserID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	address := input.Address
	if address == "" && h.Geocoder != nil {
		if resolved, err := h.Geocoder.ReverseGeocode(ctx, pos.Latitude, pos.Longitude); err == nil {
			address = resolved
		}
	}

	ev, rejection, err := h.Attendance.CheckToggle(ctx, input.UserID, input.Username, pos, address, currentlyCheckedIn)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidCoordinate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rejection != nil {
		c.JSON(http.StatusOK, gin.H{"allowed": false, "reason": rejection.Reason})
		return
	}

	c.JSON(http.StatusOK, gin.H{"allowed": true, "event": ev})
}

// dailySessions returns the reconciled attendance sessions for one date
// (default today).
func (h *Handler) dailySessions(c *gin.Context) {
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	sessions, err := h.Sessions.DailySessions(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if sessions == nil {
		sessions = []*entity.AttendanceSession{}
	}

	c.JSON(http.StatusOK, sessions)
}

// attendanceStatus reports whether the user's next toggle is a checkout.
func (h *Handler) attendanceStatus(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	checkedIn, err := h.Sessions.IsCheckedIn(c.Request.Context(), userID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": userID, "checked_in": checkedIn})
}

// attendanceStats returns how many distinct users checked in inside the
// recent window.
func (h *Handler) attendanceStats(c *gin.Context) {
	count, err := h.Sessions.ActiveUsers(c.Request.Context(), h.StatsWindow)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"window_minutes": h.StatsWindow, "active_users": count})
}
