package http

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/entity"
	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/geocode"
)

type PositionInput struct {
	UserID    string    `json:"user_id" binding:"required"`
	Username  string    `json:"username"`
	Status    string    `json:"status"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Address   string    `json:"address"`
	Timestamp time.Time `json:"timestamp"`
}

// postPosition ingests one position snapshot (latest state for the user).
func (h *Handler) postPosition(c *gin.Context) {
	var input PositionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap := &entity.PositionSnapshot{
		UserID:    input.UserID,
		Username:  input.Username,
		Status:    input.Status,
		Location:  entity.GeoPoint{Latitude: input.Latitude, Longitude: input.Longitude},
		Address:   input.Address,
		Timestamp: input.Timestamp,
	}

	if err := h.Live.PublishSnapshot(c.Request.Context(), snap); err != nil {
		if errors.Is(err, entity.ErrInvalidCoordinate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// deletePosition removes a user from the live set (logout / explicit
// offline).
func (h *Handler) deletePosition(c *gin.Context) {
	userID := c.Param("user_id")

	if err := h.Live.RemoveUser(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

// liveState returns the current tracked users, their classification and the
// map-fit bounds as one snapshot.
func (h *Handler) liveState(c *gin.Context) {
	upd, err := h.Live.Refresh(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, upd)
}

// liveStream pushes live updates over SSE until the client disconnects.
func (h *Handler) liveStream(c *gin.Context) {
	sub := h.Live.Subscribe(c.Request.Context())
	defer sub.Stop()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")

	c.Stream(func(w io.Writer) bool {
		upd, ok := <-sub.C
		if !ok {
			return false
		}
		c.SSEvent("update", upd)
		return true
	})
}

// zoneInfo returns the office zone together with its resolved display
// address. The address is resolved once and reused for the process lifetime.
func (h *Handler) zoneInfo(c *gin.Context) {
	h.officeOnce.Do(func() {
		h.officeAddr = geocode.FallbackAddress
		if h.Geocoder == nil {
			return
		}
		center := h.Geofence.Zone.Center
		if addr, err := h.Geocoder.ReverseGeocode(c.Request.Context(), center.Latitude, center.Longitude); err == nil {
			h.officeAddr = addr
		}
	})

	c.JSON(http.StatusOK, gin.H{
		"zone":    h.Geofence.Zone,
		"address": h.officeAddr,
	})
}
