package http

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/delivery/http/middleware"
	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/usecase"
)

// Pinger checks the connection to a backing service (DB, Redis).
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler bundles all HTTP handlers.
type Handler struct {
	Attendance *usecase.AttendanceService
	Sessions   *usecase.SessionService
	Live       *usecase.LiveTrackService
	Geofence   *usecase.GeofenceService
	Geocoder   usecase.Geocoder

	DBPinger    Pinger
	RedisPinger Pinger
	APIKey      string
	StatsWindow int

	officeOnce sync.Once
	officeAddr string
}

// NewHandler creates a new HTTP handler.
func NewHandler(att *usecase.AttendanceService, sess *usecase.SessionService, live *usecase.LiveTrackService,
	gf *usecase.GeofenceService, gc usecase.Geocoder, db, rds Pinger, apiKey string, statsWindow int) *Handler {
	return &Handler{
		Attendance:  att,
		Sessions:    sess,
		Live:        live,
		Geofence:    gf,
		Geocoder:    gc,
		DBPinger:    db,
		RedisPinger: rds,
		APIKey:      apiKey,
		StatsWindow: statsWindow,
	}
}

// InitRoutes sets up the Gin router and the API routes. Admin views (session
// logs, stats, the live map feed) sit behind the API key middleware; the
// user-facing check and position routes are open.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	router.GET("/api/v1/system/health", h.healthCheck)

	v1 := router.Group("/api/v1")
	{
		attendance := v1.Group("/attendance")
		{
			attendance.POST("/check", h.checkToggle)
			attendance.GET("/status", h.attendanceStatus)

			admin := attendance.Group("")
			admin.Use(middleware.AuthMiddleware(h.APIKey))
			{
				admin.GET("/sessions", h.dailySessions)
				admin.GET("/stats", h.attendanceStats)
			}
		}

		positions := v1.Group("/positions")
		{
			positions.POST("", h.postPosition)
			positions.DELETE("/:user_id", h.deletePosition)
		}

		live := v1.Group("/live")
		live.Use(middleware.AuthMiddleware(h.APIKey))
		{
			live.GET("", h.liveState)
			live.GET("/stream", h.liveStream)
		}

		v1.GET("/zone", h.zoneInfo)
	}

	return router
}

// healthCheck verifies the service and its dependencies (PostgreSQL, Redis).
func (h *Handler) healthCheck(c *gin.Context) {
	ctx := c.Request.Context()
	if h.DBPinger != nil {
		if err := h.DBPinger.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": err.Error()})
			return
		}
	}
	if h.RedisPinger != nil {
		if err := h.RedisPinger.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "redis": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
