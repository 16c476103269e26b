package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/acadboard/timetable-api/internal/middleware"
	"github.com/acadboard/timetable-api/internal/service"
)

// Deps bundles everything the router wires together.
type Deps struct {
	Timetables    *TimetableHandler
	Faculty       *FacultyHandler
	Substitutions *SubstitutionHandler
	Edits         *EditHandler

	Metrics   *service.MetricsService
	JWTSecret string
	APIPrefix string

	// Readiness reports whether backing stores are reachable.
	Readiness func(ctx context.Context) error
}

// RegisterRoutes mounts every API route onto the gin engine.
func RegisterRoutes(r *gin.Engine, deps Deps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if deps.Readiness != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Readiness(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := r.Group(deps.APIPrefix)
	api.Use(middleware.JWT(deps.JWTSecret))

	timetables := api.Group("/timetables")
	{
		timetables.GET("", deps.Timetables.List)
		timetables.POST("", middleware.RequireRole(middleware.RoleAdmin, middleware.RoleStaff), deps.Timetables.Create)
		timetables.GET("/:id", deps.Timetables.Get)
		timetables.PATCH("/:id/status", middleware.RequireRole(middleware.RoleAdmin, middleware.RoleStaff), deps.Timetables.UpdateStatus)
		timetables.GET("/:id/conflicts", deps.Timetables.Conflicts)
		timetables.GET("/:id/batches/:batchId/grid", deps.Timetables.BatchGrid)
		timetables.POST("/:id/edits", middleware.RequireRole(middleware.RoleAdmin, middleware.RoleStaff), deps.Edits.Commit)
	}

	faculty := api.Group("/faculty")
	{
		faculty.GET("/:id/grid", middleware.FacultySelfOrStaff("id"), deps.Faculty.Grid)
		faculty.GET("/:id/grid/export", middleware.FacultySelfOrStaff("id"), deps.Faculty.ExportGrid)
	}

	substitutions := api.Group("/substitutions")
	{
		substitutions.GET("", deps.Substitutions.List)
		substitutions.POST("", middleware.RequireRole(middleware.RoleAdmin, middleware.RoleStaff), deps.Substitutions.Create)
		substitutions.DELETE("/:id", middleware.RequireRole(middleware.RoleAdmin, middleware.RoleStaff), deps.Substitutions.Delete)
	}
}
