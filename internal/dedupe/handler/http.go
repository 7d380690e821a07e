package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nautilusmedia/dedupe/internal/dedupe/domain"
	"github.com/nautilusmedia/dedupe/internal/dedupe/repository"
	"github.com/nautilusmedia/dedupe/internal/dedupe/service"
	pkgerrors "github.com/nautilusmedia/dedupe/pkg/errors"
	"github.com/nautilusmedia/dedupe/pkg/interfaces"
	"github.com/nautilusmedia/dedupe/pkg/models"
)

// HTTPHandler exposes the detector over REST. It is thin glue: request
// validation and status mapping only, no domain logic.
type HTTPHandler struct {
	scans  *service.ScanService
	repo   repository.Repository
	audit  repository.AuditLog
	logger interfaces.Logger
}

// NewHTTPHandler creates a new REST handler.
func NewHTTPHandler(scans *service.ScanService, repo repository.Repository, audit repository.AuditLog, logger interfaces.Logger) *HTTPHandler {
	return &HTTPHandler{scans: scans, repo: repo, audit: audit, logger: logger}
}

// Register mounts the routes on a gin router.
func (h *HTTPHandler) Register(r *gin.Engine) {
	r.GET("/health", h.health)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/collections/:id/scan", h.scanCollection)
		v1.GET("/collections/:id/groups", h.listGroups)
		v1.GET("/collections/:id/preferences", h.getPreferences)
		v1.PUT("/collections/:id/preferences", h.putPreferences)

		v1.GET("/groups/:id", h.getGroup)
		v1.DELETE("/groups/:id", h.deleteGroup)
		v1.PUT("/groups/:id/review", h.reviewGroup)
	}
}

func (h *HTTPHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"scanning": h.scans.Scanning(),
	})
}

func (h *HTTPHandler) scanCollection(c *gin.Context) {
	collectionID := c.Param("id")

	summary, err := h.scans.ScanCollection(c.Request.Context(), collectionID)
	if err != nil {
		if errors.Is(err, domain.ErrScanInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": "a scan is already running"})
			return
		}
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *HTTPHandler) listGroups(c *gin.Context) {
	groups, err := h.repo.GetGroups(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups, "count": len(groups)})
}

func (h *HTTPHandler) getGroup(c *gin.Context) {
	id, ok := h.groupID(c)
	if !ok {
		return
	}
	group, err := h.repo.GetGroup(c.Request.Context(), id)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h *HTTPHandler) deleteGroup(c *gin.Context) {
	id, ok := h.groupID(c)
	if !ok {
		return
	}

	group, err := h.repo.GetGroup(c.Request.Context(), id)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	if err := h.repo.DeleteGroup(c.Request.Context(), id); err != nil {
		h.abortWithError(c, err)
		return
	}

	// The detection record is gone; leave a trail for each member so the
	// dismissal can be reconstructed later.
	for _, v := range group.Versions {
		record := &models.DeletionAudit{
			ID:            uuid.New(),
			GroupID:       group.ID,
			ItemID:        v.ItemID,
			Path:          v.Path,
			QualityScore:  v.QualityScore,
			Reason:        "group dismissed via API",
			UserInitiated: true,
			Timestamp:     time.Now().UTC(),
			Success:       true,
		}
		if err := h.audit.Append(c.Request.Context(), record); err != nil {
			h.logger.Warn("Failed to append audit record",
				interfaces.String("group_id", group.ID.String()),
				interfaces.Error(err))
		}
	}

	c.Status(http.StatusNoContent)
}

type reviewRequest struct {
	Status models.ReviewStatus `json:"status" binding:"required"`
}

func (h *HTTPHandler) reviewGroup(c *gin.Context) {
	id, ok := h.groupID(c)
	if !ok {
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	switch req.Status {
	case models.ReviewStatusPending, models.ReviewStatusReviewed, models.ReviewStatusIgnored:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review status"})
		return
	}

	group, err := h.repo.GetGroup(c.Request.Context(), id)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	now := time.Now().UTC()
	group.ReviewStatus = req.Status
	group.LastReviewedAt = &now

	if err := h.repo.UpdateGroup(c.Request.Context(), group); err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h *HTTPHandler) getPreferences(c *gin.Context) {
	prefs, err := h.repo.GetPreferences(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *HTTPHandler) putPreferences(c *gin.Context) {
	var prefs models.LibraryPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	prefs.CollectionID = c.Param("id")
	if prefs.SimilarityThreshold <= 0 {
		prefs.SimilarityThreshold = models.DefaultSimilarityThreshold
	}
	prefs.UpdatedAt = time.Now().UTC()

	if err := h.repo.SavePreferences(c.Request.Context(), &prefs); err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, &prefs)
}

// groupID parses the :id path parameter, answering 400 on garbage.
func (h *HTTPHandler) groupID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return uuid.Nil, false
	}
	return id, true
}

// abortWithError maps application errors onto HTTP statuses.
func (h *HTTPHandler) abortWithError(c *gin.Context, err error) {
	switch {
	case pkgerrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case pkgerrors.IsBadRequest(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case pkgerrors.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case pkgerrors.IsUnavailable(err):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Request failed", interfaces.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
