package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	alertdomain "github.com/sentinel-ews/sentinel/internal/alert/domain"
)

type ingestAlertRequest struct {
	Title        string         `json:"title"`
	Text         string         `json:"text"`
	ShockTypeID  snowflake.ID   `json:"shock_type_id"`
	DataSourceID snowflake.ID   `json:"data_source_id"`
	ShockDate    time.Time      `json:"shock_date"`
	Severity     int            `json:"severity"`
	ValidFrom    *time.Time     `json:"valid_from"`
	ValidUntil   *time.Time     `json:"valid_until"`
	LocationIDs  []snowflake.ID `json:"location_ids"`
	Metadata     map[string]any `json:"metadata"`
}

// IngestAlert accepts an externally produced alert. It is stored
// unapproved and stays invisible on the read endpoints until a reviewer
// approves it; notification dispatch still runs immediately.
func (s *Server) IngestAlert(c *gin.Context) {
	var req ingestAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	alert, err := s.alertSvc.Create(c.Request.Context(), alertdomain.CreateAlertRequest{
		Title:        strings.TrimSpace(req.Title),
		Text:         req.Text,
		ShockTypeID:  req.ShockTypeID,
		DataSourceID: req.DataSourceID,
		ShockDate:    req.ShockDate,
		Severity:     req.Severity,
		ValidFrom:    req.ValidFrom,
		ValidUntil:   req.ValidUntil,
		LocationIDs:  req.LocationIDs,
		Metadata:     datatypes.JSONMap(req.Metadata),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": alert})
}

func (s *Server) ApproveAlert(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	alert, err := s.alertSvc.Approve(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": alert})
}

type assignLocationsRequest struct {
	LocationIDs []snowflake.ID `json:"location_ids"`
}

func (s *Server) AssignAlertLocations(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req assignLocationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	alert, err := s.alertSvc.AssignLocations(c.Request.Context(), id, req.LocationIDs)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": alert})
}

func (s *Server) ListAlerts(c *gin.Context) {
	var query struct {
		ShockTypeID string `form:"shock_type_id"`
		Severity    string `form:"severity"`
		ActiveOnly  string `form:"active_only"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	shockTypeID, err := parseOptionalSnowflakeID(query.ShockTypeID)
	if err != nil {
		AbortWithError(c, newValidationError("shock_type_id", "invalid_shock_type_id", "invalid shock type id"))
		return
	}
	severity, err := parseOptionalInt(query.Severity)
	if err != nil {
		AbortWithError(c, newValidationError("severity", "invalid_severity", "invalid severity"))
		return
	}
	activeOnly, err := parseOptionalBool(query.ActiveOnly)
	if err != nil {
		AbortWithError(c, newValidationError("active_only", "invalid_active_only", "invalid active_only"))
		return
	}

	limit, offset, err := parsePagination(c, 20, 100)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	filters := alertdomain.Filters{
		ShockTypeID: shockTypeID,
		Severity:    severity,
		Limit:       limit,
		Offset:      offset,
	}
	if activeOnly != nil {
		filters.ActiveOnly = *activeOnly
	}

	alerts, total, err := s.alertSvc.ListPublic(c.Request.Context(), optionalUserID(c), filters)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  alerts,
		"total": total,
	})
}

func (s *Server) GetAlertByID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	detail, err := s.alertSvc.GetPublicDetail(c.Request.Context(), id, optionalUserID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": detail})
}

func (s *Server) GetAlertStats(c *gin.Context) {
	stats, err := s.alertSvc.GetStats(c.Request.Context(), optionalUserID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}
