package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	shocktypedomain "github.com/sentinel-ews/sentinel/internal/shocktype/domain"
)

func (s *Server) ListShockTypes(c *gin.Context) {
	includeStats, err := parseOptionalBool(c.Query("include_stats"))
	if err != nil {
		AbortWithError(c, newValidationError("include_stats", "invalid_include_stats", "invalid include_stats"))
		return
	}

	if includeStats != nil && *includeStats {
		shockTypes, err := s.shockTypeSvc.ListWithStats(c.Request.Context())
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": shockTypes})
		return
	}

	shockTypes, err := s.shockTypeSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": shockTypes})
}

func (s *Server) GetShockTypeByID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	shockType, err := s.shockTypeSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": shockType})
}

type createShockTypeRequest struct {
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	Color    string `json:"color"`
	CSSClass string `json:"css_class"`
}

func (s *Server) CreateShockType(c *gin.Context) {
	var req createShockTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	shockType, err := s.shockTypeSvc.Create(c.Request.Context(), shocktypedomain.CreateShockTypeRequest{
		Name:     strings.TrimSpace(req.Name),
		Icon:     strings.TrimSpace(req.Icon),
		Color:    strings.TrimSpace(req.Color),
		CSSClass: strings.TrimSpace(req.CSSClass),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": shockType})
}

type updateShockTypeRequest struct {
	Name     *string `json:"name"`
	Icon     *string `json:"icon"`
	Color    *string `json:"color"`
	CSSClass *string `json:"css_class"`
}

func (s *Server) UpdateShockType(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateShockTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	shockType, err := s.shockTypeSvc.Update(c.Request.Context(), shocktypedomain.UpdateShockTypeRequest{
		ID:       id,
		Name:     req.Name,
		Icon:     req.Icon,
		Color:    req.Color,
		CSSClass: req.CSSClass,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": shockType})
}

func (s *Server) DeleteShockType(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.shockTypeSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
