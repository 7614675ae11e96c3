package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) MarkAlertRead(c *gin.Context) {
	userID, _ := currentUserID(c)
	alertID, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	interaction, err := s.alertSvc.MarkRead(c.Request.Context(), userID, alertID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": interaction})
}

type rateAlertRequest struct {
	Rating int `json:"rating"`
}

func (s *Server) RateAlert(c *gin.Context) {
	userID, _ := currentUserID(c)
	alertID, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req rateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	interaction, err := s.alertSvc.SetRating(c.Request.Context(), userID, alertID, req.Rating)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": interaction})
}

func (s *Server) ToggleAlertBookmark(c *gin.Context) {
	userID, _ := currentUserID(c)
	alertID, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	interaction, err := s.alertSvc.ToggleBookmark(c.Request.Context(), userID, alertID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": interaction})
}

type flagAlertRequest struct {
	FlagType string `json:"flag_type"`
}

func (s *Server) FlagAlert(c *gin.Context) {
	userID, _ := currentUserID(c)
	alertID, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req flagAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	interaction, err := s.alertSvc.ToggleFlag(c.Request.Context(), userID, alertID, strings.TrimSpace(req.FlagType))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": interaction})
}

type commentAlertRequest struct {
	Comment string `json:"comment"`
}

func (s *Server) CommentAlert(c *gin.Context) {
	userID, _ := currentUserID(c)
	alertID, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req commentAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	interaction, err := s.alertSvc.AddComment(c.Request.Context(), userID, alertID, req.Comment)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": interaction})
}
