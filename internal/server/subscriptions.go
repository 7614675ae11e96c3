package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	subscriptiondomain "github.com/sentinel-ews/sentinel/internal/subscription/domain"
)

func (s *Server) ListSubscriptions(c *gin.Context) {
	userID, _ := currentUserID(c)

	subs, err := s.subscriptionSvc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": subs})
}

type createSubscriptionRequest struct {
	LocationIDs  []snowflake.ID `json:"location_ids"`
	ShockTypeIDs []snowflake.ID `json:"shock_type_ids"`
	Frequency    string         `json:"frequency"`
}

func (s *Server) CreateSubscription(c *gin.Context) {
	userID, _ := currentUserID(c)

	var req createSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	sub, err := s.subscriptionSvc.Create(c.Request.Context(), subscriptiondomain.CreateSubscriptionRequest{
		UserID:       userID,
		LocationIDs:  req.LocationIDs,
		ShockTypeIDs: req.ShockTypeIDs,
		Frequency:    req.Frequency,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": sub})
}

func (s *Server) GetSubscriptionByID(c *gin.Context) {
	userID, _ := currentUserID(c)
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	sub, err := s.subscriptionSvc.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": sub})
}

type updateSubscriptionRequest struct {
	LocationIDs  []snowflake.ID `json:"location_ids"`
	ShockTypeIDs []snowflake.ID `json:"shock_type_ids"`
	Active       *bool          `json:"active"`
	Frequency    *string        `json:"frequency"`
}

func (s *Server) UpdateSubscription(c *gin.Context) {
	userID, _ := currentUserID(c)
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	sub, err := s.subscriptionSvc.Update(c.Request.Context(), subscriptiondomain.UpdateSubscriptionRequest{
		ID:           id,
		UserID:       userID,
		LocationIDs:  req.LocationIDs,
		ShockTypeIDs: req.ShockTypeIDs,
		Active:       req.Active,
		Frequency:    req.Frequency,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": sub})
}

func (s *Server) DeleteSubscription(c *gin.Context) {
	userID, _ := currentUserID(c)
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.subscriptionSvc.Delete(c.Request.Context(), userID, id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
