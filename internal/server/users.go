package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	userdomain "github.com/sentinel-ews/sentinel/internal/user/domain"
)

type createUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (s *Server) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	u, err := s.userSvc.Create(c.Request.Context(), userdomain.CreateUserRequest{
		Username:  strings.TrimSpace(req.Username),
		Email:     strings.TrimSpace(req.Email),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": u})
}

func (s *Server) GetCurrentUser(c *gin.Context) {
	userID, _ := currentUserID(c)

	u, err := s.userSvc.GetByID(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": u})
}

type setEmailNotificationsRequest struct {
	Enabled bool `json:"enabled"`
}

func (s *Server) SetEmailNotifications(c *gin.Context) {
	userID, _ := currentUserID(c)

	var req setEmailNotificationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	u, err := s.userSvc.SetEmailNotifications(c.Request.Context(), userID, req.Enabled)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": u})
}

// SendVerificationEmail queues the verification email for the current
// user. The job itself is a no-op when the address is already verified.
func (s *Server) SendVerificationEmail(c *gin.Context) {
	userID, _ := currentUserID(c)

	if err := s.enqueuer.EnqueueVerificationEmail(c.Request.Context(), userID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

func (s *Server) VerifyEmail(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		AbortWithError(c, newValidationError("token", "invalid_token", "invalid token"))
		return
	}

	u, err := s.userSvc.VerifyEmail(c.Request.Context(), token)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": u})
}
