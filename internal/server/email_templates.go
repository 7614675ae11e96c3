package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	emailtemplatedomain "github.com/sentinel-ews/sentinel/internal/emailtemplate/domain"
)

func (s *Server) ListEmailTemplates(c *gin.Context) {
	templates, err := s.templateSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": templates})
}

func (s *Server) GetEmailTemplateByID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	template, err := s.templateSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": template})
}

type saveEmailTemplateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	HTMLHeader  string `json:"html_header"`
	HTMLFooter  string `json:"html_footer"`
	HTMLWrapper string `json:"html_wrapper"`
	TextHeader  string `json:"text_header"`
	TextFooter  string `json:"text_footer"`
	TextWrapper string `json:"text_wrapper"`
	Active      *bool  `json:"active"`
}

func (s *Server) SaveEmailTemplate(c *gin.Context) {
	var req saveEmailTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	template := &emailtemplatedomain.EmailTemplate{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Subject:     req.Subject,
		HTMLHeader:  req.HTMLHeader,
		HTMLFooter:  req.HTMLFooter,
		HTMLWrapper: req.HTMLWrapper,
		TextHeader:  req.TextHeader,
		TextFooter:  req.TextFooter,
		TextWrapper: req.TextWrapper,
		Active:      true,
	}
	if req.Active != nil {
		template.Active = *req.Active
	}

	if err := s.templateSvc.Save(c.Request.Context(), template); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": template})
}

func (s *Server) DeleteEmailTemplate(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.templateSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
