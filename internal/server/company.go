package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	companydomain "github.com/smallbiznis/vulca/internal/company/domain"
	"github.com/smallbiznis/vulca/internal/printtemplate"
)

func (s *Server) ListCompanies(c *gin.Context) {
	companies, err := s.companySvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

func (s *Server) CreateCompany(c *gin.Context) {
	var req companydomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	company, err := s.companySvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, company)
}

func (s *Server) GetCompany(c *gin.Context) {
	companyID, ok := currentCompanyID(c)
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	company, err := s.companySvc.Get(c.Request.Context(), companyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (s *Server) UpdateCompany(c *gin.Context) {
	companyID, ok := currentCompanyID(c)
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	var req companydomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	company, err := s.companySvc.Update(c.Request.Context(), companyID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (s *Server) DeleteCompany(c *gin.Context) {
	companyID, ok := currentCompanyID(c)
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.companySvc.Delete(c.Request.Context(), companyID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) ListMembers(c *gin.Context) {
	companyID, ok := currentCompanyID(c)
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	members, err := s.companySvc.Members(c.Request.Context(), companyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

type AddMemberRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

func (s *Server) AddMember(c *gin.Context) {
	companyID, ok := currentCompanyID(c)
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	userID, err := snowflake.ParseString(strings.TrimSpace(req.UserID))
	if err != nil || userID == 0 {
		AbortWithError(c, newValidationError("userId", "invalid_user_id", "invalid value"))
		return
	}

	if err := s.companySvc.AddMember(c.Request.Context(), companyID, userID, req.Role); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}

func (s *Server) GetTemplateSettings(c *gin.Context) {
	companyID, ok := currentCompanyID(c)
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	company, err := s.companySvc.Get(c.Request.Context(), companyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	selected := company.SelectedTemplate
	if selected == "" {
		selected = printtemplate.Default
	}
	c.JSON(http.StatusOK, gin.H{
		"selectedTemplate": selected,
		"templates":        printtemplate.Names(),
	})
}

type SelectTemplateRequest struct {
	Template string `json:"template"`
}

func (s *Server) SelectTemplate(c *gin.Context) {
	companyID, ok := currentCompanyID(c)
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	var req SelectTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	company, err := s.companySvc.SelectTemplate(c.Request.Context(), companyID, req.Template)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selectedTemplate": company.SelectedTemplate})
}
