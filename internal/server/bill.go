package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	billdomain "github.com/smallbiznis/vulca/internal/bill/domain"
	"github.com/smallbiznis/vulca/internal/bill/engine"
	statsdomain "github.com/smallbiznis/vulca/internal/stats/domain"
)

// GetBillForm opens a fresh draft and returns the form descriptors the
// client renders: section controls with field inputs, category options
// and per-service unit prices for the current (empty) selection.
func (s *Server) GetBillForm(c *gin.Context) {
	companyID, ok := currentCompanyID(c)
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := c.Request.Context()
	draft, err := s.billSvc.OpenDraft(ctx, companyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	sections, err := s.schemaSvc.Get(ctx, companyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	prices, err := s.pricingSvc.Get(ctx, companyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    draft.Token,
		"sections": engine.BuildForm(sections, prices, draft),
	})
}

type SaveBillRequest struct {
	Token string          `json:"token"`
	Form  billdomain.Form `json:"form"`
}

func (s *Server) SaveBill(c *gin.Context) {
	companyID, ok := currentCompanyID(c)
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	var req SaveBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	bill, err := s.billSvc.Save(c.Request.Context(), billdomain.SaveRequest{
		CompanyID: companyID,
		Token:     strings.TrimSpace(req.Token),
		Form:      req.Form,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bill)
}

func (s *Server) ListBills(c *gin.Context) {
	companyID, ok := currentCompanyID(c)
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	filter, err := parseBillFilter(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	bills, err := s.billSvc.List(c.Request.Context(), companyID, filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bills": bills})
}

func (s *Server) GetBill(c *gin.Context) {
	companyID, ok := currentCompanyID(c)
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	billID, err := snowflake.ParseString(c.Param("billId"))
	if err != nil || billID == 0 {
		AbortWithError(c, invalidRequestError())
		return
	}

	bill, err := s.billSvc.Get(c.Request.Context(), companyID, billID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

func (s *Server) DeleteBill(c *gin.Context) {
	companyID, ok := currentCompanyID(c)
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	billID, err := snowflake.ParseString(c.Param("billId"))
	if err != nil || billID == 0 {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.billSvc.Delete(c.Request.Context(), companyID, billID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) GetStats(c *gin.Context) {
	companyID, ok := currentCompanyID(c)
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	filter, err := parseBillFilter(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	summary, err := s.statsSvc.Summary(c.Request.Context(), companyID, statsdomain.SummaryRequest{
		From:        filter.From,
		To:          filter.To,
		CreatedByID: filter.CreatedByID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func parseBillFilter(c *gin.Context) (billdomain.ListFilter, error) {
	var filter billdomain.ListFilter

	creator, err := parseOptionalSnowflakeID(c.Query("createdBy"))
	if err != nil {
		return filter, newValidationError("createdBy", "invalid_created_by", "invalid value")
	}
	if creator != nil {
		filter.CreatedByID = *creator
	}

	from, err := parseOptionalTime(c.Query("from"), false)
	if err != nil {
		return filter, newValidationError("from", "invalid_from", "invalid value")
	}
	if from != nil {
		filter.From = *from
	}

	to, err := parseOptionalTime(c.Query("to"), true)
	if err != nil {
		return filter, newValidationError("to", "invalid_to", "invalid value")
	}
	if to != nil {
		filter.To = *to
	}

	return filter, nil
}
