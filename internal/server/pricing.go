package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	pricingdomain "github.com/smallbiznis/vulca/internal/pricing/domain"
)

// GetPrices returns the raw price map plus the editable grid derived
// from the company's schema. The grid is omitted when the schema has
// no vehicle or services section yet.
func (s *Server) GetPrices(c *gin.Context) {
	companyID, ok := currentCompanyID(c)
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	prices, err := s.pricingSvc.Get(c.Request.Context(), companyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := gin.H{"prices": prices}
	if grid, err := s.pricingSvc.Grid(c.Request.Context(), companyID); err == nil {
		resp["grid"] = grid
	} else if !errors.Is(err, pricingdomain.ErrSchemaIncomplete) {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type SavePricesRequest struct {
	Prices pricingdomain.Prices `json:"prices"`
}

func (s *Server) SavePrices(c *gin.Context) {
	companyID, ok := currentCompanyID(c)
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	var req SavePricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.pricingSvc.Save(c.Request.Context(), companyID, req.Prices); err != nil {
		AbortWithError(c, err)
		return
	}

	prices, err := s.pricingSvc.Get(c.Request.Context(), companyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prices": prices})
}
