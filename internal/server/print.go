package server

import (
	"io"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

// PrintBill renders two printable copies of the work order. The first
// render per session auto-triggers the browser print dialog; reloads
// render without it.
func (s *Server) PrintBill(c *gin.Context) {
	companyID, billID, ok := printParams(c)
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	var sessionID string
	if sid, ok := currentSessionID(c); ok {
		sessionID = sid.String()
	}

	html, err := s.renderSvc.RenderHTML(c.Request.Context(), companyID, billID, sessionID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (s *Server) PrintBillPDF(c *gin.Context) {
	companyID, billID, ok := printParams(c)
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	doc, err := s.renderSvc.Document(c.Request.Context(), companyID, billID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	reader, err := s.pdfSvc.GenerateWorkOrder(c.Request.Context(), doc)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="comanda-`+billID.String()+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func printParams(c *gin.Context) (companyID, billID snowflake.ID, ok bool) {
	companyID, okCompany := currentCompanyID(c)
	billID, err := snowflake.ParseString(c.Param("billId"))
	if !okCompany || err != nil || billID == 0 {
		return 0, 0, false
	}
	return companyID, billID, true
}
