package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/vulca/internal/schema/builder"
	schemadomain "github.com/smallbiznis/vulca/internal/schema/domain"
)

func (s *Server) GetSchema(c *gin.Context) {
	companyID, ok := currentCompanyID(c)
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	sections, err := s.schemaSvc.Get(c.Request.Context(), companyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sections": sections})
}

type SaveSchemaRequest struct {
	Sections []schemadomain.Section `json:"sections"`
}

func (s *Server) SaveSchema(c *gin.Context) {
	companyID, ok := currentCompanyID(c)
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	var req SaveSchemaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	sections, err := s.schemaSvc.Save(c.Request.Context(), companyID, req.Sections)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sections": sections})
}

// BuilderOp is one structural edit applied to a schema preview. Ops
// run in order against the submitted sections without persisting.
type BuilderOp struct {
	Op            string `json:"op"`
	Index         int    `json:"index"`
	From          int    `json:"from"`
	To            int    `json:"to"`
	FieldIndex    int    `json:"fieldIndex"`
	CategoryIndex int    `json:"categoryIndex"`
	SizeIndex     int    `json:"sizeIndex"`
	ServiceIndex  int    `json:"serviceIndex"`
	DetailIndex   int    `json:"detailIndex"`
	Title         string `json:"title"`
	Type          string `json:"type"`
	Name          string `json:"name"`
	Size          string `json:"size"`
	DefaultWheels int    `json:"defaultWheels"`
}

type PreviewSchemaRequest struct {
	Sections []schemadomain.Section `json:"sections"`
	Ops      []BuilderOp            `json:"ops"`
}

func (s *Server) PreviewSchema(c *gin.Context) {
	var req PreviewSchemaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	b := builder.New(req.Sections)
	for _, op := range req.Ops {
		if err := applyBuilderOp(b, op); err != nil {
			AbortWithError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"sections": b.Sections()})
}

func applyBuilderOp(b *builder.Builder, op BuilderOp) error {
	switch op.Op {
	case "add_section":
		b.AddSection()
		return nil
	case "remove_section":
		return b.RemoveSection(op.Index)
	case "set_section_type":
		return b.SetSectionType(op.Index, schemadomain.SectionType(op.Type))
	case "set_section_title":
		return b.SetSectionTitle(op.Index, op.Title)
	case "move_section":
		return b.MoveSection(op.From, op.To)
	case "add_field":
		return b.AddField(op.Index)
	case "remove_field":
		return b.RemoveField(op.Index, op.FieldIndex)
	case "move_field":
		return b.MoveField(op.Index, op.From, op.To)
	case "add_category":
		return b.AddCategory(op.Index, op.Name)
	case "remove_category":
		return b.RemoveCategory(op.Index, op.CategoryIndex)
	case "add_size":
		return b.AddSize(op.Index, op.CategoryIndex, op.Size)
	case "remove_size":
		return b.RemoveSize(op.Index, op.CategoryIndex, op.SizeIndex)
	case "add_service":
		return b.AddService(op.Index, op.Name, op.DefaultWheels)
	case "remove_service":
		return b.RemoveService(op.Index, op.ServiceIndex)
	case "add_detail_field":
		return b.AddDetailField(op.Index, op.Name)
	case "remove_detail_field":
		return b.RemoveDetailField(op.Index, op.DetailIndex)
	default:
		return newValidationError("op", "unknown_op", "invalid value")
	}
}
