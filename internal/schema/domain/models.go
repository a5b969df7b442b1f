// Package domain contains the bill schema document types.
package domain

import (
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// SectionType discriminates the payload of a schema section.
type SectionType string

const (
	SectionCustom            SectionType = "custom"
	SectionList              SectionType = "list"
	SectionRichText          SectionType = "richtext"
	SectionImages            SectionType = "images"
	SectionYouTube           SectionType = "youtube"
	SectionFiles             SectionType = "files"
	SectionVehicleCategories SectionType = "vehicle_categories"
	SectionServices          SectionType = "services"
	SectionDetailsValues     SectionType = "details_values"
)

// Valid reports whether t is a known section type.
func (t SectionType) Valid() bool {
	switch t {
	case SectionCustom, SectionList, SectionRichText, SectionImages,
		SectionYouTube, SectionFiles, SectionVehicleCategories,
		SectionServices, SectionDetailsValues:
		return true
	default:
		return false
	}
}

// FieldType is the input type of a custom field.
type FieldType string

const (
	FieldText      FieldType = "text"
	FieldNumber    FieldType = "number"
	FieldList      FieldType = "list"
	FieldIconValue FieldType = "icon-value"
	FieldRichText  FieldType = "richtext"
)

// Field is one input of a custom section.
type Field struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        FieldType `json:"type"`
	Icon        string    `json:"icon,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	Order       int       `json:"order"`
	Required    bool      `json:"required,omitempty"`
	// Value carries static content for display sections, notably the
	// HTML body of a richtext section's first field.
	Value string `json:"value,omitempty"`
}

// VehicleCategory groups the size labels offered for one vehicle class.
// Sizes are free-text labels (tire rim sizes in practice); order matters.
type VehicleCategory struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Sizes []string `json:"sizes"`
}

// ServiceItem is one offerable service with its default wheel count.
type ServiceItem struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	DefaultWheels int    `json:"defaultWheels"`
}

// DetailField is a numeric technical detail (torque, pressure, ...).
type DetailField struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// ImageItem is an uploaded image reference.
type ImageItem struct {
	ID  string `json:"id"`
	Src string `json:"src"`
}

// Section is one entry of a company's bill schema. Exactly one payload
// group is meaningful per Type; the others are preserved untouched so
// switching a section's type back and forth never loses entered data.
type Section struct {
	ID    string      `json:"id"`
	Title string      `json:"title"`
	Type  SectionType `json:"type"`
	Order int         `json:"order"`

	Fields            []Field           `json:"fields,omitempty"`
	VehicleCategories []VehicleCategory `json:"vehicleCategories,omitempty"`
	Services          []ServiceItem     `json:"services,omitempty"`
	DetailFields      []DetailField     `json:"detailFields,omitempty"`
	Images            []ImageItem       `json:"images,omitempty"`
	Items             []string          `json:"items,omitempty"`
}

// SortByOrder orders sections and their custom fields by the persisted
// order values.
func SortByOrder(sections []Section) {
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Order < sections[j].Order
	})
	for i := range sections {
		fields := sections[i].Fields
		sort.SliceStable(fields, func(a, b int) bool {
			return fields[a].Order < fields[b].Order
		})
	}
}

// FindByType returns the first section with the given type, or nil.
func FindByType(sections []Section, t SectionType) *Section {
	for i := range sections {
		if sections[i].Type == t {
			return &sections[i]
		}
	}
	return nil
}

// BillSchema is the per-company schema document.
type BillSchema struct {
	CompanyID snowflake.ID   `json:"company_id" gorm:"column:company_id;primaryKey"`
	Sections  datatypes.JSON `json:"sections" gorm:"type:jsonb"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (BillSchema) TableName() string { return "bill_schemas" }
