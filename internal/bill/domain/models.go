package domain

import (
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Form is the saved value bag of a bill, keyed by section id and then
// by a per-type inner key: field id for custom sections, "category" and
// "size" for the vehicle section, service id for wheel counts, detail
// field id for tyre details.
type Form map[string]map[string]any

// Section returns the value bag of one section, or an empty map.
func (f Form) Section(sectionID string) map[string]any {
	if values, ok := f[sectionID]; ok {
		return values
	}
	return map[string]any{}
}

// String reads a string value, tolerating missing keys.
func (f Form) String(sectionID, key string) string {
	value, _ := f.Section(sectionID)[key].(string)
	return value
}

// Number reads a numeric value. JSON round-trips store numbers as
// float64; values entered as strings are ignored.
func (f Form) Number(sectionID, key string) float64 {
	switch v := f.Section(sectionID)[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		n, _ := v.Float64()
		return n
	default:
		return 0
	}
}

// Bill is one immutable work order. The form and calculated total are
// frozen at creation; the printable rendering re-resolves names and
// prices against the live schema.
type Bill struct {
	ID              snowflake.ID   `json:"id" gorm:"column:id;primaryKey"`
	CompanyID       snowflake.ID   `json:"company_id" gorm:"column:company_id;index"`
	Form            datatypes.JSON `json:"form" gorm:"type:jsonb"`
	CalculatedTotal float64        `json:"calculated_total" gorm:"column:calculated_total"`
	CreatedAt       time.Time      `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	CreatedBy       string         `json:"created_by" gorm:"column:created_by"`
	CreatedByID     snowflake.ID   `json:"created_by_id" gorm:"column:created_by_id"`
	CreatedByRole   string         `json:"created_by_role" gorm:"column:created_by_role"`
}

func (Bill) TableName() string { return "bills" }

// DecodeForm unmarshals the stored form document.
func (b *Bill) DecodeForm() (Form, error) {
	form := Form{}
	if len(b.Form) == 0 {
		return form, nil
	}
	if err := json.Unmarshal(b.Form, &form); err != nil {
		return nil, err
	}
	return form, nil
}

// ListFilter narrows bill listings.
type ListFilter struct {
	CreatedByID snowflake.ID
	From        time.Time
	To          time.Time
}
