package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Prices is the nested price map keyed by vehicle category id, then
// size label, then service id. Lookups on missing keys yield zero.
type Prices map[string]map[string]map[string]float64

// Lookup returns the configured price or 0 when any level is missing.
func (p Prices) Lookup(categoryID, size, serviceID string) float64 {
	return p[categoryID][size][serviceID]
}

// Has reports whether a price was explicitly configured for the cell.
func (p Prices) Has(categoryID, size, serviceID string) bool {
	sizes, ok := p[categoryID]
	if !ok {
		return false
	}
	services, ok := sizes[size]
	if !ok {
		return false
	}
	_, ok = services[serviceID]
	return ok
}

// Set writes a price, creating intermediate maps as needed.
func (p Prices) Set(categoryID, size, serviceID string, value float64) {
	if p[categoryID] == nil {
		p[categoryID] = map[string]map[string]float64{}
	}
	if p[categoryID][size] == nil {
		p[categoryID][size] = map[string]float64{}
	}
	p[categoryID][size][serviceID] = value
}

// PriceTable is the per-company price document.
type PriceTable struct {
	CompanyID snowflake.ID   `json:"company_id" gorm:"column:company_id;primaryKey"`
	Prices    datatypes.JSON `json:"prices" gorm:"type:jsonb"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (PriceTable) TableName() string { return "bill_prices" }

// GridRow is one category/size pair of the editing grid, with the
// current value of every service cell.
type GridRow struct {
	CategoryID   string             `json:"categoryId"`
	CategoryName string             `json:"categoryName"`
	Size         string             `json:"size"`
	Values       map[string]float64 `json:"values"`
}

// GridColumn describes one service column of the editing grid.
type GridColumn struct {
	ServiceID   string `json:"serviceId"`
	ServiceName string `json:"serviceName"`
}

// Grid is the editable price grid derived from the company's schema.
type Grid struct {
	Columns []GridColumn `json:"columns"`
	Rows    []GridRow    `json:"rows"`
}
