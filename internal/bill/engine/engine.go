// Package engine derives the fill-bill form from a company's schema
// and computes work order totals. It is pure: no storage, no context.
package engine

import (
	billdomain "github.com/smallbiznis/vulca/internal/bill/domain"
	pricingdomain "github.com/smallbiznis/vulca/internal/pricing/domain"
	schemadomain "github.com/smallbiznis/vulca/internal/schema/domain"
)

// Inner keys of the vehicle section's value bag.
const (
	KeyCategory = "category"
	KeySize     = "size"
)

// InputControl is one text or number input of a custom section.
type InputControl struct {
	FieldID     string                 `json:"fieldId"`
	Name        string                 `json:"name"`
	Type        schemadomain.FieldType `json:"type"`
	Placeholder string                 `json:"placeholder,omitempty"`
	Icon        string                 `json:"icon,omitempty"`
	Required    bool                   `json:"required,omitempty"`
	Value       string                 `json:"value,omitempty"`
}

// CategoryOption is one selectable vehicle category with its sizes.
type CategoryOption struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Sizes    []string `json:"sizes"`
	Selected bool     `json:"selected,omitempty"`
}

// ServiceRow is one service line with its live-resolved unit price for
// the currently selected category and size. Price is nil until both
// are chosen or when the cell was never configured.
type ServiceRow struct {
	ServiceID     string   `json:"serviceId"`
	Name          string   `json:"name"`
	DefaultWheels int      `json:"defaultWheels"`
	Count         float64  `json:"count"`
	UnitPrice     *float64 `json:"unitPrice,omitempty"`
}

// DetailInput is one numeric tyre-detail input.
type DetailInput struct {
	FieldID string  `json:"fieldId"`
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
}

// SectionControl is the renderable descriptor of one schema section in
// the fill-bill form. Exactly one payload is populated per type;
// display-only types carry their static content.
type SectionControl struct {
	SectionID    string                   `json:"sectionId"`
	Title        string                   `json:"title"`
	Type         schemadomain.SectionType `json:"type"`
	Inputs       []InputControl           `json:"inputs,omitempty"`
	Categories   []CategoryOption         `json:"categories,omitempty"`
	SelectedSize string                   `json:"selectedSize,omitempty"`
	Services     []ServiceRow             `json:"services,omitempty"`
	Details      []DetailInput            `json:"details,omitempty"`
	Items        []string                 `json:"items,omitempty"`
	Images       []schemadomain.ImageItem `json:"images,omitempty"`
	HTML         string                   `json:"html,omitempty"`
}

// BuildForm walks the schema in section order and produces one control
// descriptor per section, folding in the draft's current values and
// the unit prices of the selected vehicle.
func BuildForm(sections []schemadomain.Section, prices pricingdomain.Prices, draft *billdomain.BillDraft) []SectionControl {
	if draft == nil {
		draft = billdomain.NewDraft("")
	}

	controls := make([]SectionControl, 0, len(sections))
	for _, section := range sections {
		control := SectionControl{
			SectionID: section.ID,
			Title:     section.Title,
			Type:      section.Type,
		}

		switch section.Type {
		case schemadomain.SectionCustom:
			for _, field := range section.Fields {
				control.Inputs = append(control.Inputs, InputControl{
					FieldID:     field.ID,
					Name:        field.Name,
					Type:        field.Type,
					Placeholder: field.Placeholder,
					Icon:        field.Icon,
					Required:    field.Required,
					Value:       draft.CustomValues[section.ID][field.ID],
				})
			}

		case schemadomain.SectionVehicleCategories:
			for _, cat := range section.VehicleCategories {
				control.Categories = append(control.Categories, CategoryOption{
					ID:       cat.ID,
					Name:     cat.Name,
					Sizes:    cat.Sizes,
					Selected: cat.ID == draft.SelectedCategory,
				})
			}
			control.SelectedSize = draft.SelectedSize

		case schemadomain.SectionServices:
			for _, svc := range section.Services {
				row := ServiceRow{
					ServiceID:     svc.ID,
					Name:          svc.Name,
					DefaultWheels: svc.DefaultWheels,
					Count:         draft.ServiceCounts[svc.ID],
				}
				if draft.SelectedCategory != "" && draft.SelectedSize != "" {
					if prices.Has(draft.SelectedCategory, draft.SelectedSize, svc.ID) {
						price := prices.Lookup(draft.SelectedCategory, draft.SelectedSize, svc.ID)
						row.UnitPrice = &price
					}
				}
				control.Services = append(control.Services, row)
			}

		case schemadomain.SectionDetailsValues:
			for _, field := range section.DetailFields {
				control.Details = append(control.Details, DetailInput{
					FieldID: field.ID,
					Name:    field.Name,
					Value:   draft.DetailValues[field.ID],
				})
			}

		case schemadomain.SectionList, schemadomain.SectionYouTube, schemadomain.SectionFiles:
			control.Items = section.Items

		case schemadomain.SectionImages:
			control.Images = section.Images

		case schemadomain.SectionRichText:
			if len(section.Fields) > 0 {
				control.HTML = section.Fields[0].Value
			}
		}

		controls = append(controls, control)
	}
	return controls
}

// MarshalForm flattens a draft into the persisted section-id keyed
// document format.
func MarshalForm(sections []schemadomain.Section, draft *billdomain.BillDraft) billdomain.Form {
	form := billdomain.Form{}
	if draft == nil {
		return form
	}

	for _, section := range sections {
		switch section.Type {
		case schemadomain.SectionCustom:
			values := map[string]any{}
			for _, field := range section.Fields {
				if v, ok := draft.CustomValues[section.ID][field.ID]; ok && v != "" {
					values[field.ID] = v
				}
			}
			if len(values) > 0 {
				form[section.ID] = values
			}

		case schemadomain.SectionVehicleCategories:
			if draft.SelectedCategory == "" {
				continue
			}
			values := map[string]any{KeyCategory: draft.SelectedCategory}
			if draft.SelectedSize != "" {
				values[KeySize] = draft.SelectedSize
			}
			form[section.ID] = values

		case schemadomain.SectionServices:
			values := map[string]any{}
			for _, svc := range section.Services {
				if count, ok := draft.ServiceCounts[svc.ID]; ok && count != 0 {
					values[svc.ID] = count
				}
			}
			if len(values) > 0 {
				form[section.ID] = values
			}

		case schemadomain.SectionDetailsValues:
			values := map[string]any{}
			for _, field := range section.DetailFields {
				if v, ok := draft.DetailValues[field.ID]; ok {
					values[field.ID] = v
				}
			}
			if len(values) > 0 {
				form[section.ID] = values
			}
		}
	}
	return form
}

// VehicleSelection extracts the chosen category id and size from a
// saved form.
func VehicleSelection(sections []schemadomain.Section, form billdomain.Form) (categoryID, size string) {
	vehicle := schemadomain.FindByType(sections, schemadomain.SectionVehicleCategories)
	if vehicle == nil {
		return "", ""
	}
	return form.String(vehicle.ID, KeyCategory), form.String(vehicle.ID, KeySize)
}

// CalculateTotal sums count times unit price over the saved service
// counts. Without a selected category and size the total is 0, and an
// unpriced service contributes 0.
func CalculateTotal(sections []schemadomain.Section, prices pricingdomain.Prices, form billdomain.Form) float64 {
	categoryID, size := VehicleSelection(sections, form)
	if categoryID == "" || size == "" {
		return 0
	}

	services := schemadomain.FindByType(sections, schemadomain.SectionServices)
	if services == nil {
		return 0
	}

	var total float64
	for serviceID := range form.Section(services.ID) {
		count := form.Number(services.ID, serviceID)
		if count == 0 {
			continue
		}
		total += prices.Lookup(categoryID, size, serviceID) * count
	}
	return total
}

// ValidateDraft checks the vehicle selection before a save: a category
// must be chosen and the size must belong to that category.
func ValidateDraft(sections []schemadomain.Section, draft *billdomain.BillDraft) error {
	if draft == nil || draft.SelectedCategory == "" || draft.SelectedSize == "" {
		return billdomain.ErrVehicleNotSelected
	}
	vehicle := schemadomain.FindByType(sections, schemadomain.SectionVehicleCategories)
	if vehicle == nil {
		return billdomain.ErrVehicleNotSelected
	}
	for _, cat := range vehicle.VehicleCategories {
		if cat.ID != draft.SelectedCategory {
			continue
		}
		for _, size := range cat.Sizes {
			if size == draft.SelectedSize {
				return nil
			}
		}
		return billdomain.ErrSizeNotInCategory
	}
	return billdomain.ErrVehicleNotSelected
}
