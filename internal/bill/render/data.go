package render

import (
	"fmt"
	"sort"
	"strings"

	billdomain "github.com/smallbiznis/vulca/internal/bill/domain"
	"github.com/smallbiznis/vulca/internal/bill/engine"
	companydomain "github.com/smallbiznis/vulca/internal/company/domain"
	"github.com/smallbiznis/vulca/internal/printtemplate"
	pricingdomain "github.com/smallbiznis/vulca/internal/pricing/domain"
	schemadomain "github.com/smallbiznis/vulca/internal/schema/domain"
)

// Sections of the work order layout are located by their configured
// titles, matched case-insensitively with collapsed whitespace. A
// schema without one of these titles renders that block empty.
const (
	TitleBillNumber  = "Numar Factura"
	TitleClient      = "Detalii Client"
	TitleVehicle     = "Tip Auto"
	TitleServices    = "Servicii"
	TitleTyreDetails = "Detalii Anvelopa"
)

// NumberFieldName is the custom field the bill number is read from.
const NumberFieldName = "Numar"

// missingPrice marks a service whose price cell was never configured.
const missingPrice = "-"

type KV struct {
	Key   string
	Value string
}

type ServiceLine struct {
	Name  string
	Price string
	Count string
}

type DetailLine struct {
	Name  string
	Value string
}

type CopyLabel struct {
	Header string
	Class  string
}

// Document is the fully resolved content of one printable work order.
type Document struct {
	Theme printtemplate.Theme

	CompanyName    string
	CompanyAddress string
	CompanyPhone   string
	CompanyCIF     string

	Number string
	Date   string

	Client       []KV
	Services     []ServiceLine
	VehicleLabel string
	Details      []DetailLine

	SubtotalExVAT string
	TotalWithVAT  string

	Copies    []CopyLabel
	AutoPrint bool
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), " "))
}

func findByTitle(sections []schemadomain.Section, title string) *schemadomain.Section {
	want := normalizeTitle(title)
	for i := range sections {
		if normalizeTitle(sections[i].Title) == want {
			return &sections[i]
		}
	}
	return nil
}

// sectionValues extracts one titled section's saved values, remapped
// per type: custom values keyed by field NAME, the vehicle selection
// as categoryId/size, counts and details as stored.
func sectionValues(sections []schemadomain.Section, form billdomain.Form, title string) map[string]any {
	section := findByTitle(sections, title)
	if section == nil {
		return map[string]any{}
	}

	raw := form.Section(section.ID)
	switch section.Type {
	case schemadomain.SectionCustom:
		mapped := map[string]any{}
		for _, field := range section.Fields {
			if value, ok := raw[field.ID]; ok {
				mapped[field.Name] = value
			}
		}
		return mapped
	case schemadomain.SectionVehicleCategories:
		return map[string]any{
			"categoryId": raw[engine.KeyCategory],
			"size":       raw[engine.KeySize],
		}
	default:
		return raw
	}
}

func asString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return formatNumber(v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatNumber(value float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", value), "0"), ".")
}

// BuildDocument resolves a saved bill against the company's CURRENT
// schema and price table. The bill's frozen total is left alone; the
// displayed total is recomputed live, so prices changed since the
// save show through.
func BuildDocument(
	bill *billdomain.Bill,
	company *companydomain.Company,
	sections []schemadomain.Section,
	prices pricingdomain.Prices,
	autoPrint bool,
) (*Document, error) {
	form, err := bill.DecodeForm()
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Theme:          printtemplate.Lookup(company.SelectedTemplate),
		CompanyName:    company.Name,
		CompanyAddress: company.Address,
		CompanyPhone:   company.Phone,
		CompanyCIF:     company.CIF,
		Date:           bill.CreatedAt.Format("02.01.2006"),
		Copies: []CopyLabel{
			{Header: "COPIA CLIENT", Class: "client-copy"},
			{Header: "COPIA SERVICE", Class: "service-copy"},
		},
		AutoPrint: autoPrint,
	}

	number := sectionValues(sections, form, TitleBillNumber)
	doc.Number = asString(number[NumberFieldName])
	if doc.Number == "" {
		doc.Number = "---"
	}

	clientSection := findByTitle(sections, TitleClient)
	if clientSection != nil {
		raw := form.Section(clientSection.ID)
		for _, field := range clientSection.Fields {
			if value, ok := raw[field.ID]; ok {
				doc.Client = append(doc.Client, KV{Key: field.Name, Value: asString(value)})
			}
		}
	}

	vehicle := sectionValues(sections, form, TitleVehicle)
	categoryID := asString(vehicle["categoryId"])
	size := asString(vehicle["size"])
	doc.VehicleLabel = vehicleLabel(sections, categoryID, size)

	doc.Services = serviceLines(sections, form, prices, categoryID, size)
	doc.Details = detailLines(sections, form)

	total := engine.CalculateTotal(sections, prices, form)
	doc.TotalWithVAT = formatNumber(total)
	if total == 0 {
		doc.SubtotalExVAT = "0"
	} else {
		doc.SubtotalExVAT = fmt.Sprintf("%.2f", total/1.19)
	}

	return doc, nil
}

func vehicleLabel(sections []schemadomain.Section, categoryID, size string) string {
	name := missingPrice
	section := findByTitle(sections, TitleVehicle)
	if section != nil {
		for _, cat := range section.VehicleCategories {
			if cat.ID == categoryID {
				name = cat.Name
				break
			}
		}
	}
	if size == "" {
		size = missingPrice
	}
	return name + " / " + size
}

// serviceLines lists the saved service counts in schema order, with a
// trailing block of saved ids the schema no longer knows. Unpriced
// cells show "-".
func serviceLines(
	sections []schemadomain.Section,
	form billdomain.Form,
	prices pricingdomain.Prices,
	categoryID, size string,
) []ServiceLine {
	section := findByTitle(sections, TitleServices)
	if section == nil {
		return nil
	}

	raw := form.Section(section.ID)
	price := func(serviceID string) string {
		if categoryID == "" || size == "" || !prices.Has(categoryID, size, serviceID) {
			return missingPrice
		}
		return formatNumber(prices.Lookup(categoryID, size, serviceID))
	}

	var lines []ServiceLine
	seen := map[string]bool{}
	for _, svc := range section.Services {
		if _, ok := raw[svc.ID]; !ok {
			continue
		}
		seen[svc.ID] = true
		lines = append(lines, ServiceLine{
			Name:  svc.Name,
			Price: price(svc.ID),
			Count: formatNumber(form.Number(section.ID, svc.ID)),
		})
	}

	var orphans []string
	for serviceID := range raw {
		if !seen[serviceID] {
			orphans = append(orphans, serviceID)
		}
	}
	sort.Strings(orphans)
	for _, serviceID := range orphans {
		lines = append(lines, ServiceLine{
			Name:  serviceID,
			Price: price(serviceID),
			Count: formatNumber(form.Number(section.ID, serviceID)),
		})
	}
	return lines
}

func detailLines(sections []schemadomain.Section, form billdomain.Form) []DetailLine {
	section := findByTitle(sections, TitleTyreDetails)
	if section == nil {
		return nil
	}

	name := func(fieldID string) string {
		for _, field := range section.DetailFields {
			if field.ID == fieldID {
				return field.Name
			}
		}
		return fieldID
	}

	raw := form.Section(section.ID)
	var lines []DetailLine
	seenIDs := make([]string, 0, len(raw))
	for fieldID := range raw {
		seenIDs = append(seenIDs, fieldID)
	}
	sort.Strings(seenIDs)

	// schema order first, then unknown ids
	ordered := make([]string, 0, len(seenIDs))
	for _, field := range section.DetailFields {
		if _, ok := raw[field.ID]; ok {
			ordered = append(ordered, field.ID)
		}
	}
	for _, fieldID := range seenIDs {
		known := false
		for _, field := range section.DetailFields {
			if field.ID == fieldID {
				known = true
				break
			}
		}
		if !known {
			ordered = append(ordered, fieldID)
		}
	}

	for _, fieldID := range ordered {
		lines = append(lines, DetailLine{
			Name:  name(fieldID),
			Value: asString(raw[fieldID]),
		})
	}
	return lines
}
