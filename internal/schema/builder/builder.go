// Package builder mutates a company's bill schema sections in memory.
// Persistence happens separately through the schema service, which
// renumbers order values on save.
package builder

import (
	"github.com/google/uuid"
	schemadomain "github.com/smallbiznis/vulca/internal/schema/domain"
)

// Builder edits an ordered section sequence. Zero value is unusable;
// construct with New.
type Builder struct {
	sections []schemadomain.Section
	newID    func() string
}

type Option func(*Builder)

// WithIDGenerator overrides nested item id generation, for tests.
func WithIDGenerator(gen func() string) Option {
	return func(b *Builder) { b.newID = gen }
}

func New(sections []schemadomain.Section, opts ...Option) *Builder {
	b := &Builder{
		sections: sections,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Sections returns the current working sequence.
func (b *Builder) Sections() []schemadomain.Section {
	return b.sections
}

// AddSection appends an empty custom section.
func (b *Builder) AddSection() *schemadomain.Section {
	section := schemadomain.Section{
		ID:                b.newID(),
		Title:             "New Section",
		Type:              schemadomain.SectionCustom,
		Order:             len(b.sections) + 1,
		Fields:            []schemadomain.Field{},
		VehicleCategories: []schemadomain.VehicleCategory{},
		Services:          []schemadomain.ServiceItem{},
		DetailFields:      []schemadomain.DetailField{},
	}
	b.sections = append(b.sections, section)
	return &b.sections[len(b.sections)-1]
}

func (b *Builder) RemoveSection(index int) error {
	if index < 0 || index >= len(b.sections) {
		return schemadomain.ErrIndexOutOfRange
	}
	b.sections = append(b.sections[:index], b.sections[index+1:]...)
	return nil
}

// SetSectionType retags a section. Payloads of the previous type are
// kept so switching back does not destroy entered data.
func (b *Builder) SetSectionType(index int, t schemadomain.SectionType) error {
	if index < 0 || index >= len(b.sections) {
		return schemadomain.ErrIndexOutOfRange
	}
	if !t.Valid() {
		return schemadomain.ErrInvalidSectionType
	}
	b.sections[index].Type = t
	return nil
}

func (b *Builder) SetSectionTitle(index int, title string) error {
	if index < 0 || index >= len(b.sections) {
		return schemadomain.ErrIndexOutOfRange
	}
	b.sections[index].Title = title
	return nil
}

func (b *Builder) AddField(sectionIndex int) error {
	if sectionIndex < 0 || sectionIndex >= len(b.sections) {
		return schemadomain.ErrIndexOutOfRange
	}
	section := &b.sections[sectionIndex]
	section.Fields = append(section.Fields, schemadomain.Field{
		ID:    b.newID(),
		Name:  "New Field",
		Type:  schemadomain.FieldText,
		Order: len(section.Fields) + 1,
	})
	return nil
}

func (b *Builder) RemoveField(sectionIndex, fieldIndex int) error {
	if sectionIndex < 0 || sectionIndex >= len(b.sections) {
		return schemadomain.ErrIndexOutOfRange
	}
	section := &b.sections[sectionIndex]
	if fieldIndex < 0 || fieldIndex >= len(section.Fields) {
		return schemadomain.ErrIndexOutOfRange
	}
	section.Fields = append(section.Fields[:fieldIndex], section.Fields[fieldIndex+1:]...)
	return nil
}

func (b *Builder) AddCategory(sectionIndex int, name string) error {
	if sectionIndex < 0 || sectionIndex >= len(b.sections) {
		return schemadomain.ErrIndexOutOfRange
	}
	section := &b.sections[sectionIndex]
	section.VehicleCategories = append(section.VehicleCategories, schemadomain.VehicleCategory{
		ID:    b.newID(),
		Name:  name,
		Sizes: []string{},
	})
	return nil
}

func (b *Builder) RemoveCategory(sectionIndex, categoryIndex int) error {
	if sectionIndex < 0 || sectionIndex >= len(b.sections) {
		return schemadomain.ErrIndexOutOfRange
	}
	section := &b.sections[sectionIndex]
	if categoryIndex < 0 || categoryIndex >= len(section.VehicleCategories) {
		return schemadomain.ErrIndexOutOfRange
	}
	section.VehicleCategories = append(section.VehicleCategories[:categoryIndex], section.VehicleCategories[categoryIndex+1:]...)
	return nil
}

func (b *Builder) AddSize(sectionIndex, categoryIndex int, size string) error {
	if sectionIndex < 0 || sectionIndex >= len(b.sections) {
		return schemadomain.ErrIndexOutOfRange
	}
	section := &b.sections[sectionIndex]
	if categoryIndex < 0 || categoryIndex >= len(section.VehicleCategories) {
		return schemadomain.ErrIndexOutOfRange
	}
	category := &section.VehicleCategories[categoryIndex]
	category.Sizes = append(category.Sizes, size)
	return nil
}

func (b *Builder) RemoveSize(sectionIndex, categoryIndex, sizeIndex int) error {
	if sectionIndex < 0 || sectionIndex >= len(b.sections) {
		return schemadomain.ErrIndexOutOfRange
	}
	section := &b.sections[sectionIndex]
	if categoryIndex < 0 || categoryIndex >= len(section.VehicleCategories) {
		return schemadomain.ErrIndexOutOfRange
	}
	category := &section.VehicleCategories[categoryIndex]
	if sizeIndex < 0 || sizeIndex >= len(category.Sizes) {
		return schemadomain.ErrIndexOutOfRange
	}
	category.Sizes = append(category.Sizes[:sizeIndex], category.Sizes[sizeIndex+1:]...)
	return nil
}

func (b *Builder) AddService(sectionIndex int, name string, defaultWheels int) error {
	if sectionIndex < 0 || sectionIndex >= len(b.sections) {
		return schemadomain.ErrIndexOutOfRange
	}
	section := &b.sections[sectionIndex]
	section.Services = append(section.Services, schemadomain.ServiceItem{
		ID:            b.newID(),
		Name:          name,
		DefaultWheels: defaultWheels,
	})
	return nil
}

func (b *Builder) RemoveService(sectionIndex, serviceIndex int) error {
	if sectionIndex < 0 || sectionIndex >= len(b.sections) {
		return schemadomain.ErrIndexOutOfRange
	}
	section := &b.sections[sectionIndex]
	if serviceIndex < 0 || serviceIndex >= len(section.Services) {
		return schemadomain.ErrIndexOutOfRange
	}
	section.Services = append(section.Services[:serviceIndex], section.Services[serviceIndex+1:]...)
	return nil
}

func (b *Builder) AddDetailField(sectionIndex int, name string) error {
	if sectionIndex < 0 || sectionIndex >= len(b.sections) {
		return schemadomain.ErrIndexOutOfRange
	}
	section := &b.sections[sectionIndex]
	section.DetailFields = append(section.DetailFields, schemadomain.DetailField{
		ID:   b.newID(),
		Name: name,
		Type: "number",
	})
	return nil
}

func (b *Builder) RemoveDetailField(sectionIndex, detailIndex int) error {
	if sectionIndex < 0 || sectionIndex >= len(b.sections) {
		return schemadomain.ErrIndexOutOfRange
	}
	section := &b.sections[sectionIndex]
	if detailIndex < 0 || detailIndex >= len(section.DetailFields) {
		return schemadomain.ErrIndexOutOfRange
	}
	section.DetailFields = append(section.DetailFields[:detailIndex], section.DetailFields[detailIndex+1:]...)
	return nil
}

// MoveSection splices a section from position a to position b and
// renumbers the whole sequence immediately, so in-memory order stays
// consistent with visual order before any save.
func (b *Builder) MoveSection(from, to int) error {
	if from < 0 || from >= len(b.sections) || to < 0 || to >= len(b.sections) {
		return schemadomain.ErrIndexOutOfRange
	}
	moved := b.sections[from]
	b.sections = append(b.sections[:from], b.sections[from+1:]...)
	b.sections = append(b.sections[:to], append([]schemadomain.Section{moved}, b.sections[to:]...)...)
	for i := range b.sections {
		b.sections[i].Order = i + 1
	}
	return nil
}

// MoveField splices a custom field within its section and renumbers the
// section's fields immediately.
func (b *Builder) MoveField(sectionIndex, from, to int) error {
	if sectionIndex < 0 || sectionIndex >= len(b.sections) {
		return schemadomain.ErrIndexOutOfRange
	}
	section := &b.sections[sectionIndex]
	if from < 0 || from >= len(section.Fields) || to < 0 || to >= len(section.Fields) {
		return schemadomain.ErrIndexOutOfRange
	}
	moved := section.Fields[from]
	section.Fields = append(section.Fields[:from], section.Fields[from+1:]...)
	section.Fields = append(section.Fields[:to], append([]schemadomain.Field{moved}, section.Fields[to:]...)...)
	for i := range section.Fields {
		section.Fields[i].Order = i + 1
	}
	return nil
}

// Renumber rewrites every section's order to its 1-based array position
// and every custom field's order within its section. Idempotent.
func Renumber(sections []schemadomain.Section) []schemadomain.Section {
	for i := range sections {
		sections[i].Order = i + 1
		for j := range sections[i].Fields {
			sections[i].Fields[j].Order = j + 1
		}
	}
	return sections
}
