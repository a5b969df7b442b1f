package builder

import (
	"fmt"
	"testing"

	schemadomain "github.com/smallbiznis/vulca/internal/schema/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuilder(sections []schemadomain.Section) *Builder {
	next := 0
	return New(sections, WithIDGenerator(func() string {
		next++
		return fmt.Sprintf("id-%d", next)
	}))
}

func TestAddSectionDefaults(t *testing.T) {
	b := newTestBuilder(nil)

	section := b.AddSection()

	assert.Equal(t, "id-1", section.ID)
	assert.Equal(t, schemadomain.SectionCustom, section.Type)
	assert.Equal(t, 1, section.Order)
	assert.Empty(t, section.Fields)

	b.AddSection()
	require.Len(t, b.Sections(), 2)
	assert.Equal(t, 2, b.Sections()[1].Order)
}

func TestSetSectionTypePreservesPayloads(t *testing.T) {
	b := newTestBuilder(nil)
	b.AddSection()

	require.NoError(t, b.AddField(0))
	require.NoError(t, b.AddCategory(0, "Autoturism"))
	require.NoError(t, b.AddSize(0, 0, "R16"))

	require.NoError(t, b.SetSectionType(0, schemadomain.SectionServices))
	require.NoError(t, b.SetSectionType(0, schemadomain.SectionCustom))

	section := b.Sections()[0]
	assert.Len(t, section.Fields, 1)
	require.Len(t, section.VehicleCategories, 1)
	assert.Equal(t, []string{"R16"}, section.VehicleCategories[0].Sizes)
}

func TestSetSectionTypeRejectsUnknown(t *testing.T) {
	b := newTestBuilder(nil)
	b.AddSection()

	err := b.SetSectionType(0, schemadomain.SectionType("totals"))
	assert.ErrorIs(t, err, schemadomain.ErrInvalidSectionType)
}

func TestMoveSectionRenumbersImmediately(t *testing.T) {
	b := newTestBuilder(nil)
	first := b.AddSection().ID
	second := b.AddSection().ID
	third := b.AddSection().ID

	require.NoError(t, b.MoveSection(2, 0))

	got := b.Sections()
	assert.Equal(t, []string{third, first, second}, []string{got[0].ID, got[1].ID, got[2].ID})
	for i, section := range got {
		assert.Equal(t, i+1, section.Order)
	}
}

func TestMoveFieldRenumbersImmediately(t *testing.T) {
	b := newTestBuilder(nil)
	b.AddSection()
	require.NoError(t, b.AddField(0))
	require.NoError(t, b.AddField(0))
	require.NoError(t, b.AddField(0))

	fields := b.Sections()[0].Fields
	lastID := fields[2].ID

	require.NoError(t, b.MoveField(0, 2, 0))

	fields = b.Sections()[0].Fields
	assert.Equal(t, lastID, fields[0].ID)
	for i, field := range fields {
		assert.Equal(t, i+1, field.Order)
	}
}

func TestRemoveOutOfRange(t *testing.T) {
	b := newTestBuilder(nil)
	b.AddSection()

	assert.ErrorIs(t, b.RemoveSection(5), schemadomain.ErrIndexOutOfRange)
	assert.ErrorIs(t, b.RemoveField(0, 0), schemadomain.ErrIndexOutOfRange)
	assert.ErrorIs(t, b.RemoveCategory(0, -1), schemadomain.ErrIndexOutOfRange)
}

// Renumbering already-sequential sections must not change them, and
// arbitrary order values always collapse to 1..N by position.
func TestRenumberIdempotent(t *testing.T) {
	sections := []schemadomain.Section{
		{ID: "a", Order: 7, Fields: []schemadomain.Field{{ID: "f1", Order: 9}, {ID: "f2", Order: 2}}},
		{ID: "b", Order: 3},
		{ID: "c", Order: 3},
	}

	once := Renumber(sections)
	require.Equal(t, []int{1, 2, 3}, []int{once[0].Order, once[1].Order, once[2].Order})
	assert.Equal(t, 1, once[0].Fields[0].Order)
	assert.Equal(t, 2, once[0].Fields[1].Order)

	twice := Renumber(once)
	assert.Equal(t, once, twice)
}
