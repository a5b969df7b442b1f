package domain

// BillDraft is the in-progress state of the fill-bill form, held as
// explicit named selections instead of raw section value bags. The
// vehicle selection is a single category/size pair shared by the
// service price resolution.
type BillDraft struct {
	Token            string             `json:"token"`
	SelectedCategory string             `json:"selectedCategory"`
	SelectedSize     string             `json:"selectedSize"`
	ServiceCounts    map[string]float64 `json:"serviceCounts"`
	DetailValues     map[string]float64 `json:"detailValues"`
	CustomValues     map[string]map[string]string `json:"customValues"`
}

func NewDraft(token string) *BillDraft {
	return &BillDraft{
		Token:         token,
		ServiceCounts: map[string]float64{},
		DetailValues:  map[string]float64{},
		CustomValues:  map[string]map[string]string{},
	}
}

// SelectCategory switches the vehicle category. Changing category
// invalidates the size, which belongs to the previous category's list.
func (d *BillDraft) SelectCategory(categoryID string) {
	if d.SelectedCategory != categoryID {
		d.SelectedSize = ""
	}
	d.SelectedCategory = categoryID
}

func (d *BillDraft) SetServiceCount(serviceID string, count float64) {
	if d.ServiceCounts == nil {
		d.ServiceCounts = map[string]float64{}
	}
	d.ServiceCounts[serviceID] = count
}

func (d *BillDraft) SetDetailValue(fieldID string, value float64) {
	if d.DetailValues == nil {
		d.DetailValues = map[string]float64{}
	}
	d.DetailValues[fieldID] = value
}

func (d *BillDraft) SetCustomValue(sectionID, fieldID, value string) {
	if d.CustomValues == nil {
		d.CustomValues = map[string]map[string]string{}
	}
	if d.CustomValues[sectionID] == nil {
		d.CustomValues[sectionID] = map[string]string{}
	}
	d.CustomValues[sectionID][fieldID] = value
}
