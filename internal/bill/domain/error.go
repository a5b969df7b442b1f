package domain

import "errors"

var (
	ErrInvalidCompany      = errors.New("invalid_company")
	ErrBillNotFound        = errors.New("bill_not_found")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrVehicleNotSelected  = errors.New("vehicle_not_selected")
	ErrSizeNotInCategory   = errors.New("size_not_in_category")
	ErrSaveInProgress      = errors.New("save_in_progress")
	ErrUnknownDraft        = errors.New("unknown_draft")
	ErrForbidden           = errors.New("forbidden")
)
