package domain

import "errors"

var (
	ErrInvalidCompany     = errors.New("invalid_company")
	ErrInvalidSectionType = errors.New("invalid_section_type")
	ErrIndexOutOfRange    = errors.New("index_out_of_range")
)
