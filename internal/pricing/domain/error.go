package domain

import "errors"

var (
	ErrInvalidCompany   = errors.New("invalid_company")
	ErrSchemaIncomplete = errors.New("schema_incomplete")
	ErrNegativePrice    = errors.New("negative_price")
)
