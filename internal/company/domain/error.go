package domain

import "errors"

var (
	ErrInvalidName         = errors.New("invalid_name")
	ErrCompanyNotFound     = errors.New("company_not_found")
	ErrMemberNotFound      = errors.New("member_not_found")
	ErrMemberAlreadyExists = errors.New("member_already_exists")
	ErrUnknownTemplate     = errors.New("unknown_template")
	ErrInvalidRole         = errors.New("invalid_role")
)
