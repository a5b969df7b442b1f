// Package accounts abstracts the external account system behind the
// admin delete-user side channel. Local user rows are deleted by the
// auth service; this provider removes the matching external account.
package accounts

import "context"

type Deleter interface {
	DeleteAccount(ctx context.Context, uid string) error
}

// NoOpDeleter is used when no external account system is configured.
type NoOpDeleter struct{}

func (NoOpDeleter) DeleteAccount(ctx context.Context, uid string) error {
	return nil
}
