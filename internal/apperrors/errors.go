// Package apperrors defines the error taxonomy shared by all usecases:
// absent entities, rejected input, failed role checks, and passed-through
// backend failures.
package apperrors

import "github.com/pkg/errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("authorization failed")
	ErrBackend      = errors.New("backend failure")
)

func NotFound(entity string) error {
	return errors.Wrap(ErrNotFound, entity)
}

func Validation(msg string) error {
	return errors.Wrap(ErrValidation, msg)
}

func Backend(err error, op string) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(ErrBackend, "%s: %v", op, err)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
