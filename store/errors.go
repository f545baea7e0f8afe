package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a looked-up row does not exist
var ErrNotFound = errors.New("record not found")

// ReferentialConstraintError reports a write rejected by a foreign key,
// e.g. deleting a row that other rows still reference.
type ReferentialConstraintError struct {
	Err error
}

func (e *ReferentialConstraintError) Error() string {
	return fmt.Sprintf("referential constraint violated: %v", e.Err)
}

func (e *ReferentialConstraintError) Unwrap() error {
	return e.Err
}

// DuplicateKeyError reports a write rejected by a unique or primary key
type DuplicateKeyError struct {
	Err error
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key: %v", e.Err)
}

func (e *DuplicateKeyError) Unwrap() error {
	return e.Err
}

// Translate converts gorm's dialect-neutral errors into the store's typed errors.
// It relies on gorm.Config.TranslateError being enabled on the connection.
// Errors it does not recognise are returned unchanged.
func Translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &ReferentialConstraintError{Err: err}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &DuplicateKeyError{Err: err}
	default:
		return err
	}
}

// IsReferentialConstraint reports whether err is, or wraps, a ReferentialConstraintError
func IsReferentialConstraint(err error) bool {
	var target *ReferentialConstraintError
	return errors.As(err, &target)
}

// IsDuplicateKey reports whether err is, or wraps, a DuplicateKeyError
func IsDuplicateKey(err error) bool {
	var target *DuplicateKeyError
	return errors.As(err, &target)
}
