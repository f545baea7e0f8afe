package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Transact runs fn inside a single database transaction. Any error returned by
// fn rolls back every write made through tx; a nil return commits.
func Transact(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}

// ForUpdate adds a row lock to the next query so the selected rows stay
// locked until the surrounding transaction ends.
func ForUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Exists reports whether a row of model matches the given primary key
func Exists(tx *gorm.DB, model interface{}, column string, value interface{}) (bool, error) {
	var count int64
	if err := tx.Model(model).Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}).Count(&count).Error; err != nil {
		return false, errors.Wrapf(Translate(err), "failed to look up %s", column)
	}
	return count > 0, nil
}

// FindByID loads the row with the given primary key into dest, returning
// ErrNotFound when it does not exist.
func FindByID(tx *gorm.DB, dest interface{}, id interface{}) error {
	if err := tx.First(dest, id).Error; err != nil {
		return Translate(err)
	}
	return nil
}
