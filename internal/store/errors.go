package store

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a row addressed by id or pair is absent
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert violates a unique constraint
	ErrDuplicate = errors.New("already exists")
	// ErrInUse is returned when deleting a row other rows still reference
	ErrInUse = errors.New("still referenced")
)

// translate maps driver and gorm errors onto the store's sentinels
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDuplicate), errors.Is(err, ErrInUse):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	default:
		return err
	}
}

// isUniqueViolation catches drivers that do not implement error translation
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "sqlstate 23505")
}

// Page bounds a list query. A zero Limit means no limit.
type Page struct {
	Offset int
	Limit  int
}

func (p Page) apply(tx *gorm.DB) *gorm.DB {
	if p.Offset > 0 {
		tx = tx.Offset(p.Offset)
	}
	if p.Limit > 0 {
		tx = tx.Limit(p.Limit)
	}
	return tx
}
