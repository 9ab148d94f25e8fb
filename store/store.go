// store is the only package that touches the database. It provides the
// generic fetch-or-insert primitive every service is built on, plus the
// mapping from driver errors into the errs taxonomy.
package store

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/shelfclub/booklist/errs"
)

/*

FindOrCreate looks up a single row of T whose non-zero fields equal match. If
one exists it is returned as-is; otherwise a new row is inserted from match
(plus attrs, if given) and returned.

Two concurrent callers can both observe "not found" and both insert; the
schema's uniqueness constraints make the loser fail with a duplicate-key
error, which we treat as "somebody else created it" and re-fetch. The attempt
runs in its own transaction — a savepoint when the caller already holds one —
because Postgres aborts the surrounding transaction on a unique violation and
the re-fetch has to run on a healthy connection. That makes the primitive
idempotent under races without any in-process locking.

attrs carries create-only fields that are NOT part of the row's identity (the
meetup host, for example) and is ignored when the row already exists.

*/

func FindOrCreate[T any](db *gorm.DB, match *T, attrs ...*T) (*T, error) {
	out := new(T)
	err := db.Transaction(func(tx *gorm.DB) error {
		q := tx.Where(match)
		if len(attrs) > 0 {
			q = q.Attrs(attrs[0])
		}
		return q.FirstOrCreate(out).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the insert race; the row exists now and the failed attempt has
		// been rolled back to its savepoint.
		out = new(T)
		refetchErr := db.Where(match).First(out).Error
		if errors.Is(refetchErr, gorm.ErrRecordNotFound) {
			// The conflicting row doesn't satisfy match: the caller passed
			// non-key fields that disagree with what's stored.
			return nil, &errs.ConstraintError{
				Msg: "a row with this key exists but with different attributes",
				Err: err,
			}
		}
		if refetchErr != nil {
			return nil, MapError("FindOrCreate", refetchErr)
		}
		return out, nil
	}
	if err != nil {
		return nil, MapError("FindOrCreate", err)
	}
	return out, nil
}

// First fetches a single row of T matching the non-zero fields of match and
// fails with NotFoundError when no row exists.
func First[T any](db *gorm.DB, entity string, match *T) (*T, error) {
	out := new(T)
	if err := db.Where(match).First(out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFoundf(entity, "%+v", match)
		}
		return nil, MapError("First", err)
	}
	return out, nil
}

// MapError folds a gorm/driver error into the errs taxonomy. Record-not-found
// is deliberately not handled here: whether a missing row is an error depends
// on the operation, so callers decide.
func MapError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &errs.ConstraintError{Msg: "duplicate key in " + op, Err: err}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &errs.ConstraintError{Msg: "foreign key violated in " + op, Err: err}
	case errors.Is(err, gorm.ErrInvalidData), errors.Is(err, gorm.ErrInvalidField):
		return errs.Validationf("%s: %s", op, err.Error())
	default:
		return &errs.StorageError{Op: op, Err: errors.WithStack(err)}
	}
}
