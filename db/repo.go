package db

import (
	"errors"

	"library-api/errs"

	"gorm.io/gorm"
)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

// 分页参数兜底
func normPage(page, perPage int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 || perPage > 100 {
		perPage = 10
	}
	return page, perPage
}

func totalPages(total int64, perPage int) int {
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// firstErr maps a First() failure: record-not-found becomes a domain
// rejection, anything else is an infrastructure failure.
func firstErr(err error, notFoundMsg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.New(errs.KindNotFound, notFoundMsg)
	}
	return errs.Unavailable(err)
}

// dupErr maps a write failure: a unique-index violation becomes a
// conflict (the store is the authority on these invariants).
func dupErr(err error, conflictMsg string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.New(errs.KindConflict, conflictMsg)
	}
	return errs.Unavailable(err)
}
