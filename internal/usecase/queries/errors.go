package queries

import (
	"parkhub/internal/infra"
	"parkhub/internal/pkg/errs"
)

var (
	ErrNotFound                = errs.New("record not found")
	ErrInvalidWindow           = errs.New("invalid time window")
	ErrForbidden               = errs.New("requester is not allowed to read this resource")
	ErrInvalidCursor           = errs.New("invalid pagination cursor")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

func markRepoErr(err error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, ErrNotFound)
	}
	return errs.Mark(err, ErrDatabaseOperationFailed)
}
