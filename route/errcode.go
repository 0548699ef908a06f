// route/errcode.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package route

import "fmt"

// ErrCode is the runtime error taxonomy returned by every
// mutating route operation. It is the sole return channel for edit
// failures -- no exceptions escape a route edit.
type ErrCode int

const (
	OK ErrCode = iota
	ErrArptNotFound
	ErrInvalidDelete
	ErrAwyAwyMismatch
	ErrAwyWptMismatch
	ErrAwyProcMismatch
	ErrWptProcMismatch
	ErrInvalidAwy
	ErrDuplicateLeg
	ErrInvalidEntry
	ErrInvalidRwy
	ErrInvalidSid
	ErrInvalidStar
	ErrInvalidFinal
	ErrInvalidTrans
	ErrNotInDatabase
	ErrUnableNextAlt
)

var errCodeNames = [...]string{
	OK:                 "OK",
	ErrArptNotFound:    "ARPT_NOT_FOUND",
	ErrInvalidDelete:   "INVALID_DELETE",
	ErrAwyAwyMismatch:  "AWY_AWY_MISMATCH",
	ErrAwyWptMismatch:  "AWY_WPT_MISMATCH",
	ErrAwyProcMismatch: "AWY_PROC_MISMATCH",
	ErrWptProcMismatch: "WPT_PROC_MISMATCH",
	ErrInvalidAwy:      "INVALID_AWY",
	ErrDuplicateLeg:    "DUPLICATE_LEG",
	ErrInvalidEntry:    "INVALID_ENTRY",
	ErrInvalidRwy:      "INVALID_RWY",
	ErrInvalidSid:      "INVALID_SID",
	ErrInvalidStar:     "INVALID_STAR",
	ErrInvalidFinal:    "INVALID_FINAL",
	ErrInvalidTrans:    "INVALID_TRANS",
	ErrNotInDatabase:   "NOT_IN_DATABASE",
	ErrUnableNextAlt:   "UNABLE_NEXT_ALT",
}

func (c ErrCode) String() string {
	if int(c) >= 0 && int(c) < len(errCodeNames) && errCodeNames[c] != "" {
		return errCodeNames[c]
	}
	return fmt.Sprintf("ErrCode(%d)", int(c))
}

// Error lets ErrCode satisfy the error interface so it can be returned
// from functions that also need to signal truly exceptional, programmer-
// error conditions (nil handle, malformed file the format itself
// forbids) via ordinary wrapped errors.
func (c ErrCode) Error() string { return c.String() }

// Ok reports whether c is the success code.
func (c ErrCode) Ok() bool { return c == OK }
