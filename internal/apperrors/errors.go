package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the caller is not allowed to perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrAlreadyPosted indicates an attempt to post a journal entry that is already posted.
var ErrAlreadyPosted = errors.New("journal entry is already posted")

// ErrUnbalanced indicates that a journal entry's debit and credit totals differ
// beyond the accepted rounding tolerance.
var ErrUnbalanced = errors.New("journal entry is not balanced")

// ErrNotPosted indicates an operation that requires a posted journal entry
// (e.g. reversal) was attempted on an unposted one.
var ErrNotPosted = errors.New("journal entry is not posted")

// ErrMissingAccount indicates a required ledger account could not be resolved or created.
var ErrMissingAccount = errors.New("required account is missing")

// ErrInvalidAmount indicates a non-positive transaction amount.
var ErrInvalidAmount = errors.New("transaction amount must be positive")
