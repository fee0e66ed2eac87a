package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
// Deals that were already confirmed or rejected are reported as not found
// on the confirm path.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrCurrencyNotFound indicates that one or more currency codes are not known
// to the rate store. The wrapping message lists every missing code.
var ErrCurrencyNotFound = errors.New("currency not found")

// ErrSameCurrency indicates an attempt to exchange a currency into itself.
var ErrSameCurrency = errors.New("conversion between identical currencies is not supported")

// ErrConfirmationExpired indicates that the confirmation window for a deal has
// passed. The deal is persisted as rejected before this error is returned.
var ErrConfirmationExpired = errors.New("confirmation window expired")

// ErrInvalidDateRange indicates that a report was requested with date_from
// after date_to.
var ErrInvalidDateRange = errors.New("invalid date range")

// ErrCurrencyInUse indicates an attempt to delete a currency that is still
// referenced by at least one deal.
var ErrCurrencyInUse = errors.New("currency is referenced by existing deals")
