package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrInvalidAmount indicates a non-positive or malformed amount.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrInsufficientFunds indicates a debit larger than the available balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrUnsupportedCurrency indicates a currency code outside the configured set.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// ErrUnsupportedCurrencyPair indicates no conversion rate exists for the pair.
var ErrUnsupportedCurrencyPair = errors.New("unsupported currency pair")

// ErrInvalidConversion indicates a conversion request that can never succeed,
// such as converting a currency into itself.
var ErrInvalidConversion = errors.New("invalid conversion")

// ErrInconsistentRateTable indicates the configured rates contradict each
// other. It is fatal at startup.
var ErrInconsistentRateTable = errors.New("inconsistent rate table")

// ErrPersistenceFailure indicates the durable transaction log rejected a
// write. The in-memory state is left untouched when this is returned.
var ErrPersistenceFailure = errors.New("persistence failure")
