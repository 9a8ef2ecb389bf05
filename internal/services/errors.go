package services

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationError reports malformed client input. Field may be empty.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError reports a resource missing for the acting user.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

type InsufficientFundsError struct {
	WalletID  int
	Available decimal.Decimal
	Requested decimal.Decimal
	Credit    bool
}

func (e *InsufficientFundsError) Error() string {
	if e.Credit {
		return "insufficient credit limit"
	}
	return "insufficient balance"
}

// StorageError wraps a failure of the underlying data store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
