package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrorCode int
type ErrorCode int

// ErrorCategory groups error codes by how callers should react
type ErrorCategory int

const (
	// CategoryUnknown unknown
	CategoryUnknown ErrorCategory = iota
	// CategoryConfiguration collaborator not wired or not authorized
	CategoryConfiguration
	// CategoryValidation request rejected against current balances
	CategoryValidation
	// CategoryInvariant defensive check failed
	CategoryInvariant
	// CategoryExternal external call failed
	CategoryExternal
)

const (
	// ErrUnknown unkown
	ErrUnknown ErrorCode = 100000
	// ErrOperationForbidden operation forbidden
	ErrOperationForbidden ErrorCode = 100001
	// ErrUnauthorized missing or invalid access token
	ErrUnauthorized ErrorCode = 100002

	// ErrOracleNotConfigured price oracle not wired
	ErrOracleNotConfigured ErrorCode = 100100
	// ErrOracleNotAllowed price oracle does not allow this ledger
	ErrOracleNotAllowed ErrorCode = 100101
	// ErrBorrowStorageNotConfigured borrow storage not wired
	ErrBorrowStorageNotConfigured ErrorCode = 100102
	// ErrTokenNotConfigured token capability not wired
	ErrTokenNotConfigured ErrorCode = 100103
	// ErrAssetNotFound asset not registered
	ErrAssetNotFound ErrorCode = 100104

	// ErrInvalidAmount invalid amount
	ErrInvalidAmount ErrorCode = 100200
	// ErrInsufficientBalance debit would drive a balance negative
	ErrInsufficientBalance ErrorCode = 100201
	// ErrInvalidCollateralRatio collateral ratio not satisfied
	ErrInvalidCollateralRatio ErrorCode = 100202
	// ErrAssetNotBorrowable asset not borrowable
	ErrAssetNotBorrowable ErrorCode = 100203
	// ErrSameAsset payment asset equals borrow asset
	ErrSameAsset ErrorCode = 100204
	// ErrBorrowNotFound no outstanding borrow
	ErrBorrowNotFound ErrorCode = 100205
	// ErrCollateralRatioValid conversion requested while the ratio is valid
	ErrCollateralRatioValid ErrorCode = 100206
	// ErrConvertExceedsBorrow converted amount exceeds the outstanding borrow
	ErrConvertExceedsBorrow ErrorCode = 100207
	// ErrUnknownAccountKind unknown account kind
	ErrUnknownAccountKind ErrorCode = 100208
	// ErrInvalidPrice invalid price
	ErrInvalidPrice ErrorCode = 100209
	// ErrInvalidCustomer invalid customer
	ErrInvalidCustomer ErrorCode = 100210
	// ErrInvalidArgument malformed request
	ErrInvalidArgument ErrorCode = 100211
	// ErrTraceUsed trace id already has postings
	ErrTraceUsed ErrorCode = 100212

	// ErrNegativeInterest computed interest is negative
	ErrNegativeInterest ErrorCode = 100300
	// ErrConcurrentUpdate checkpoint changed under the transaction
	ErrConcurrentUpdate ErrorCode = 100301

	// ErrTransferFailed token transfer failed
	ErrTransferFailed ErrorCode = 100400
	// ErrPriceUnavailable price source failed
	ErrPriceUnavailable ErrorCode = 100401
)

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.String()
}

// Category error category derived from the code range
func (e ErrorCode) Category() ErrorCategory {
	switch int(e) / 100 {
	case 1001:
		return CategoryConfiguration
	case 1002:
		return CategoryValidation
	case 1003:
		return CategoryInvariant
	case 1004:
		return CategoryExternal
	default:
		return CategoryUnknown
	}
}

func (c ErrorCategory) String() string {
	switch c {
	case CategoryConfiguration:
		return "configuration"
	case CategoryValidation:
		return "validation"
	case CategoryInvariant:
		return "invariant"
	case CategoryExternal:
		return "external"
	default:
		return "unknown"
	}
}

// Params structured evidence attached to an error
type Params map[string]interface{}

// Error error code with the parameters that triggered it
type Error struct {
	Code   ErrorCode
	Params Params
	Cause  error
}

// NewError new error with params
func NewError(code ErrorCode, params Params) *Error {
	return &Error{Code: code, Params: params}
}

// WrapError new error caused by err
func WrapError(code ErrorCode, err error, params Params) *Error {
	return &Error{Code: code, Params: params, Cause: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Code.String())

	keys := make([]string, 0, len(e.Params))
	for k := range e.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Params[k])
	}

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

// Unwrap makes errors.Is(err, code) work
func (e *Error) Unwrap() error {
	return e.Code
}

// Is matches on the error code
func (e *Error) Is(target error) bool {
	if code, ok := target.(ErrorCode); ok {
		return e.Code == code
	}

	return false
}

// CodeOf extract the error code, ErrUnknown if err carries none
func CodeOf(err error) ErrorCode {
	for err != nil {
		switch v := err.(type) {
		case ErrorCode:
			return v
		case *Error:
			return v.Code
		}

		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}

	return ErrUnknown
}
