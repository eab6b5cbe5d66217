package core

import (
	"database/sql/driver"
	"fmt"
)

// Reason tags every ledger mutation for auditing
type Reason int

const (
	_ Reason = iota
	// ReasonCustomerDeposit customer deposit
	ReasonCustomerDeposit
	// ReasonCustomerWithdrawal customer withdrawal
	ReasonCustomerWithdrawal
	// ReasonCustomerBorrow customer borrow
	ReasonCustomerBorrow
	// ReasonCustomerPayBorrow customer repays borrow from supply
	ReasonCustomerPayBorrow
	// ReasonCollateralPayBorrow borrow repaid by collateral conversion
	ReasonCollateralPayBorrow
	// ReasonInterest interest accrual
	ReasonInterest
	// ReasonCustomerSupply customer supplies collateral
	ReasonCustomerSupply
	// ReasonCustomerLoan customer loans liquidity to the pool
	ReasonCustomerLoan
	// ReasonCheckpoint checkpoint refresh without balance change
	ReasonCheckpoint
)

var reasonNames = map[Reason]string{
	ReasonCustomerDeposit:     "customer_deposit",
	ReasonCustomerWithdrawal:  "customer_withdrawal",
	ReasonCustomerBorrow:      "customer_borrow",
	ReasonCustomerPayBorrow:   "customer_pay_borrow",
	ReasonCollateralPayBorrow: "collateral_pay_borrow",
	ReasonInterest:            "interest",
	ReasonCustomerSupply:      "customer_supply",
	ReasonCustomerLoan:        "customer_loan",
	ReasonCheckpoint:          "checkpoint",
}

func (r Reason) String() string {
	if s, ok := reasonNames[r]; ok {
		return s
	}

	return fmt.Sprintf("Reason(%d)", int(r))
}

// ParseReason parse reason from its name
func ParseReason(s string) (Reason, error) {
	for r, name := range reasonNames {
		if name == s {
			return r, nil
		}
	}

	return 0, fmt.Errorf("unknown reason %q", s)
}

// Value implements driver.Valuer
func (r Reason) Value() (driver.Value, error) {
	return r.String(), nil
}

// Scan implements sql.Scanner
func (r *Reason) Scan(src interface{}) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("scan reason: unsupported type %T", src)
	}

	reason, err := ParseReason(s)
	if err != nil {
		return err
	}

	*r = reason
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *Reason) UnmarshalText(b []byte) error {
	reason, err := ParseReason(string(b))
	if err != nil {
		return err
	}

	*r = reason
	return nil
}
