package core

import (
	"database/sql/driver"
	"fmt"
)

// ProtocolCustomer is the customer sentinel for the protocol-aggregate balance sheet
const ProtocolCustomer = ""

// AccountKind balance sheet bucket
type AccountKind int

const (
	_ AccountKind = iota
	// AccountCash tokens held by the protocol
	AccountCash
	// AccountDeposit savings balance
	AccountDeposit
	// AccountSupply supplied collateral
	AccountSupply
	// AccountBorrow outstanding borrows
	AccountBorrow
	// AccountLoan liquidity loaned to the pool
	AccountLoan
	// AccountTrading conversion clearing account
	AccountTrading
	// AccountInterestIncome interest earned from borrowers
	AccountInterestIncome
	// AccountInterestExpense interest paid to savers
	AccountInterestExpense
)

// AllAccountKinds every account kind, in declaration order
var AllAccountKinds = []AccountKind{
	AccountCash,
	AccountDeposit,
	AccountSupply,
	AccountBorrow,
	AccountLoan,
	AccountTrading,
	AccountInterestIncome,
	AccountInterestExpense,
}

// EntrySide debit or credit
type EntrySide int

const (
	_ EntrySide = iota
	// SideDebit debit
	SideDebit
	// SideCredit credit
	SideCredit
)

func (s EntrySide) String() string {
	switch s {
	case SideDebit:
		return "debit"
	case SideCredit:
		return "credit"
	default:
		return fmt.Sprintf("EntrySide(%d)", int(s))
	}
}

func (k AccountKind) String() string {
	switch k {
	case AccountCash:
		return "cash"
	case AccountDeposit:
		return "deposit"
	case AccountSupply:
		return "supply"
	case AccountBorrow:
		return "borrow"
	case AccountLoan:
		return "loan"
	case AccountTrading:
		return "trading"
	case AccountInterestIncome:
		return "interest_income"
	case AccountInterestExpense:
		return "interest_expense"
	default:
		return fmt.Sprintf("AccountKind(%d)", int(k))
	}
}

// ParseAccountKind parse account kind from its name
func ParseAccountKind(s string) (AccountKind, error) {
	for _, k := range AllAccountKinds {
		if k.String() == s {
			return k, nil
		}
	}

	return 0, NewError(ErrUnknownAccountKind, Params{"kind": s})
}

// Valid report whether k is one of the declared kinds
func (k AccountKind) Valid() bool {
	switch k {
	case AccountCash, AccountDeposit, AccountSupply, AccountBorrow, AccountLoan,
		AccountTrading, AccountInterestIncome, AccountInterestExpense:
		return true
	default:
		return false
	}
}

// NormalSide the side that increases the balance
func (k AccountKind) NormalSide() EntrySide {
	switch k {
	case AccountCash, AccountBorrow, AccountInterestExpense:
		return SideDebit
	case AccountDeposit, AccountSupply, AccountLoan, AccountTrading, AccountInterestIncome:
		return SideCredit
	default:
		return 0
	}
}

// CustomerScoped report whether balances of this kind belong to customers
func (k AccountKind) CustomerScoped() bool {
	switch k {
	case AccountDeposit, AccountSupply, AccountBorrow, AccountLoan, AccountTrading:
		return true
	case AccountCash, AccountInterestIncome, AccountInterestExpense:
		return false
	default:
		return false
	}
}

// Signed report whether the balance may go below zero.
// Only the trading account carries a signed position.
func (k AccountKind) Signed() bool {
	return k == AccountTrading
}

// Value implements driver.Valuer, stored by name
func (k AccountKind) Value() (driver.Value, error) {
	if !k.Valid() {
		return nil, NewError(ErrUnknownAccountKind, Params{"kind": int(k)})
	}

	return k.String(), nil
}

// Scan implements sql.Scanner
func (k *AccountKind) Scan(src interface{}) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("scan account kind: unsupported type %T", src)
	}

	kind, err := ParseAccountKind(s)
	if err != nil {
		return err
	}

	*k = kind
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (k AccountKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *AccountKind) UnmarshalText(b []byte) error {
	kind, err := ParseAccountKind(string(b))
	if err != nil {
		return err
	}

	*k = kind
	return nil
}
