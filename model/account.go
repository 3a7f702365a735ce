package models

import "github.com/shopspring/decimal"

// UserAccount is the per-user state: cash balance, pending cart and
// completed checkouts.
type UserAccount struct {
	Balance      decimal.Decimal `json:"balance"`
	Cart         Cart            `json:"cart"`
	Transactions []Transaction   `json:"transactions"`
}

// NewUserAccount returns an account with an empty cart and no history.
func NewUserAccount(balance decimal.Decimal) *UserAccount {
	return &UserAccount{Balance: balance, Transactions: []Transaction{}}
}

// Users maps usernames to accounts in first-seen order.
type Users struct {
	ordered[*UserAccount]
}

func NewUsers() *Users { return &Users{} }

func (u *Users) Get(name string) (*UserAccount, bool) { return u.get(name) }

func (u *Users) Put(name string, a *UserAccount) { u.set(name, a) }

func (u *Users) Len() int { return u.len() }

// Names returns the usernames in order.
func (u *Users) Names() []string {
	return append([]string(nil), u.keys...)
}

func (u *Users) UnmarshalJSON(data []byte) error {
	if err := u.ordered.UnmarshalJSON(data); err != nil {
		return err
	}
	u.each(func(name string, a *UserAccount) bool {
		if a == nil {
			u.items[name] = NewUserAccount(decimal.Zero)
		} else if a.Transactions == nil {
			a.Transactions = []Transaction{}
		}
		return true
	})
	return nil
}
