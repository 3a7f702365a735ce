package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogKeepsFileOrder(t *testing.T) {
	raw := `{
    "Monitor": {"price": 15000, "quantity": 20, "discount": 8},
    "Laptop": {"price": 50000, "quantity": 10, "discount": 10},
    "Mouse": {"price": 500, "quantity": 100, "discount": 2}
}`
	var c Catalog
	require.NoError(t, json.Unmarshal([]byte(raw), &c))

	ps := c.Products()
	require.Len(t, ps, 3)
	assert.Equal(t, []string{"Monitor", "Laptop", "Mouse"}, []string{ps[0].Name, ps[1].Name, ps[2].Name})
	assert.Equal(t, Product{Name: "Laptop", Price: 50000, Quantity: 10, DiscountPercent: 10}, ps[1])

	out, err := json.Marshal(&c)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
	assert.Regexp(t, `^\{"Monitor":.*"Laptop":.*"Mouse":`, string(out))
}

func TestCatalogProductsAreCopies(t *testing.T) {
	c := NewCatalog(Product{Name: "Mouse", Price: 500, Quantity: 100})
	ps := c.Products()
	ps[0].Quantity = 1

	p, ok := c.Get("Mouse")
	require.True(t, ok)
	assert.Equal(t, 100, p.Quantity)
}

func TestCatalogRejectsNonObject(t *testing.T) {
	var c Catalog
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &c))
}

func TestCartOrderAndSubtotal(t *testing.T) {
	var c Cart
	c.Put("Mouse", CartLine{Quantity: 3, UnitPrice: 500})
	c.Put("Keyboard", CartLine{Quantity: 2, UnitPrice: 1000})
	c.Put("Mouse", CartLine{Quantity: 4, UnitPrice: 500})

	assert.Equal(t, []CartItem{
		{Name: "Mouse", Quantity: 4, UnitPrice: 500},
		{Name: "Keyboard", Quantity: 2, UnitPrice: 1000},
	}, c.Items())
	assert.True(t, c.Subtotal().Equal(decimal.NewFromInt(4000)))

	c.Remove("Mouse")
	assert.Equal(t, 1, c.Len())
	c.Empty()
	assert.True(t, c.IsEmpty())
	assert.NotNil(t, c.Items())
}

func TestCartCloneIsDeep(t *testing.T) {
	var c Cart
	c.Put("Mouse", CartLine{Quantity: 3, UnitPrice: 500})
	snap := c.Clone()
	l, _ := c.Line("Mouse")
	l.Quantity = 10
	c.Empty()

	got, ok := snap.Line("Mouse")
	require.True(t, ok)
	assert.Equal(t, 3, got.Quantity)
}

func TestUsersLoadOriginalFormat(t *testing.T) {
	raw := `{
    "alice": {
        "balance": 97640.0,
        "cart": {},
        "transactions": [
            {"cart": {"Keyboard": {"quantity": 2, "price": 1000}}, "total": 2360.0}
        ]
    },
    "bob": {"balance": 100000, "cart": {"Mouse": {"quantity": 1, "price": 500}}, "transactions": []}
}`
	var u Users
	require.NoError(t, json.Unmarshal([]byte(raw), &u))
	assert.Equal(t, []string{"alice", "bob"}, u.Names())

	alice, ok := u.Get("alice")
	require.True(t, ok)
	assert.True(t, alice.Balance.Equal(decimal.NewFromInt(97640)))
	require.Len(t, alice.Transactions, 1)
	assert.True(t, alice.Transactions[0].Total.Equal(decimal.NewFromInt(2360)))
	assert.Equal(t, []CartItem{{Name: "Keyboard", Quantity: 2, UnitPrice: 1000}}, alice.Transactions[0].Items())

	bob, _ := u.Get("bob")
	assert.Equal(t, 1, bob.Cart.Len())
}

func TestLegacyTransactionsGetDistinctIDs(t *testing.T) {
	raw := `{
    "alice": {
        "balance": 95280,
        "cart": {},
        "transactions": [
            {"cart": {"Keyboard": {"quantity": 2, "price": 1000}}, "total": 2360.0},
            {"cart": {"Keyboard": {"quantity": 2, "price": 1000}}, "total": 2360.0},
            {"id": "7b0f5d43-7e37-4c35-9f0e-5f7f6f3c2a11", "cart": {}, "total": 0}
        ]
    }
}`
	var u Users
	require.NoError(t, json.Unmarshal([]byte(raw), &u))
	alice, ok := u.Get("alice")
	require.True(t, ok)
	require.Len(t, alice.Transactions, 3)

	first, second := alice.Transactions[0].ID, alice.Transactions[1].ID
	assert.NotEqual(t, uuid.Nil, first)
	assert.NotEqual(t, uuid.Nil, second)
	assert.NotEqual(t, first, second)
	assert.Equal(t, uuid.MustParse("7b0f5d43-7e37-4c35-9f0e-5f7f6f3c2a11"), alice.Transactions[2].ID)

	// ids assigned on load are written back and kept on the next load
	data, err := json.Marshal(&u)
	require.NoError(t, err)
	var again Users
	require.NoError(t, json.Unmarshal(data, &again))
	reloaded, _ := again.Get("alice")
	assert.Equal(t, first, reloaded.Transactions[0].ID)
}

func TestUserAccountRoundTripKeepsBalanceExact(t *testing.T) {
	a := NewUserAccount(decimal.RequireFromString("97640.00"))
	a.Cart.Put("Mouse", CartLine{Quantity: 1, UnitPrice: 500})

	out, err := json.Marshal(a)
	require.NoError(t, err)

	var back UserAccount
	require.NoError(t, json.Unmarshal(out, &back))
	assert.True(t, back.Balance.Equal(a.Balance))
	assert.Equal(t, a.Cart.Items(), back.Cart.Items())
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "₹2,360.00", FormatAmount(decimal.RequireFromString("2360")))
	assert.Equal(t, "₹360.00", FormatAmount(decimal.RequireFromString("360.004")))
	assert.Equal(t, "₹100,000.00", FormatPrice(100000))
}
