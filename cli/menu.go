package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	models "shop-simulator/model"
	"shop-simulator/renderer"
	"shop-simulator/service"
)

const menuText = `
Options:
1. View products
2. Add to cart
3. View cart
4. Clear cart
5. Checkout
6. Exit
7. Remove product from cart
8. Purchase history
`

// Menu is the interactive numbered-menu dispatcher. It reads operator
// input line by line and renders results as Markdown.
type Menu struct {
	svc  service.ServiceInterface
	in   *bufio.Scanner
	out  io.Writer
	md   *renderer.Printer
	log  *zap.Logger
	user string

	outputFailed bool
}

// NewMenu wires a menu to in/out. md renders the Markdown blocks; prompts go
// straight to out. A nil logger discards output errors.
func NewMenu(svc service.ServiceInterface, in io.Reader, out io.Writer, md *renderer.Printer, log *zap.Logger) *Menu {
	if log == nil {
		log = zap.NewNop()
	}
	return &Menu{svc: svc, in: bufio.NewScanner(in), out: out, md: md, log: log}
}

// show prints a Markdown block. The first output failure is logged; later
// ones would only repeat it.
func (m *Menu) show(md string) {
	if err := m.md.Print(md); err != nil && !m.outputFailed {
		m.outputFailed = true
		m.log.Error("writing menu output", zap.Error(err))
	}
}

func (m *Menu) say(format string, args ...any) {
	m.show(fmt.Sprintf(format, args...) + "\n")
}

// readLine prompts and returns the trimmed answer. ok is false on EOF.
func (m *Menu) readLine(prompt string) (line string, ok bool) {
	fmt.Fprint(m.out, prompt)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

// Login selects the user, prompting for a name when user is empty.
func (m *Menu) Login(ctx context.Context, user string) error {
	for user == "" {
		var ok bool
		user, ok = m.readLine("Enter username: ")
		if !ok {
			return io.EOF
		}
	}
	acct, created, err := m.svc.Login(ctx, user)
	if err != nil {
		return err
	}
	m.user = user
	if created {
		m.say("New user '%s' created with balance %s.", user, models.FormatAmount(acct.Balance))
	} else {
		m.say("Welcome back, %s. Balance: %s.", user, models.FormatAmount(acct.Balance))
	}
	return nil
}

// Run shows the menu until the operator exits or input ends. State is saved
// on the way out either way.
func (m *Menu) Run(ctx context.Context) error {
	for {
		fmt.Fprint(m.out, menuText)
		choice, ok := m.readLine("Select an option: ")
		if !ok {
			return m.exit(ctx)
		}

		switch choice {
		case "1":
			m.listProducts()
		case "2":
			if !m.addToCart(ctx) {
				return m.exit(ctx)
			}
		case "3":
			m.viewCart(ctx)
		case "4":
			m.clearCart(ctx)
		case "5":
			m.checkout(ctx)
		case "6":
			return m.exit(ctx)
		case "7":
			if !m.removeFromCart(ctx) {
				return m.exit(ctx)
			}
		case "8":
			m.history(ctx)
		default:
			m.say("Invalid choice. Please try again.")
		}
	}
}

func (m *Menu) exit(ctx context.Context) error {
	if err := m.svc.Save(ctx); err != nil {
		return err
	}
	m.say("Exiting... Have a great day!")
	return nil
}

func (m *Menu) listProducts() {
	var b strings.Builder
	renderer.Products(&b, m.svc.ListProducts())
	m.show(b.String())
}

// addToCart returns false when input ended mid-prompt.
func (m *Menu) addToCart(ctx context.Context) bool {
	name, ok := m.readLine("Enter product name: ")
	if !ok {
		return false
	}
	if !m.inCatalog(name) {
		m.report(fmt.Errorf("%w: %q", service.ErrProductNotFound, name))
		return true
	}

	raw, ok := m.readLine("Enter quantity: ")
	if !ok {
		return false
	}
	qty, err := strconv.Atoi(raw)
	if err != nil {
		m.say("Invalid quantity. Please enter a number.")
		return true
	}

	if err := m.svc.AddToCart(ctx, m.user, name, qty); err != nil {
		m.report(err)
		return true
	}
	m.say("%d %s(s) added to cart.", qty, name)
	return true
}

func (m *Menu) inCatalog(name string) bool {
	for _, p := range m.svc.ListProducts() {
		if p.Name == name {
			return true
		}
	}
	return false
}

func (m *Menu) removeFromCart(ctx context.Context) bool {
	name, ok := m.readLine("Enter product name to remove: ")
	if !ok {
		return false
	}
	item, err := m.svc.RemoveFromCart(ctx, m.user, name)
	if err != nil {
		m.report(err)
		return true
	}
	m.say("Removed %d %s(s) from cart.", item.Quantity, item.Name)
	return true
}

func (m *Menu) viewCart(ctx context.Context) {
	items, subtotal, err := m.svc.GetCart(ctx, m.user)
	if err != nil {
		m.report(err)
		return
	}
	var b strings.Builder
	renderer.Cart(&b, items, subtotal)
	m.show(b.String())
}

func (m *Menu) clearCart(ctx context.Context) {
	cleared, err := m.svc.ClearCart(ctx, m.user)
	switch {
	case err != nil:
		m.report(err)
	case cleared:
		m.say("Cart cleared successfully.")
	default:
		m.say("Cart is already empty.")
	}
}

func (m *Menu) checkout(ctx context.Context) {
	sum, err := m.svc.Checkout(ctx, m.user)
	if err != nil {
		m.report(err)
		return
	}
	var b strings.Builder
	renderer.Checkout(&b, sum)
	m.show(b.String())
}

func (m *Menu) history(ctx context.Context) {
	txs, err := m.svc.History(ctx, m.user)
	if err != nil {
		m.report(err)
		return
	}
	var b strings.Builder
	renderer.History(&b, m.user, txs)
	m.show(b.String())
}

// report prints an operator-facing message for err.
func (m *Menu) report(err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		m.say("Product not found.")
	case errors.Is(err, service.ErrInvalidQuantity):
		m.say("Quantity must be greater than zero.")
	case errors.Is(err, service.ErrInsufficientStock):
		m.say("Not enough stock available.")
	case errors.Is(err, service.ErrEmptyCart):
		m.say("Your cart is empty. Add items before checkout.")
	case errors.Is(err, service.ErrInsufficientBalance):
		m.say("%s. Please remove items or add funds.", capitalize(err.Error()))
	case errors.Is(err, service.ErrNotInCart):
		m.say("That product is not in your cart.")
	default:
		m.say("Error: %v", err)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
