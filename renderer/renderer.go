// Package renderer turns shop state into Markdown for the terminal.
package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"

	models "shop-simulator/model"
	"shop-simulator/service"
)

// Products renders the catalog as a table.
func Products(w io.Writer, products []models.Product) {
	fmt.Fprintln(w, "## Available Products")
	fmt.Fprintln(w)
	if len(products) == 0 {
		fmt.Fprintln(w, "_No products in the catalog._")
		return
	}
	fmt.Fprintln(w, "| Product | Price | Stock | Discount |")
	fmt.Fprintln(w, "|:--|--:|--:|--:|")
	for _, p := range products {
		fmt.Fprintf(w, "| %s | %s | %d | %d%% |\n", escape(p.Name), models.FormatPrice(p.Price), p.Quantity, p.DiscountPercent)
	}
}

// Cart renders the cart lines and the untaxed subtotal.
func Cart(w io.Writer, items []models.CartItem, subtotal decimal.Decimal) {
	if len(items) == 0 {
		fmt.Fprintln(w, "Your cart is empty.")
		return
	}
	fmt.Fprintln(w, "## Your Cart")
	fmt.Fprintln(w)
	lines(w, items)
	fmt.Fprintf(w, "| **Subtotal** | | | **%s** |\n", models.FormatAmount(subtotal))
}

// Checkout renders the amounts charged by a successful checkout.
func Checkout(w io.Writer, sum models.CheckoutSummary) {
	fmt.Fprintln(w, "## Checkout Summary")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| | |")
	fmt.Fprintln(w, "|:--|--:|")
	fmt.Fprintf(w, "| Total Cost | %s |\n", models.FormatAmount(sum.Subtotal))
	fmt.Fprintf(w, "| GST (%s%%) | %s |\n", service.TaxRate.Shift(2).String(), models.FormatAmount(sum.Tax))
	fmt.Fprintf(w, "| Final Amount | %s |\n", models.FormatAmount(sum.Total))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Checkout successful! Thank you for your purchase.")
}

// History renders completed checkouts, oldest first.
func History(w io.Writer, user string, txs []models.Transaction) {
	fmt.Fprintf(w, "## Purchase History for %s\n\n", escape(user))
	if len(txs) == 0 {
		fmt.Fprintln(w, "_No purchases yet._")
		return
	}
	for i, tx := range txs {
		title := fmt.Sprintf("Order %d", i+1)
		if !tx.CreatedAt.IsZero() {
			title += " (" + tx.CreatedAt.Format("2006-01-02 15:04") + ")"
		}
		fmt.Fprintf(w, "### %s\n\n", title)
		lines(w, tx.Items())
		fmt.Fprintf(w, "| **Total paid** | | | **%s** |\n\n", models.FormatAmount(tx.Total))
	}
}

func lines(w io.Writer, items []models.CartItem) {
	fmt.Fprintln(w, "| Product | Quantity | Unit price | Amount |")
	fmt.Fprintln(w, "|:--|--:|--:|--:|")
	for _, it := range items {
		fmt.Fprintf(w, "| %s | %d | %s | %s |\n",
			escape(it.Name), it.Quantity, models.FormatPrice(it.UnitPrice), models.FormatAmount(it.Amount()))
	}
}

// escape keeps user-provided names from breaking table cells.
func escape(s string) string {
	return strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`).Replace(s)
}

// Printer writes Markdown, styled through glamour when Styled is set.
type Printer struct {
	w    io.Writer
	term *glamour.TermRenderer
}

// NewPrinter returns a Printer for w. When styled is false, Markdown is
// written verbatim.
func NewPrinter(w io.Writer, styled bool) (*Printer, error) {
	p := &Printer{w: w}
	if !styled {
		return p, nil
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return nil, err
	}
	p.term = r
	return p, nil
}

// Print renders md and writes it.
func (p *Printer) Print(md string) error {
	if p.term == nil {
		_, err := io.WriteString(p.w, md)
		return err
	}
	out, err := p.term.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(p.w, out)
	return err
}

// Printf formats a one-line message and prints it.
func (p *Printer) Printf(format string, args ...any) error {
	return p.Print(fmt.Sprintf(format, args...) + "\n")
}
