package format

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DateLayout is the canonical stored representation of calendar dates.
// Display formatting never changes what is stored.
const DateLayout = "2006-01-02"

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Currency renders a monetary value as locale-correct Brazilian currency,
// e.g. "R$ 15.840,00". The underlying decimal is unaffected.
func Currency(v decimal.Decimal) string {
	f, _ := v.Round(2).Float64()
	return printer.Sprint(currency.Symbol(currency.BRL.Amount(f)))
}

// ParseDate parses a stored calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Date renders a stored calendar date in Brazilian day/month/year order.
// Unparseable input is returned verbatim so display never loses data.
func Date(s string) string {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return s
	}
	return t.Format("02/01/2006")
}
