package report

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
)

// MoneyFormatter renders amounts in one display currency. Amounts are never
// converted; the currency is only a label.
type MoneyFormatter struct {
	code string
}

// NewMoneyFormatter fails for codes go-money does not know.
func NewMoneyFormatter(code string) (MoneyFormatter, error) {
	code = strings.ToUpper(code)
	if money.GetCurrency(code) == nil {
		return MoneyFormatter{}, fmt.Errorf("unknown currency %q", code)
	}
	return MoneyFormatter{code: code}, nil
}

func (f MoneyFormatter) Code() string { return f.code }

// Format returns the amount with symbol and grouping, e.g. $1,234.56.
func (f MoneyFormatter) Format(amount float64) string {
	return money.NewFromFloat(amount, f.code).Display()
}
