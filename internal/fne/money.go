package fne

import "github.com/shopspring/decimal"

// Minor is an amount in minor currency units (centimes).
type Minor int64

// Display returns the amount in display units, i.e. divided by 100.
func (m Minor) Display() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// Float is Display as a float64, for callers that do not need exact decimals.
func (m Minor) Float() float64 {
	f, _ := m.Display().Float64()
	return f
}

// String renders the display amount with two decimals.
func (m Minor) String() string {
	return m.Display().StringFixed(2)
}
