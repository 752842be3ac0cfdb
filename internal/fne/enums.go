package fne

import (
	"fmt"
	"strings"
)

// InvoiceType distinguishes sales invoices from purchase vouchers.
type InvoiceType string

const (
	InvoiceTypeSale     InvoiceType = "sale"
	InvoiceTypePurchase InvoiceType = "purchase"
)

// RequiresTaxes reports whether items of this document type must carry taxes.
func (t InvoiceType) RequiresTaxes() bool { return t == InvoiceTypeSale }

func (t InvoiceType) Description() string {
	switch t {
	case InvoiceTypeSale:
		return "Facture de vente"
	case InvoiceTypePurchase:
		return "Bordereau d'achat"
	}
	return ""
}

// ParseInvoiceType accepts "sale" or "purchase" in any case.
func ParseInvoiceType(s string) (InvoiceType, error) {
	switch t := InvoiceType(strings.ToLower(strings.TrimSpace(s))); t {
	case InvoiceTypeSale, InvoiceTypePurchase:
		return t, nil
	}
	return "", fmt.Errorf("unknown invoice type %q", s)
}

// PaymentMethod is the settlement mode of an invoice.
type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "cash"
	PaymentCard        PaymentMethod = "card"
	PaymentCheck       PaymentMethod = "check"
	PaymentMobileMoney PaymentMethod = "mobile-money"
	PaymentTransfer    PaymentMethod = "transfer"
	PaymentDeferred    PaymentMethod = "deferred"
)

// PaymentMethods lists every accepted payment method.
var PaymentMethods = []PaymentMethod{
	PaymentCash, PaymentCard, PaymentCheck, PaymentMobileMoney, PaymentTransfer, PaymentDeferred,
}

var paymentAliases = map[string]PaymentMethod{
	"cash":         PaymentCash,
	"espece":       PaymentCash,
	"card":         PaymentCard,
	"carte":        PaymentCard,
	"check":        PaymentCheck,
	"cheque":       PaymentCheck,
	"mobile-money": PaymentMobileMoney,
	"mobilemoney":  PaymentMobileMoney,
	"mobile_money": PaymentMobileMoney,
	"transfer":     PaymentTransfer,
	"virement":     PaymentTransfer,
	"deferred":     PaymentDeferred,
	"terme":        PaymentDeferred,
	"a_terme":      PaymentDeferred,
}

// ParsePaymentMethod resolves a payment method or one of its French aliases.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	if pm, ok := paymentAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return pm, nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

// IsImmediate is false only for deferred payment.
func (p PaymentMethod) IsImmediate() bool { return p != PaymentDeferred }

func (p PaymentMethod) Description() string {
	switch p {
	case PaymentCash:
		return "Espèce"
	case PaymentCard:
		return "Carte bancaire"
	case PaymentCheck:
		return "Chèque"
	case PaymentMobileMoney:
		return "Mobile money"
	case PaymentTransfer:
		return "Virement bancaire"
	case PaymentDeferred:
		return "À terme"
	}
	return ""
}

// InvoiceTemplate is the customer category of an invoice.
type InvoiceTemplate string

const (
	TemplateB2C InvoiceTemplate = "B2C"
	TemplateB2B InvoiceTemplate = "B2B"
	TemplateB2F InvoiceTemplate = "B2F"
	TemplateB2G InvoiceTemplate = "B2G"
)

// Templates lists every accepted template.
var Templates = []InvoiceTemplate{TemplateB2C, TemplateB2B, TemplateB2F, TemplateB2G}

// ParseInvoiceTemplate is case-insensitive.
func ParseInvoiceTemplate(s string) (InvoiceTemplate, error) {
	switch t := InvoiceTemplate(strings.ToUpper(strings.TrimSpace(s))); t {
	case TemplateB2C, TemplateB2B, TemplateB2F, TemplateB2G:
		return t, nil
	}
	return "", fmt.Errorf("unknown invoice template %q", s)
}

// RequiresNCC is true for business customers, who must supply a taxpayer number.
func (t InvoiceTemplate) RequiresNCC() bool { return t == TemplateB2B }

// RequiresForeignCurrency is true for foreign customers.
func (t InvoiceTemplate) RequiresForeignCurrency() bool { return t == TemplateB2F }

func (t InvoiceTemplate) Description() string {
	switch t {
	case TemplateB2C:
		return "Business to Consumer"
	case TemplateB2B:
		return "Business to Business"
	case TemplateB2F:
		return "Business to Foreign"
	case TemplateB2G:
		return "Business to Government"
	}
	return ""
}

// TaxType is a VAT code applied to an invoice item.
type TaxType string

const (
	TaxTVA  TaxType = "TVA"
	TaxTVAB TaxType = "TVAB"
	TaxTVAC TaxType = "TVAC"
	TaxTVAD TaxType = "TVAD"
)

// TaxTypes lists every accepted tax code.
var TaxTypes = []TaxType{TaxTVA, TaxTVAB, TaxTVAC, TaxTVAD}

// ParseTaxType is case-insensitive.
func ParseTaxType(s string) (TaxType, error) {
	switch t := TaxType(strings.ToUpper(strings.TrimSpace(s))); t {
	case TaxTVA, TaxTVAB, TaxTVAC, TaxTVAD:
		return t, nil
	}
	return "", fmt.Errorf("unknown tax type %q", s)
}

// Rate returns the VAT percentage.
func (t TaxType) Rate() float64 {
	switch t {
	case TaxTVA:
		return 18
	case TaxTVAB:
		return 9
	}
	return 0
}

// IsExempt is true for the conventional and legal exemption codes.
func (t TaxType) IsExempt() bool { return t == TaxTVAC || t == TaxTVAD }

// ForeignCurrency is a currency accepted for B2F invoices.
type ForeignCurrency string

const (
	CurrencyXOF ForeignCurrency = "XOF"
	CurrencyUSD ForeignCurrency = "USD"
	CurrencyEUR ForeignCurrency = "EUR"
	CurrencyJPY ForeignCurrency = "JPY"
	CurrencyCAD ForeignCurrency = "CAD"
	CurrencyGBP ForeignCurrency = "GBP"
	CurrencyAUD ForeignCurrency = "AUD"
	CurrencyCNH ForeignCurrency = "CNH"
	CurrencyCHF ForeignCurrency = "CHF"
	CurrencyHKD ForeignCurrency = "HKD"
	CurrencyNZD ForeignCurrency = "NZD"
)

var currencySymbols = map[ForeignCurrency]string{
	CurrencyXOF: "FCFA",
	CurrencyUSD: "$",
	CurrencyEUR: "€",
	CurrencyJPY: "¥",
	CurrencyCAD: "C$",
	CurrencyGBP: "£",
	CurrencyAUD: "A$",
	CurrencyCNH: "¥",
	CurrencyCHF: "CHF",
	CurrencyHKD: "HK$",
	CurrencyNZD: "NZ$",
}

// ParseForeignCurrency is case-insensitive.
func ParseForeignCurrency(s string) (ForeignCurrency, error) {
	c := ForeignCurrency(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := currencySymbols[c]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown currency %q", s)
}

func (c ForeignCurrency) Symbol() string { return currencySymbols[c] }
