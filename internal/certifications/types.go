// Package certifications keeps a local audit row per certified invoice,
// mainly so the FNE invoice and item UUIDs are at hand for later refunds.
package certifications

import (
	"context"
	"time"

	"github.com/imrishuroy/fne-certify/internal/fne"
)

// Values written to the type, subtype, status and source columns.
const (
	TypeInvoice     = "invoice"
	SubtypeNormal   = "normal"
	StatusPending   = "pending"
	SourceAPI       = "api"
	DefaultTemplate = "B2C"
)

// Certification is one row of fne_certifications. Amounts are minor units.
type Certification struct {
	FNEInvoiceID      string    `json:"fne_invoice_id" db:"fne_invoice_id" dynamodbav:"fne_invoice_id,omitempty"`
	Reference         string    `json:"reference" db:"reference" dynamodbav:"reference"` // PK
	NCC               string    `json:"ncc" db:"ncc" dynamodbav:"ncc"`
	Token             string    `json:"token" db:"token" dynamodbav:"token"`
	Type              string    `json:"type" db:"type" dynamodbav:"type"`
	Subtype           string    `json:"subtype" db:"subtype" dynamodbav:"subtype"`
	Status            string    `json:"status" db:"status" dynamodbav:"status"`
	Template          string    `json:"template" db:"template" dynamodbav:"template"`
	ClientCompanyName string    `json:"client_company_name" db:"client_company_name" dynamodbav:"client_company_name,omitempty"`
	ClientNCC         string    `json:"client_ncc" db:"client_ncc" dynamodbav:"client_ncc,omitempty"`
	ClientPhone       string    `json:"client_phone" db:"client_phone" dynamodbav:"client_phone,omitempty"`
	ClientEmail       string    `json:"client_email" db:"client_email" dynamodbav:"client_email,omitempty"`
	Amount            int64     `json:"amount" db:"amount" dynamodbav:"amount"`
	VATAmount         int64     `json:"vat_amount" db:"vat_amount" dynamodbav:"vat_amount"`
	FiscalStamp       int64     `json:"fiscal_stamp" db:"fiscal_stamp" dynamodbav:"fiscal_stamp"`
	Discount          float64   `json:"discount" db:"discount" dynamodbav:"discount"`
	IsRNE             bool      `json:"is_rne" db:"is_rne" dynamodbav:"is_rne"`
	RNE               string    `json:"rne" db:"rne" dynamodbav:"rne,omitempty"`
	Source            string    `json:"source" db:"source" dynamodbav:"source"`
	Warning           bool      `json:"warning" db:"warning" dynamodbav:"warning"`
	BalanceSticker    int64     `json:"balance_sticker" db:"balance_sticker" dynamodbav:"balance_sticker"`
	FNEDate           time.Time `json:"fne_date" db:"fne_date" dynamodbav:"fne_date"`
	CreatedAt         time.Time `json:"created_at" db:"created_at" dynamodbav:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at" dynamodbav:"updated_at"`
}

// Recorder persists certifications. Save is an upsert on Reference.
type Recorder interface {
	Save(ctx context.Context, resp *fne.Response, data map[string]any) error
}

// Finder looks a certification up by its FNE reference. It returns
// (nil, nil) when there is none.
type Finder interface {
	FindByReference(ctx context.Context, reference string) (*Certification, error)
}

// NewCertification builds the audit row for resp. data is the canonical
// document that was certified; client fields and the template come from it.
func NewCertification(resp *fne.Response, data map[string]any, now time.Time) Certification {
	c := Certification{
		Reference:         resp.Reference,
		NCC:               resp.NCC,
		Token:             resp.Token,
		Type:              TypeInvoice,
		Subtype:           SubtypeNormal,
		Status:            StatusPending,
		Template:          stringOr(data["template"], DefaultTemplate),
		ClientCompanyName: stringOr(data["clientCompanyName"], ""),
		ClientNCC:         stringOr(data["clientNcc"], ""),
		ClientPhone:       stringOr(data["clientPhone"], ""),
		ClientEmail:       stringOr(data["clientEmail"], ""),
		Discount:          floatOf(data["discount"]),
		RNE:               stringOr(data["rne"], ""),
		Source:            SourceAPI,
		Warning:           resp.Warning,
		BalanceSticker:    resp.BalanceSticker,
		FNEDate:           now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	c.IsRNE, _ = data["isRne"].(bool)

	if inv := resp.Invoice; inv != nil {
		c.FNEInvoiceID = inv.ID
		if inv.Status != "" {
			c.Status = inv.Status
		}
		c.Amount = int64(inv.Amount)
		c.VATAmount = int64(inv.VATAmount)
		c.FiscalStamp = int64(inv.FiscalStamp)
		if d, ok := parseDate(inv.Date); ok {
			c.FNEDate = d
		}
	}
	return c
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func stringOr(v any, def string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return def
}

func floatOf(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}
