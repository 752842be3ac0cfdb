package fne

import (
	"encoding/json"
	"fmt"
)

// Response is the decoded result of a certification or refund call.
type Response struct {
	NCC            string
	Reference      string
	Token          string
	Warning        bool
	BalanceSticker int64
	// Invoice is nil for refunds.
	Invoice *Invoice
}

// Invoice is the certified invoice returned by the API. Monetary amounts are
// in minor units.
type Invoice struct {
	ID                  string
	ParentID            string
	ParentReference     string
	Token               string
	Reference           string
	Type                string
	Subtype             string
	Date                string
	PaymentMethod       string
	Status              string
	Amount              Minor
	VATAmount           Minor
	FiscalStamp         Minor
	Discount            float64
	ClientNCC           string
	ClientCompanyName   string
	ClientPhone         string
	ClientEmail         string
	ClientTerminal      string
	ClientMerchantName  string
	ClientRCCM          string
	ClientSellerName    string
	ClientEstablishment string
	ClientPointOfSale   string
	Template            string
	Description         string
	Footer              string
	CommercialMessage   string
	ForeignCurrency     string
	ForeignCurrencyRate float64
	IsRNE               bool
	RNE                 string
	Source              string
	CreatedAt           string
	UpdatedAt           string
	Items               []Item
	CustomTaxes         []CustomTax
}

// Item is a certified invoice line. Its ID is needed to refund it later.
type Item struct {
	ID              string
	Quantity        float64
	Reference       string
	Description     string
	Amount          Minor
	Discount        float64
	MeasurementUnit string
	Taxes           []Tax
	CustomTaxes     []CustomTax
	InvoiceID       string
	ParentID        string
	CreatedAt       string
	UpdatedAt       string
}

// Tax is a VAT line computed by the API for an item.
type Tax struct {
	ShortName     string
	Amount        float64
	Name          string
	InvoiceItemID string
	VATRateID     string
	CreatedAt     string
	UpdatedAt     string
}

// CustomTax is an additional named tax.
type CustomTax struct {
	ID            string
	Name          string
	Amount        float64
	InvoiceItemID string
	InvoiceID     string
	CreatedAt     string
	UpdatedAt     string
}

// DecodeResponse parses a raw API body.
func DecodeResponse(body []byte) (*Response, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &DecodeError{Body: body, Err: err}
	}
	if raw == nil {
		return nil, &DecodeError{Body: body, Err: fmt.Errorf("response body is not a JSON object")}
	}
	return ResponseFromMap(raw), nil
}

// ResponseFromMap decodes an already parsed payload. It never fails: missing
// keys take their zero value.
func ResponseFromMap(raw map[string]any) *Response {
	r := reader(raw)
	resp := &Response{
		NCC:            r.str("ncc"),
		Reference:      r.str("reference"),
		Token:          r.str("token"),
		Warning:        r.bool("warning"),
		BalanceSticker: r.int("balance_sticker", "balanceSticker"),
	}
	if inv, ok := r.object("invoice"); ok {
		resp.Invoice = invoiceFrom(inv)
	}
	return resp
}

// IsInvoice reports whether the response carries a certified invoice.
func (r *Response) IsInvoice() bool { return r.Invoice != nil }

// IsRefund reports whether the response concerns a refund. Refund responses
// carry no invoice.
func (r *Response) IsRefund() bool { return r.Invoice == nil }

func invoiceFrom(r reader) *Invoice {
	inv := &Invoice{
		ID:                  r.str("id"),
		ParentID:            r.str("parentId", "parent_id"),
		ParentReference:     r.str("parentReference", "parent_reference"),
		Token:               r.str("token"),
		Reference:           r.str("reference"),
		Type:                r.str("type"),
		Subtype:             r.str("subtype"),
		Date:                r.str("date"),
		PaymentMethod:       r.str("paymentMethod", "payment_method"),
		Status:              r.str("status"),
		Amount:              Minor(r.int("amount")),
		VATAmount:           Minor(r.int("vatAmount", "vat_amount")),
		FiscalStamp:         Minor(r.int("fiscalStamp", "fiscal_stamp")),
		Discount:            r.float("discount"),
		ClientNCC:           r.str("clientNcc", "client_ncc"),
		ClientCompanyName:   r.str("clientCompanyName", "client_company_name"),
		ClientPhone:         r.str("clientPhone", "client_phone"),
		ClientEmail:         r.str("clientEmail", "client_email"),
		ClientTerminal:      r.str("clientTerminal", "client_terminal"),
		ClientMerchantName:  r.str("clientMerchantName", "client_merchant_name"),
		ClientRCCM:          r.str("clientRccm", "client_rccm"),
		ClientSellerName:    r.str("clientSellerName", "client_seller_name"),
		ClientEstablishment: r.str("clientEstablishment", "client_establishment"),
		ClientPointOfSale:   r.str("clientPointOfSale", "client_point_of_sale"),
		Template:            r.str("template"),
		Description:         r.str("description"),
		Footer:              r.str("footer"),
		CommercialMessage:   r.str("commercialMessage", "commercial_message"),
		ForeignCurrency:     r.str("foreignCurrency", "foreign_currency"),
		ForeignCurrencyRate: r.float("foreignCurrencyRate", "foreign_currency_rate"),
		IsRNE:               r.bool("isRne", "is_rne"),
		RNE:                 r.str("rne"),
		Source:              r.str("source"),
		CreatedAt:           r.str("createdAt", "created_at"),
		UpdatedAt:           r.str("updatedAt", "updated_at"),
	}
	for _, v := range r.list("items") {
		if m, ok := v.(map[string]any); ok {
			inv.Items = append(inv.Items, itemFrom(reader(m)))
		}
	}
	inv.CustomTaxes = customTaxesFrom(r.list("customTaxes", "custom_taxes"))
	return inv
}

func itemFrom(r reader) Item {
	it := Item{
		ID:              r.str("id"),
		Quantity:        r.float("quantity"),
		Reference:       r.str("reference"),
		Description:     r.str("description"),
		Amount:          Minor(r.int("amount")),
		Discount:        r.float("discount"),
		MeasurementUnit: r.str("measurementUnit", "measurement_unit"),
		InvoiceID:       r.str("invoiceId", "invoice_id"),
		ParentID:        r.str("parentId", "parent_id"),
		CreatedAt:       r.str("createdAt", "created_at"),
		UpdatedAt:       r.str("updatedAt", "updated_at"),
	}
	for _, v := range r.list("taxes") {
		switch t := v.(type) {
		case map[string]any:
			tr := reader(t)
			it.Taxes = append(it.Taxes, Tax{
				ShortName:     tr.str("shortName", "short_name"),
				Amount:        tr.float("amount"),
				Name:          tr.str("name"),
				InvoiceItemID: tr.str("invoiceItemId", "invoice_item_id"),
				VATRateID:     tr.str("vatRateId", "vat_rate_id"),
				CreatedAt:     tr.str("createdAt", "created_at"),
				UpdatedAt:     tr.str("updatedAt", "updated_at"),
			})
		case string:
			// some responses echo bare tax codes
			it.Taxes = append(it.Taxes, Tax{ShortName: t})
		}
	}
	it.CustomTaxes = customTaxesFrom(r.list("customTaxes", "custom_taxes"))
	return it
}

func customTaxesFrom(list []any) []CustomTax {
	var out []CustomTax
	for _, v := range list {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		cr := reader(m)
		out = append(out, CustomTax{
			ID:            cr.str("id"),
			Name:          cr.str("name"),
			Amount:        cr.float("amount"),
			InvoiceItemID: cr.str("invoiceItemId", "invoice_item_id"),
			InvoiceID:     cr.str("invoiceId", "invoice_id"),
			CreatedAt:     cr.str("createdAt", "created_at"),
			UpdatedAt:     cr.str("updatedAt", "updated_at"),
		})
	}
	return out
}

// ToMap re-serializes the response with camelCase keys. Optional string
// fields are omitted when empty.
func (r *Response) ToMap() map[string]any {
	out := map[string]any{
		"ncc":            r.NCC,
		"reference":      r.Reference,
		"token":          r.Token,
		"warning":        r.Warning,
		"balanceSticker": r.BalanceSticker,
	}
	if r.Invoice != nil {
		out["invoice"] = r.Invoice.ToMap()
	}
	return out
}

// MarshalJSON encodes the ToMap form.
func (r *Response) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ToMap())
}

// UnmarshalJSON accepts both the API payload and the ToMap form.
func (r *Response) UnmarshalJSON(b []byte) error {
	decoded, err := DecodeResponse(b)
	if err != nil {
		return err
	}
	*r = *decoded
	return nil
}

func (inv *Invoice) ToMap() map[string]any {
	out := map[string]any{
		"id":                  inv.ID,
		"token":               inv.Token,
		"reference":           inv.Reference,
		"type":                inv.Type,
		"subtype":             inv.Subtype,
		"date":                inv.Date,
		"paymentMethod":       inv.PaymentMethod,
		"status":              inv.Status,
		"amount":              int64(inv.Amount),
		"vatAmount":           int64(inv.VATAmount),
		"fiscalStamp":         int64(inv.FiscalStamp),
		"discount":            inv.Discount,
		"clientCompanyName":   inv.ClientCompanyName,
		"clientPhone":         inv.ClientPhone,
		"clientEmail":         inv.ClientEmail,
		"clientEstablishment": inv.ClientEstablishment,
		"clientPointOfSale":   inv.ClientPointOfSale,
		"template":            inv.Template,
		"foreignCurrencyRate": inv.ForeignCurrencyRate,
		"isRne":               inv.IsRNE,
		"source":              inv.Source,
		"createdAt":           inv.CreatedAt,
		"updatedAt":           inv.UpdatedAt,
	}
	putOptional(out, "parentId", inv.ParentID)
	putOptional(out, "parentReference", inv.ParentReference)
	putOptional(out, "clientNcc", inv.ClientNCC)
	putOptional(out, "clientTerminal", inv.ClientTerminal)
	putOptional(out, "clientMerchantName", inv.ClientMerchantName)
	putOptional(out, "clientRccm", inv.ClientRCCM)
	putOptional(out, "clientSellerName", inv.ClientSellerName)
	putOptional(out, "description", inv.Description)
	putOptional(out, "footer", inv.Footer)
	putOptional(out, "commercialMessage", inv.CommercialMessage)
	putOptional(out, "foreignCurrency", inv.ForeignCurrency)
	putOptional(out, "rne", inv.RNE)

	items := make([]any, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, it.ToMap())
	}
	out["items"] = items
	out["customTaxes"] = customTaxesToList(inv.CustomTaxes)
	return out
}

func (it Item) ToMap() map[string]any {
	out := map[string]any{
		"id":          it.ID,
		"quantity":    it.Quantity,
		"description": it.Description,
		"amount":      int64(it.Amount),
		"discount":    it.Discount,
		"invoiceId":   it.InvoiceID,
		"createdAt":   it.CreatedAt,
		"updatedAt":   it.UpdatedAt,
	}
	putOptional(out, "reference", it.Reference)
	putOptional(out, "measurementUnit", it.MeasurementUnit)
	putOptional(out, "parentId", it.ParentID)

	taxes := make([]any, 0, len(it.Taxes))
	for _, t := range it.Taxes {
		taxes = append(taxes, map[string]any{
			"shortName":     t.ShortName,
			"amount":        t.Amount,
			"name":          t.Name,
			"invoiceItemId": t.InvoiceItemID,
			"vatRateId":     t.VATRateID,
			"createdAt":     t.CreatedAt,
			"updatedAt":     t.UpdatedAt,
		})
	}
	out["taxes"] = taxes
	out["customTaxes"] = customTaxesToList(it.CustomTaxes)
	return out
}

func customTaxesToList(cts []CustomTax) []any {
	out := make([]any, 0, len(cts))
	for _, ct := range cts {
		m := map[string]any{
			"id":        ct.ID,
			"name":      ct.Name,
			"amount":    ct.Amount,
			"createdAt": ct.CreatedAt,
			"updatedAt": ct.UpdatedAt,
		}
		putOptional(m, "invoiceItemId", ct.InvoiceItemID)
		putOptional(m, "invoiceId", ct.InvoiceID)
		out = append(out, m)
	}
	return out
}

func putOptional(m map[string]any, key, value string) {
	if value != "" {
		m[key] = value
	}
}
