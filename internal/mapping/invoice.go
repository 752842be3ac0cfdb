package mapping

import (
	"strconv"
	"strings"

	"github.com/imrishuroy/fne-certify/internal/fne"
)

func shapeInvoice(doc map[string]any) (map[string]any, error) {
	return shapeDocument(doc, false)
}

// shapePurchase emits the same document as shapeInvoice, with the invoice
// type forced to purchase and every tax field dropped.
func shapePurchase(doc map[string]any) (map[string]any, error) {
	return shapeDocument(doc, true)
}

func shapeDocument(doc map[string]any, purchase bool) (map[string]any, error) {
	invoiceType := any(string(fne.InvoiceTypeSale))
	if purchase {
		invoiceType = string(fne.InvoiceTypePurchase)
	} else if !isBlank(doc["invoiceType"]) {
		invoiceType = text(doc["invoiceType"])
	}

	paymentMethod, err := mapPaymentMethod(doc["paymentMethod"])
	if err != nil {
		return nil, err
	}
	template, err := mapTemplate(doc["template"])
	if err != nil {
		return nil, err
	}

	isRne := doc["isRne"]
	if isRne == nil {
		isRne = false
	}

	out := map[string]any{
		"invoiceType":       invoiceType,
		"paymentMethod":     paymentMethod,
		"template":          template,
		"isRne":             isRne,
		"clientCompanyName": text(doc["clientCompanyName"]),
		"clientPhone":       phone(doc["clientPhone"]),
		"clientEmail":       text(doc["clientEmail"]),
		"pointOfSale":       text(doc["pointOfSale"]),
		"establishment":     text(doc["establishment"]),
	}

	if template == string(fne.TemplateB2B) && doc["clientNcc"] != nil {
		out["clientNcc"] = text(doc["clientNcc"])
	}
	if isRne == true && doc["rne"] != nil {
		out["rne"] = text(doc["rne"])
	}
	for _, key := range []string{"clientSellerName", "commercialMessage", "footer"} {
		if v := doc[key]; v != nil {
			out[key] = text(v)
		}
	}

	if currency := text(doc["foreignCurrency"]); !isBlank(currency) {
		out["foreignCurrency"] = currency
		// left absent when not supplied so the rate is reported as required
		if rate := doc["foreignCurrencyRate"]; rate != nil {
			out["foreignCurrencyRate"] = number(rate, 0)
		}
	} else {
		out["foreignCurrency"] = ""
		out["foreignCurrencyRate"] = 0.0
	}

	srcItems, err := records("items", doc["items"])
	if err != nil {
		return nil, err
	}
	items := make([]any, 0, len(srcItems))
	for i, it := range srcItems {
		mapped, err := shapeItem(i, it, purchase)
		if err != nil {
			return nil, err
		}
		items = append(items, mapped)
	}
	out["items"] = items

	if v := doc["discount"]; v != nil {
		out["discount"] = discount(v)
	}
	if !purchase {
		if cts, ok := doc["customTaxes"].([]any); ok {
			mapped, err := customTaxes("customTaxes", cts)
			if err != nil {
				return nil, err
			}
			out["customTaxes"] = mapped
		}
	}
	return out, nil
}

func shapeItem(i int, it map[string]any, purchase bool) (map[string]any, error) {
	out := map[string]any{
		"description": text(it["description"]),
		"quantity":    number(it["quantity"], 1),
		"amount":      number(it["amount"], 0),
	}
	if !purchase {
		if taxes, ok := it["taxes"].([]any); ok {
			codes := make([]any, 0, len(taxes))
			for _, t := range taxes {
				s, ok := text(t).(string)
				if !ok {
					codes = append(codes, t)
					continue
				}
				codes = append(codes, strings.ToUpper(strings.TrimSpace(s)))
			}
			out["taxes"] = codes
		}
		if cts, ok := it["customTaxes"].([]any); ok {
			mapped, err := customTaxes(itemPath(i, "customTaxes"), cts)
			if err != nil {
				return nil, err
			}
			out["customTaxes"] = mapped
		}
	}
	if v := it["reference"]; v != nil {
		out["reference"] = text(v)
	}
	if v := it["discount"]; v != nil {
		out["discount"] = discount(v)
	}
	if v := it["measurementUnit"]; v != nil {
		out["measurementUnit"] = text(v)
	}
	return out, nil
}

func customTaxes(field string, list []any) ([]any, error) {
	recs, err := records(field, list)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(recs))
	for _, ct := range recs {
		out = append(out, map[string]any{
			"name":   text(ct["name"]),
			"amount": number(ct["amount"], 0),
		})
	}
	return out, nil
}

// phone keeps phone numbers as strings even when the ERP stores them as
// numbers.
func phone(v any) any {
	switch v.(type) {
	case map[string]any, []any:
		return ""
	}
	return text(v)
}

func itemPath(i int, field string) string {
	return "items." + strconv.Itoa(i) + "." + field
}
