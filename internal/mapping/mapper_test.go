package mapping

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/fne-certify/internal/fne"
)

func saleDoc() map[string]any {
	return map[string]any{
		"invoice_type":        "sale",
		"payment_method":      "carte",
		"template":            "b2b",
		"is_rne":              "0",
		"client_ncc":          "9502363N",
		"client_company_name": "Acme SARL",
		"client_phone":        float64(2250709080765),
		"client_email":        "billing@acme.ci",
		"point_of_sale":       "01",
		"establishment":       "Siege",
		"discount":            "120",
		"items": []any{
			map[string]any{
				"description":      "Widget",
				"quantity":         "3",
				"amount":           "1500.50",
				"taxes":            []any{"tva", "tvab"},
				"measurement_unit": "pcs",
				"discount":         "-5",
				"custom_taxes":     []any{map[string]any{"name": "GRA", "amount": "5"}},
			},
		},
	}
}

func TestInvoiceMapper_ShapesSaleDocument(t *testing.T) {
	out, err := NewInvoiceMapper(nil).Map(saleDoc())
	require.NoError(t, err)

	assert.Equal(t, "sale", out["invoiceType"])
	assert.Equal(t, "card", out["paymentMethod"])
	assert.Equal(t, "B2B", out["template"])
	assert.Equal(t, false, out["isRne"])
	assert.Equal(t, "9502363N", out["clientNcc"])
	assert.Equal(t, "Acme SARL", out["clientCompanyName"])
	assert.Equal(t, "2250709080765", out["clientPhone"])
	assert.Equal(t, "01", out["pointOfSale"])
	assert.Equal(t, 100.0, out["discount"])
	assert.Equal(t, "", out["foreignCurrency"])
	assert.Equal(t, 0.0, out["foreignCurrencyRate"])
	assert.NotContains(t, out, "rne")

	items := out["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, "Widget", item["description"])
	assert.Equal(t, 3.0, item["quantity"])
	assert.Equal(t, 1500.5, item["amount"])
	assert.Equal(t, []any{"TVA", "TVAB"}, item["taxes"])
	assert.Equal(t, "pcs", item["measurementUnit"])
	assert.Equal(t, 0.0, item["discount"])
	assert.Equal(t, []any{map[string]any{"name": "GRA", "amount": 5.0}}, item["customTaxes"])
}

func TestInvoiceMapper_IsDeterministic(t *testing.T) {
	m := NewInvoiceMapper(Config{"clientCompanyName": "client.name"})
	src := saleDoc()
	src["client"] = map[string]any{"name": "Mapped"}

	a, err := m.Map(src)
	require.NoError(t, err)
	b, err := m.Map(src)
	require.NoError(t, err)

	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	assert.Equal(t, string(ja), string(jb))
	// the source document is not modified
	assert.Contains(t, src, "client_company_name")
}

func TestInvoiceMapper_CustomMappingTakesPrecedence(t *testing.T) {
	m := NewInvoiceMapper(Config{
		"clientCompanyName": "client.name",
		"clientEmail":       "client.contact_email",
		"clientPhone":       "client.missing",
	})
	src := map[string]any{
		"client":            map[string]any{"name": "Acme", "contact_email": "a@acme.ci"},
		"clientCompanyName": "ignored",
		"clientPhone":       "0709",
		"unrelated":         map[string]any{"deep": []any{1, 2}},
	}

	out, err := m.Map(src)
	require.NoError(t, err)
	assert.Equal(t, "Acme", out["clientCompanyName"])
	assert.Equal(t, "a@acme.ci", out["clientEmail"])
	// unresolved paths do not inject empty values over existing ones
	assert.Equal(t, "0709", out["clientPhone"])
}

func TestInvoiceMapper_CustomMappingIntoItems(t *testing.T) {
	m := NewInvoiceMapper(Config{"items.0.description": "lines.0.label"})
	src := map[string]any{
		"lines": []any{map[string]any{"label": "From ERP"}},
		"items": []any{map[string]any{"description": "old", "quantity": 2, "taxes": []any{"TVA"}}},
	}

	out, err := m.Map(src)
	require.NoError(t, err)
	item := out["items"].([]any)[0].(map[string]any)
	assert.Equal(t, "From ERP", item["description"])
	assert.Equal(t, 2.0, item["quantity"])
	assert.Equal(t, []any{"TVA"}, item["taxes"])
}

func TestInvoiceMapper_ConditionalFields(t *testing.T) {
	src := saleDoc()
	src["template"] = "B2C"
	src["is_rne"] = "yes"
	src["rne"] = "RNE-42"
	src["foreign_currency"] = "EUR"
	delete(src, "discount")

	out, err := NewInvoiceMapper(nil).Map(src)
	require.NoError(t, err)
	assert.NotContains(t, out, "clientNcc")
	assert.Equal(t, true, out["isRne"])
	assert.Equal(t, "RNE-42", out["rne"])
	assert.Equal(t, "EUR", out["foreignCurrency"])
	assert.NotContains(t, out, "foreignCurrencyRate")
	assert.NotContains(t, out, "discount")

	src["foreign_currency_rate"] = "655.957"
	out, err = NewInvoiceMapper(nil).Map(src)
	require.NoError(t, err)
	assert.Equal(t, 655.957, out["foreignCurrencyRate"])
}

func TestInvoiceMapper_DefaultsAndBlankValues(t *testing.T) {
	out, err := NewInvoiceMapper(nil).Map(map[string]any{
		"items": []any{map[string]any{"description": "X"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "sale", out["invoiceType"])
	assert.Equal(t, "", out["paymentMethod"])
	assert.Equal(t, "", out["template"])
	assert.Equal(t, false, out["isRne"])
	assert.Equal(t, "", out["clientEmail"])
	item := out["items"].([]any)[0].(map[string]any)
	assert.Equal(t, 1.0, item["quantity"])
	assert.Equal(t, 0.0, item["amount"])
	assert.NotContains(t, item, "taxes")
}

func TestInvoiceMapper_RejectsUnknownEnums(t *testing.T) {
	src := saleDoc()
	src["payment_method"] = "barter"

	_, err := NewInvoiceMapper(nil).Map(src)
	var me *fne.MappingError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, fne.MappingInvalidEnum, me.Kind)
	assert.Equal(t, "paymentMethod", me.Field)

	src = saleDoc()
	src["template"] = []any{"B2B"}
	_, err = NewInvoiceMapper(nil).Map(src)
	require.True(t, errors.As(err, &me))
	assert.Equal(t, fne.MappingInvalidType, me.Kind)
	assert.Equal(t, "template", me.Field)
}

func TestInvoiceMapper_AcceptsTypedEnums(t *testing.T) {
	src := saleDoc()
	src["payment_method"] = fne.PaymentMobileMoney
	src["template"] = fne.TemplateB2G

	out, err := NewInvoiceMapper(nil).Map(src)
	require.NoError(t, err)
	assert.Equal(t, "mobile-money", out["paymentMethod"])
	assert.Equal(t, "B2G", out["template"])
}

func TestInvoiceMapper_ItemsMustBeAList(t *testing.T) {
	_, err := NewInvoiceMapper(nil).Map(map[string]any{"items": "nope"})
	require.Error(t, err)

	_, err = NewInvoiceMapper(nil).Map(map[string]any{"items": []any{"nope"}})
	require.Error(t, err)
}

func TestPurchaseMapper_StripsTaxes(t *testing.T) {
	src := saleDoc()
	src["customTaxes"] = []any{map[string]any{"name": "AIRSI", "amount": 2}}

	out, err := NewPurchaseMapper(nil).Map(src)
	require.NoError(t, err)

	assert.Equal(t, "purchase", out["invoiceType"])
	assert.NotContains(t, out, "customTaxes")
	for _, it := range out["items"].([]any) {
		item := it.(map[string]any)
		assert.NotContains(t, item, "taxes")
		assert.NotContains(t, item, "customTaxes")
	}
}

func TestPurchaseMapper_Scenario(t *testing.T) {
	src := map[string]any{
		"invoiceType":   "sale",
		"paymentMethod": "espece",
		"template":      "b2c",
		"isRne":         false,
		"items": []any{
			map[string]any{"description": "X", "quantity": "2", "amount": "50.5", "taxes": []any{"TVA"}},
		},
	}

	out, err := NewPurchaseMapper(nil).Map(src)
	require.NoError(t, err)

	assert.Equal(t, "cash", out["paymentMethod"])
	assert.Equal(t, "B2C", out["template"])
	item := out["items"].([]any)[0].(map[string]any)
	assert.Equal(t, 2.0, item["quantity"])
	assert.Equal(t, 50.5, item["amount"])
	assert.NotContains(t, item, "taxes")
}

func TestRefundMapper_UUIDGate(t *testing.T) {
	m := NewRefundMapper(nil)

	_, err := m.Map(map[string]any{"items": []any{map[string]any{"id": "not-a-uuid", "quantity": 1}}})
	var me *fne.MappingError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, fne.MappingInvalidUUID, me.Kind)
	assert.Equal(t, "items.0.id", me.Field)

	const id = "550e8400-e29b-41d4-a716-446655440000"
	out, err := m.Map(map[string]any{
		"reason": "damaged",
		"items":  []any{map[string]any{"id": "  " + id + " ", "quantity": "1.5", "description": "dropped"}},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"items": []any{map[string]any{"id": id, "quantity": 1.5}},
	}, out)
}

func TestRefundMapper_UppercaseUUID(t *testing.T) {
	out, err := NewRefundMapper(nil).Map(map[string]any{
		"items": []any{map[string]any{"id": "550E8400-E29B-41D4-A716-446655440000"}},
	})
	require.NoError(t, err)
	item := out["items"].([]any)[0].(map[string]any)
	assert.Equal(t, 1.0, item["quantity"])
}

func TestNormalizeString(t *testing.T) {
	cases := []struct {
		in   string
		want any
	}{
		{"true", true},
		{"ON", true},
		{"1", true},
		{"no", false},
		{"0", false},
		{"", false},
		{"42", int64(42)},
		{"-3", int64(-3)},
		{"2.50", 2.5},
		{"1e3", 1000.0},
		{"0.75", 0.75},
		{"0709080765", "0709080765"},
		{"12abc", "12abc"},
		{"B2B", "B2B"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, normalizeString(tc.in), tc.in)
	}
}
