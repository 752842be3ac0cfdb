package dotpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_NestedMapsAndLists(t *testing.T) {
	doc := map[string]any{
		"client": map[string]any{"name": "Acme", "email": nil},
		"items":  []any{map[string]any{"description": "X"}},
	}

	v, ok := Get(doc, "client.name")
	require.True(t, ok)
	assert.Equal(t, "Acme", v)

	v, ok = Get(doc, "items.0.description")
	require.True(t, ok)
	assert.Equal(t, "X", v)

	// present but nil is not the same as missing
	v, ok = Get(doc, "client.email")
	assert.True(t, ok)
	assert.Nil(t, v)

	_, ok = Get(doc, "client.phone")
	assert.False(t, ok)
	_, ok = Get(doc, "client.name.first")
	assert.False(t, ok)
	_, ok = Get(doc, "items.3.description")
	assert.False(t, ok)
	_, ok = Get(doc, "items.x")
	assert.False(t, ok)
}

func TestExists(t *testing.T) {
	doc := map[string]any{"a": map[string]any{"b": 1}}
	assert.True(t, Exists(doc, "a.b"))
	assert.False(t, Exists(doc, "a.c"))
	assert.False(t, Exists(doc, ""))
}

func TestSet_CreatesIntermediates(t *testing.T) {
	doc := map[string]any{}
	Set(doc, "client.address.city", "Abidjan")
	Set(doc, "items.1.description", "second")

	v, ok := Get(doc, "client.address.city")
	require.True(t, ok)
	assert.Equal(t, "Abidjan", v)

	items, ok := doc["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Nil(t, items[0])
	assert.Equal(t, map[string]any{"description": "second"}, items[1])
}

func TestSet_OverwritesScalarOnTheWay(t *testing.T) {
	doc := map[string]any{"client": "flat"}
	Set(doc, "client.name", "Acme")
	assert.Equal(t, map[string]any{"name": "Acme"}, doc["client"])
}

func TestMerge_KeepsUnmappedKeys(t *testing.T) {
	dst := map[string]any{
		"clientEmail": "a@b.ci",
		"items": []any{
			map[string]any{"description": "old", "quantity": 2},
		},
	}
	src := map[string]any{
		"clientCompanyName": "Acme",
		"items":             []any{map[string]any{"description": "new"}},
	}

	out := Merge(dst, src)
	assert.Equal(t, "a@b.ci", out["clientEmail"])
	assert.Equal(t, "Acme", out["clientCompanyName"])
	assert.Equal(t, []any{map[string]any{"description": "new", "quantity": 2}}, out["items"])
}

func TestCamelKeys(t *testing.T) {
	in := map[string]any{
		"client_company_name": "Acme",
		"point_of_sale":       "01",
		"isRne":               false,
		"items": []any{
			map[string]any{"measurement_unit": "kg", "custom_taxes": []any{map[string]any{"tax_name": "DTD"}}},
		},
	}

	out := CamelKeys(in).(map[string]any)
	assert.Equal(t, "Acme", out["clientCompanyName"])
	assert.Equal(t, "01", out["pointOfSale"])
	assert.Equal(t, false, out["isRne"])
	assert.NotContains(t, out, "client_company_name")

	item := out["items"].([]any)[0].(map[string]any)
	assert.Equal(t, "kg", item["measurementUnit"])
	assert.Equal(t, "DTD", item["customTaxes"].([]any)[0].(map[string]any)["taxName"])

	// the input is left untouched
	assert.Contains(t, in, "client_company_name")
}

func TestCamel(t *testing.T) {
	cases := map[string]string{
		"clientNcc":             "clientNcc",
		"client_ncc":            "clientNcc",
		"foreign_currency_rate": "foreignCurrencyRate",
		"_leading":              "leading",
		"a__b":                  "aB",
		"_":                     "_",
	}
	for in, want := range cases {
		assert.Equal(t, want, Camel(in), in)
	}
}
