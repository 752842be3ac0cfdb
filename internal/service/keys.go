package service

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
)

// Cache key prefixes.
const (
	invoiceKeyPrefix  = "fne:invoice:"
	purchaseKeyPrefix = "fne:purchase:"
)

// keyData is the part of a canonical document that identifies it for the
// response cache.
type keyData struct {
	InvoiceType any `json:"invoiceType"`
	Template    any `json:"template"`
	Items       any `json:"items"`
}

func digest(prefix string, k keyData) string {
	if k.InvoiceType == nil {
		k.InvoiceType = ""
	}
	if k.Template == nil {
		k.Template = ""
	}
	if k.Items == nil {
		k.Items = []any{}
	}
	b, err := json.Marshal(k)
	if err != nil {
		return ""
	}
	sum := md5.Sum(b)
	return prefix + hex.EncodeToString(sum[:])
}

func invoiceCacheKey(doc map[string]any) string {
	return digest(invoiceKeyPrefix, keyData{InvoiceType: doc["invoiceType"], Template: doc["template"], Items: doc["items"]})
}

func purchaseCacheKey(doc map[string]any) string {
	return digest(purchaseKeyPrefix, keyData{InvoiceType: "purchase", Template: doc["template"], Items: doc["items"]})
}
