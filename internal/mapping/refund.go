package mapping

import (
	"strings"

	"github.com/imrishuroy/fne-certify/internal/fne"
)

// shapeRefund keeps only the refunded items. Item ids are checked here
// because a malformed id cannot be mapped at all.
func shapeRefund(doc map[string]any) (map[string]any, error) {
	srcItems, err := records("items", doc["items"])
	if err != nil {
		return nil, err
	}
	items := make([]any, 0, len(srcItems))
	for i, it := range srcItems {
		id := refundItemID(it["id"])
		if !fne.IsUUID(id) {
			return nil, fne.NewInvalidUUIDError(itemPath(i, "id"), id)
		}
		items = append(items, map[string]any{
			"id":       id,
			"quantity": number(it["quantity"], 1),
		})
	}
	return map[string]any{"items": items}, nil
}

func refundItemID(v any) string {
	s, _ := text(v).(string)
	return strings.TrimSpace(s)
}
