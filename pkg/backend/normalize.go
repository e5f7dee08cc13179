package backend

import "encoding/json"

// Collection endpoints are inconsistent: some return a bare JSON array,
// others wrap one under a conventional key. NormalizeList coerces both
// into one canonical list and treats every unrecognized shape as empty,
// never as an error.
//
// Recognized wrapper keys, probed in order.
var wrapperKeys = []string{"sites", "data", "keywords", "pages"}

// NormalizeList returns the list elements of a collection response.
func NormalizeList(raw []byte) []json.RawMessage {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		if list == nil {
			return []json.RawMessage{}
		}
		return list
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		for _, key := range wrapperKeys {
			inner, ok := wrapped[key]
			if !ok {
				continue
			}
			if err := json.Unmarshal(inner, &list); err == nil && list != nil {
				return list
			}
		}
	}

	return []json.RawMessage{}
}

// DecodeList normalizes a collection response and decodes each element
// into T. Elements that fail to decode are skipped rather than failing
// the whole list.
func DecodeList[T any](raw []byte) []T {
	elements := NormalizeList(raw)
	out := make([]T, 0, len(elements))
	for _, el := range elements {
		var v T
		if err := json.Unmarshal(el, &v); err == nil {
			out = append(out, v)
		}
	}
	return out
}
