// Package normalize turns raw per-endpoint JSON into canonical market entities.
//
// Every function is pure and total: a payload with the wrong top-level shape
// yields an empty result, and a field that cannot be read falls back to a
// display sentinel or a null value without affecting the rest of the entity.
package normalize

import (
	"encoding/json"
	"strings"

	"marketterminal/internal/market"
)

// object is the intermediate form of one JSON object; keys stay raw until read.
type object map[string]json.RawMessage

// decodeObject reads raw as a JSON object. ok is false for any other shape.
func decodeObject(raw []byte) (object, bool) {
	var obj object
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// child reads the object stored under key.
func (o object) child(key string) (object, bool) {
	raw, ok := o[key]
	if !ok {
		return nil, false
	}
	return decodeObject(raw)
}

// text reads key as a string. JSON numbers and booleans are returned as their
// literal text; a missing key or null is reported as absent.
func (o object) text(key string) (string, bool) {
	raw, ok := o[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	lit := strings.TrimSpace(string(raw))
	if lit == "" || lit == "null" || strings.HasPrefix(lit, "{") || strings.HasPrefix(lit, "[") {
		return "", false
	}
	return lit, true
}

// vendorSentinels are the vendor's own spellings of "no value".
var vendorSentinels = map[string]struct{}{
	"":     {},
	"None": {},
	"-":    {},
	"N/A":  {},
}

func isVendorSentinel(s string) bool {
	_, ok := vendorSentinels[strings.TrimSpace(s)]
	return ok
}

// display reads key for display: absent or vendor-sentinel values become market.Sentinel.
func (o object) display(key string) string {
	s, ok := o.text(key)
	if !ok || isVendorSentinel(s) {
		return market.Sentinel
	}
	return s
}
