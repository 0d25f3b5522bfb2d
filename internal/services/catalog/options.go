package catalog

import (
	"fmt"
	"strings"
)

// KeyPredicate decides whether an option key names an attribute.
type KeyPredicate func(key, attribute string) bool

// KeyEquals matches keys equal to the attribute, ignoring case.
func KeyEquals(key, attribute string) bool {
	return strings.EqualFold(strings.TrimSpace(key), attribute)
}

// KeyContains matches keys containing the attribute, ignoring case,
// e.g. "shoe_size" for "size".
func KeyContains(key, attribute string) bool {
	return strings.Contains(strings.ToLower(key), strings.ToLower(attribute))
}

// OptionMatchers is the order predicates are tried in for every option.
var OptionMatchers = []KeyPredicate{KeyEquals, KeyContains}

const (
	AttributeSize  = "size"
	AttributeColor = "color"
)

// ExtractOption scans options in order and returns the value of the first
// option any predicate accepts for attribute. A nil result means no option
// named the attribute, which callers treat as "leave the stored value alone".
func ExtractOption(options []Option, attribute string, matchers ...KeyPredicate) *string {
	if len(matchers) == 0 {
		matchers = OptionMatchers
	}
	for _, opt := range options {
		for _, match := range matchers {
			if !match(opt.ID, attribute) {
				continue
			}
			value := OptionValue(opt.Value)
			if value == "" {
				break
			}
			return &value
		}
	}
	return nil
}

// OptionValue flattens a raw option value to a string. Lists are joined
// with ", ".
func OptionValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := OptionValue(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case float64:
		return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%f", val), "0"), ".")
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", val)
	}
}
