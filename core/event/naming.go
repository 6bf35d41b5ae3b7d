package event

import "strings"

// HandlerBase is the name of the generic handler every observer implements.
const HandlerBase = "update"

// Camelize converts a snake- or kebab-cased name to camel case.
// A '_' or '-' followed by a digit, comma or lowercase letter is dropped and
// the follower upper-cased; any other delimiter is kept as is.
// When upperFirst is set, the first byte is upper-cased before conversion.
func Camelize(raw string, upperFirst bool) string {
	if raw == "" {
		return raw
	}

	b := []byte(raw)
	if upperFirst {
		b[0] = toUpper(b[0])
	}

	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		c := b[i]
		if (c == '_' || c == '-') && i+1 < len(b) && camelizable(b[i+1]) {
			out = append(out, toUpper(b[i+1]))
			i++
			continue
		}
		out = append(out, c)
	}
	return string(out)
}

// HandlerName returns the event-specific handler name for eventID, e.g.
// "order_cart_subtotal_calculate" -> "updateOrderCartSubtotalCalculate".
// An empty eventID yields an empty name.
func HandlerName(eventID string) string {
	if eventID == "" {
		return ""
	}
	return HandlerBase + Camelize(strings.ToLower(eventID), true)
}

// MethodName returns HandlerName in exported Go form, the name looked up on
// observer types: "order_cart_subtotal_calculate" -> "UpdateOrderCartSubtotalCalculate".
func MethodName(eventID string) string {
	name := HandlerName(eventID)
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func camelizable(c byte) bool {
	return c == ',' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z')
}

func toUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
