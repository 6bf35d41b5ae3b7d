package tracelog

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"notifier-go/core/event"
)

// maxDepth bounds how far nested values are rendered; deeper values are
// replaced with a recursion marker.
const maxDepth = 16

// Field is one traced parameter position.
type Field struct {
	// Name is "param1" through "param9".
	Name  string
	Value any
}

// Fields builds the traced parameter mapping for p. Slot 1 is dropped when it
// is nil or an empty collection; slots 2..9 are dropped when absent. Typed nil
// pointers count as nil.
func Fields(p *event.Params) []Field {
	if p == nil {
		return nil
	}

	var fields []Field
	if !isEmptyCollection(p.Value) {
		fields = append(fields, Field{Name: "param1", Value: p.Value})
	}
	for n := event.FirstRef; n <= event.LastSlot; n++ {
		if v := p.Ref(n); !isNull(v) {
			fields = append(fields, Field{Name: "param" + strconv.Itoa(n), Value: v})
		}
	}
	return fields
}

// Render renders fields in the format selected by mode.
// ModeOff and ModeBare render nothing.
func Render(mode Mode, fields []Field) (string, error) {
	if len(fields) == 0 {
		return "", nil
	}

	switch mode {
	case ModeVarExport:
		var b strings.Builder
		writeVarExportEntries(&b, fieldEntries(fields), 0)
		return b.String(), nil
	case ModePrintR:
		var b strings.Builder
		writePrintREntries(&b, "Array", fieldEntries(fields), 0)
		return b.String(), nil
	case ModeYAML:
		return renderYAML(fields)
	default:
		return "", nil
	}
}

func renderYAML(fields []Field) (string, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range fields {
		val := &yaml.Node{}
		if err := val.Encode(f.Value); err != nil {
			return "", fmt.Errorf("encode %s: %w", f.Name, err)
		}
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name},
			val,
		)
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal params: %w", err)
	}
	return strings.TrimRight(string(out), "\n"), nil
}

// kv is one key/value pair of a composite value.
type kv struct {
	key any
	val reflect.Value
}

func fieldEntries(fields []Field) []kv {
	entries := make([]kv, len(fields))
	for i, f := range fields {
		entries[i] = kv{key: f.Name, val: reflect.ValueOf(f.Value)}
	}
	return entries
}

// --- var_export style ---

func writeVarExportEntries(b *strings.Builder, entries []kv, depth int) {
	pad := strings.Repeat("  ", depth)
	inner := strings.Repeat("  ", depth+1)

	b.WriteString("array (\n")
	for _, e := range entries {
		b.WriteString(inner)
		b.WriteString(varExportKey(e.key))
		b.WriteString(" => ")
		if isComposite(e.val) {
			b.WriteString("\n")
			b.WriteString(inner)
		}
		writeVarExportValue(b, e.val, depth+1)
		b.WriteString(",\n")
	}
	b.WriteString(pad)
	b.WriteString(")")
}

func writeVarExportValue(b *strings.Builder, v reflect.Value, depth int) {
	v = indirect(v)
	if !v.IsValid() {
		b.WriteString("NULL")
		return
	}
	if depth > maxDepth {
		b.WriteString("NULL /* *RECURSION* */")
		return
	}

	if s, ok := scalar(v); ok {
		if v.Kind() == reflect.String || isTime(v) {
			b.WriteString(quote(s))
		} else {
			b.WriteString(s)
		}
		return
	}

	entries := compositeEntries(v)
	if v.Kind() == reflect.Struct {
		b.WriteString("\\" + typeName(v) + "::__set_state(")
		writeVarExportEntries(b, entries, depth)
		b.WriteString(")")
		return
	}
	writeVarExportEntries(b, entries, depth)
}

func varExportKey(key any) string {
	switch k := key.(type) {
	case int:
		return strconv.Itoa(k)
	case string:
		return quote(k)
	default:
		return quote(fmt.Sprint(k))
	}
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

// --- print_r style ---

func writePrintREntries(b *strings.Builder, header string, entries []kv, depth int) {
	pad := strings.Repeat(" ", 8*depth)

	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(pad)
	b.WriteString("(\n")
	for _, e := range entries {
		b.WriteString(pad)
		b.WriteString("    [")
		b.WriteString(fmt.Sprint(e.key))
		b.WriteString("] => ")
		writePrintRValue(b, e.val, depth+1)
		b.WriteString("\n")
	}
	b.WriteString(pad)
	b.WriteString(")\n")
}

func writePrintRValue(b *strings.Builder, v reflect.Value, depth int) {
	v = indirect(v)
	if !v.IsValid() {
		return
	}
	if depth > maxDepth {
		b.WriteString("*RECURSION*")
		return
	}

	if s, ok := scalar(v); ok {
		if v.Kind() == reflect.Bool {
			if v.Bool() {
				b.WriteString("1")
			}
			return
		}
		if v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64 {
			s = strings.TrimSuffix(s, ".0")
		}
		b.WriteString(s)
		return
	}

	header := "Array"
	if v.Kind() == reflect.Struct {
		header = typeName(v) + " Object"
	}
	writePrintREntries(b, header, compositeEntries(v), depth)
}

// --- shared value walking ---

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func isComposite(v reflect.Value) bool {
	v = indirect(v)
	if !v.IsValid() || isTime(v) {
		return false
	}
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return true
	}
	return false
}

func isTime(v reflect.Value) bool {
	return v.Type() == reflect.TypeOf(time.Time{})
}

// scalar formats non-composite values. ok is false for maps, slices, arrays
// and structs other than time.Time.
func scalar(v reflect.Value) (string, bool) {
	if isTime(v) {
		return v.Interface().(time.Time).Format(time.RFC3339), true
	}

	switch v.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(v.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		s := strconv.FormatFloat(v.Float(), 'f', -1, 64)
		if !strings.ContainsAny(s, ".eE") && !strings.Contains(s, "Inf") && s != "NaN" {
			s += ".0"
		}
		return s, true
	case reflect.String:
		return v.String(), true
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return "", false
	default:
		if v.CanInterface() {
			return fmt.Sprint(v.Interface()), true
		}
		return v.Type().String(), true
	}
}

func compositeEntries(v reflect.Value) []kv {
	switch v.Kind() {
	case reflect.Map:
		keys := v.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		entries := make([]kv, 0, len(keys))
		for _, k := range keys {
			entries = append(entries, kv{key: mapKey(k), val: v.MapIndex(k)})
		}
		return entries
	case reflect.Slice, reflect.Array:
		entries := make([]kv, v.Len())
		for i := 0; i < v.Len(); i++ {
			entries[i] = kv{key: i, val: v.Index(i)}
		}
		return entries
	case reflect.Struct:
		t := v.Type()
		entries := make([]kv, 0, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			entries = append(entries, kv{key: t.Field(i).Name, val: v.Field(i)})
		}
		return entries
	}
	return nil
}

func mapKey(k reflect.Value) any {
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(k.Int())
	case reflect.String:
		return k.String()
	default:
		return fmt.Sprint(k.Interface())
	}
}

func typeName(v reflect.Value) string {
	if name := v.Type().Name(); name != "" {
		return name
	}
	return "stdClass"
}

// isNull reports whether v is nil or a nil pointer or interface.
func isNull(v any) bool {
	return !indirect(reflect.ValueOf(v)).IsValid()
}

func isEmptyCollection(v any) bool {
	if isNull(v) {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return rv.Len() == 0
	}
	return false
}
