package tracelog

import (
	"strings"
	"testing"

	"notifier-go/core/event"
)

func TestFields(t *testing.T) {
	tests := []struct {
		name     string
		params   *event.Params
		expected []string
	}{
		{"nil bundle", nil, nil},
		{"empty payload omitted", event.NewParams(map[string]any{}), nil},
		{"nil payload omitted", event.NewParams(nil), nil},
		{"empty slice payload omitted", event.NewParams([]string{}), nil},
		{"scalar payload kept", event.NewParams(0), []string{"param1"}},
		{"refs kept in order", event.NewParams(nil, 1, nil, 3), []string{"param2", "param4"}},
		{"payload and refs", event.NewParams("x", "y"), []string{"param1", "param2"}},
		{"typed nil ref omitted", event.NewParams(nil, (*int)(nil), 2), []string{"param3"}},
		{"typed nil payload omitted", event.NewParams((*struct{})(nil)), nil},
		{"empty string payload kept", event.NewParams(""), []string{"param1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := Fields(tt.params)
			if len(fields) != len(tt.expected) {
				t.Fatalf("Fields() = %v, want names %v", fields, tt.expected)
			}
			for i, f := range fields {
				if f.Name != tt.expected[i] {
					t.Errorf("field %d = %s, want %s", i, f.Name, tt.expected[i])
				}
			}
		})
	}
}

func orderFields() []Field {
	return []Field{
		{Name: "param1", Value: map[string]any{"orderId": 42}},
		{Name: "param2", Value: 5},
	}
}

func TestRender_VarExport(t *testing.T) {
	got, err := Render(ModeVarExport, orderFields())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	want := "array (\n" +
		"  'param1' => \n" +
		"  array (\n" +
		"    'orderId' => 42,\n" +
		"  ),\n" +
		"  'param2' => 5,\n" +
		")"
	if got != want {
		t.Errorf("Render(var_export) =\n%s\nwant\n%s", got, want)
	}
}

func TestRender_PrintR(t *testing.T) {
	got, err := Render(ModePrintR, orderFields())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	want := "Array\n" +
		"(\n" +
		"    [param1] => Array\n" +
		"        (\n" +
		"            [orderId] => 42\n" +
		"        )\n" +
		"\n" +
		"    [param2] => 5\n" +
		")\n"
	if got != want {
		t.Errorf("Render(print_r) =\n%s\nwant\n%s", got, want)
	}
}

func TestRender_YAML(t *testing.T) {
	got, err := Render(ModeYAML, orderFields())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, want := range []string{"param1:", "orderId: 42", "param2: 5"} {
		if !strings.Contains(got, want) {
			t.Errorf("Render(yaml) = %q, missing %q", got, want)
		}
	}
	if strings.HasSuffix(got, "\n") {
		t.Error("YAML rendering should not end with a newline")
	}
}

func TestRender_Scalars(t *testing.T) {
	fields := []Field{
		{Name: "param1", Value: "it's"},
		{Name: "param2", Value: true},
		{Name: "param3", Value: 2.0},
		{Name: "param4", Value: []int{7}},
	}

	got, err := Render(ModeVarExport, fields)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, want := range []string{
		`'param1' => 'it\'s',`,
		"'param2' => true,",
		"'param3' => 2.0,",
		"    0 => 7,",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("var_export output missing %q:\n%s", want, got)
		}
	}

	got, err = Render(ModePrintR, fields)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, want := range []string{"[param1] => it's\n", "[param2] => 1\n", "[param3] => 2\n", "[0] => 7\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("print_r output missing %q:\n%s", want, got)
		}
	}
}

type cartTotal struct {
	Subtotal int
	Currency string
	internal bool
}

func TestRender_Struct(t *testing.T) {
	fields := []Field{{Name: "param2", Value: &cartTotal{Subtotal: 10, Currency: "EUR"}}}

	got, _ := Render(ModeVarExport, fields)
	if !strings.Contains(got, `\cartTotal::__set_state(array (`) {
		t.Errorf("var_export struct header missing:\n%s", got)
	}
	if strings.Contains(got, "internal") {
		t.Error("unexported fields should not be rendered")
	}

	got, _ = Render(ModePrintR, fields)
	if !strings.Contains(got, "[param2] => cartTotal Object\n") {
		t.Errorf("print_r struct header missing:\n%s", got)
	}
	if !strings.Contains(got, "[Currency] => EUR\n") {
		t.Errorf("print_r struct field missing:\n%s", got)
	}
}

type node struct {
	Next *node
}

func TestRender_Recursion(t *testing.T) {
	n := &node{}
	n.Next = n

	got, err := Render(ModeVarExport, []Field{{Name: "param2", Value: n}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(got, "*RECURSION*") {
		t.Error("expected recursion marker for cyclic value")
	}
}

func TestRender_NothingToRender(t *testing.T) {
	for _, m := range []Mode{ModeOff, ModeBare, ModeVarExport} {
		got, err := Render(m, nil)
		if err != nil || got != "" {
			t.Errorf("Render(%v, nil) = %q, %v; want empty", m, got, err)
		}
	}

	got, _ := Render(ModeBare, orderFields())
	if got != "" {
		t.Errorf("bare mode should not render params, got %q", got)
	}
}
