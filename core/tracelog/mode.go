package tracelog

// Mode selects whether dispatches are traced and how parameters are rendered.
type Mode int

const (
	// ModeOff disables tracing.
	ModeOff Mode = iota
	// ModeVarExport renders parameters as a var_export-style dump.
	ModeVarExport
	// ModePrintR renders parameters as a print_r-style dump.
	ModePrintR
	// ModeYAML renders parameters as a YAML document.
	ModeYAML
	// ModeBare traces the event line without parameters.
	ModeBare
)

// String returns the canonical setting value for the mode.
func (m Mode) String() string {
	switch m {
	case ModeOff:
		return "Off"
	case ModeVarExport:
		return "var_export"
	case ModePrintR:
		return "print_r"
	case ModeYAML:
		return "yaml"
	case ModeBare:
		return "bare"
	default:
		return "unknown"
	}
}

// Enabled reports whether the mode writes trace lines.
func (m Mode) Enabled() bool {
	return m != ModeOff
}

// ParseMode maps a trace setting to a Mode.
//
//	"", "false", "Off"            -> ModeOff
//	"var_export", "var_dump", "true" -> ModeVarExport
//	"print_r", "On"               -> ModePrintR
//	"yaml"                        -> ModeYAML
//
// Matching is exact: any other non-empty value, "off" included, enables
// tracing without parameter rendering.
func ParseMode(s string) Mode {
	switch s {
	case "", "false", "Off":
		return ModeOff
	case "var_export", "var_dump", "true":
		return ModeVarExport
	case "print_r", "On":
		return ModePrintR
	case "yaml":
		return ModeYAML
	default:
		return ModeBare
	}
}

// UnmarshalText implements encoding.TextUnmarshaler so a Mode can be read
// straight from configuration.
func (m *Mode) UnmarshalText(text []byte) error {
	*m = ParseMode(string(text))
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}
