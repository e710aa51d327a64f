package render

// Theme holds the colors and type settings for the SVG preview.
type Theme struct {
	Name       string // Theme identifier ("light", "dark")
	Background string // Canvas fill
	Axis       string // Axis stroke
	Anchor     string // Anchor dot fill
	Leader     string // Leader stroke between anchor and label
	Label      string // Label text fill
	Muted      string // Caption and annotation fill
	Limit      string // Limit line stroke
	FontFamily string
	FontSize   float64
}

// Light is the default preview theme.
func Light() Theme {
	return Theme{
		Name:       "light",
		Background: "#ffffff",
		Axis:       "#94a3b8",
		Anchor:     "#0f172a",
		Leader:     "#cbd5e1",
		Label:      "#0f172a",
		Muted:      "#64748b",
		Limit:      "#f59e0b",
		FontFamily: "ui-monospace, SFMono-Regular, Menlo, monospace",
		FontSize:   13,
	}
}

// Dark is the inverted preview theme.
func Dark() Theme {
	return Theme{
		Name:       "dark",
		Background: "#0f172a",
		Axis:       "#475569",
		Anchor:     "#f8fafc",
		Leader:     "#334155",
		Label:      "#f8fafc",
		Muted:      "#94a3b8",
		Limit:      "#fbbf24",
		FontFamily: "ui-monospace, SFMono-Regular, Menlo, monospace",
		FontSize:   13,
	}
}

// ThemeByName resolves a theme identifier, defaulting to [Light] for
// unknown names.
func ThemeByName(name string) Theme {
	if name == "dark" {
		return Dark()
	}
	return Light()
}
