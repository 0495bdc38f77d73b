// Package theme is the fixed table of color themes. Only the key of the
// selected theme is ever persisted.
package theme

// Key identifies a theme.
type Key string

const (
	Slate   Key = "slate"
	Indigo  Key = "indigo"
	Emerald Key = "emerald"
)

// Default is used when no theme, or an unknown one, is selected.
const Default = Slate

// Bundle is the set of color tokens a theme provides. Colors are ANSI 256
// codes or hex strings.
type Bundle struct {
	Key  Key
	Name string

	Primary    string // today marker, handles, focused inputs
	Container  string // bar fill
	Card       string // modal and grid row background
	Header     string // header bar background
	Item       string // weekend column background
	Light      string // cursor cell background
	Text       string
	Muted      string
	Border     string
	BarBorder  string // leading edge of a bar
	OnPrimary  string // text drawn on Primary
	Highlight  string // freshly created bar
	ErrorColor string
}

var order = []Key{Slate, Indigo, Emerald}

var table = map[Key]Bundle{
	Slate: {
		Key:        Slate,
		Name:       "Neutral Slate",
		Primary:    "#1e293b",
		Container:  "#e2e8f0",
		Card:       "#f8fafc",
		Header:     "#f1f5f9",
		Item:       "#e7ebf0",
		Light:      "#cbd5e1",
		Text:       "#0f172a",
		Muted:      "#94a3b8",
		Border:     "#cbd5e1",
		BarBorder:  "#1e293b",
		OnPrimary:  "#ffffff",
		Highlight:  "#fde68a",
		ErrorColor: "#ef4444",
	},
	Indigo: {
		Key:        Indigo,
		Name:       "Soft Indigo",
		Primary:    "#4f46e5",
		Container:  "#e0e7ff",
		Card:       "#eef2ff",
		Header:     "#eef2ff",
		Item:       "#e4e8fd",
		Light:      "#c7d2fe",
		Text:       "#312e81",
		Muted:      "#818cf8",
		Border:     "#c7d2fe",
		BarBorder:  "#4f46e5",
		OnPrimary:  "#ffffff",
		Highlight:  "#fde68a",
		ErrorColor: "#ef4444",
	},
	Emerald: {
		Key:        Emerald,
		Name:       "Fresh Emerald",
		Primary:    "#059669",
		Container:  "#d1fae5",
		Card:       "#ecfdf5",
		Header:     "#ecfdf5",
		Item:       "#dcf7ea",
		Light:      "#a7f3d0",
		Text:       "#064e3b",
		Muted:      "#34d399",
		Border:     "#a7f3d0",
		BarBorder:  "#059669",
		OnPrimary:  "#ffffff",
		Highlight:  "#fde68a",
		ErrorColor: "#ef4444",
	},
}

// Lookup returns the bundle for key. Unknown keys resolve to the default
// theme and ok is false.
func Lookup(key Key) (Bundle, bool) {
	b, ok := table[key]
	if !ok {
		return table[Default], false
	}
	return b, true
}

// Valid reports whether key names a theme.
func Valid(key Key) bool {
	_, ok := table[key]
	return ok
}

// Keys returns all theme keys in display order.
func Keys() []Key {
	keys := make([]Key, len(order))
	copy(keys, order)
	return keys
}

// Next returns the theme after key, wrapping around.
func Next(key Key) Key {
	for i, k := range order {
		if k == key {
			return order[(i+1)%len(order)]
		}
	}
	return Default
}
