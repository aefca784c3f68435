// Package categories holds the fixed category registry. The set is compiled in
// and never changes at runtime.
package categories

type Category struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

var registry = []Category{
	{Name: "technology", Color: "#3b82f6"},
	{Name: "science", Color: "#16a34a"},
	{Name: "finance", Color: "#ef4444"},
	{Name: "society", Color: "#eab308"},
	{Name: "entertainment", Color: "#db2777"},
	{Name: "health", Color: "#14b8a6"},
	{Name: "history", Color: "#f97316"},
	{Name: "news", Color: "#8b5cf6"},
}

// All returns the registry in display order. Callers must not modify the slice.
func All() []Category {
	return registry
}

// Valid reports whether name is a known category.
func Valid(name string) bool {
	for _, c := range registry {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Color returns the display color for a known category.
func Color(name string) (string, bool) {
	for _, c := range registry {
		if c.Name == name {
			return c.Color, true
		}
	}
	return "", false
}
