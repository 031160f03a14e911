package core

// Sentinels shown when a relationship cannot be resolved to a name.
const (
	NoAccount       = "No Account"
	Uncategorized   = "Uncategorized"
	UnknownAccount  = "Unknown Account"
	UnknownCategory = "Unknown Category"
	UnknownBudget   = "Unknown Budget"
	UnnamedBudget   = "Unnamed Budget"
)

// Named is anything that can be looked up by identifier and displayed.
type Named interface {
	Key() string
	DisplayName() string
}

// Lookup maps identifiers to display names. A nil Lookup is empty.
type Lookup map[string]string

// NewLookup indexes items by identifier. Later duplicates win.
func NewLookup[T Named](items []T) Lookup {
	l := make(Lookup, len(items))
	for _, it := range items {
		l[it.Key()] = it.DisplayName()
	}
	return l
}

// Name returns the name registered for id.
func (l Lookup) Name(id string) (string, bool) {
	name, ok := l[id]
	return name, ok
}

// ResolveName turns a relationship field into a display name. A populated
// reference yields its own name without consulting the lookup, an identifier
// is looked up, and an absent reference or a lookup miss yields sentinel.
func ResolveName(ref Ref, lookup Lookup, sentinel string) string {
	if ref.IsZero() {
		return sentinel
	}
	if name, ok := ref.Populated(); ok {
		return name
	}
	if name, ok := lookup.Name(ref.ID()); ok {
		return name
	}
	return sentinel
}
