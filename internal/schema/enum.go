package schema

import (
	"fmt"
	"sort"
	"sync"
)

// Other is the sentinel value that pairs an enum field with a free-text
// sibling column.
const Other = "other"

// Enum is a closed set of string values shared by validation and clients.
type Enum struct {
	name   string
	values []string
	set    map[string]struct{}
}

var (
	enumsMu sync.RWMutex
	enums   = map[string]*Enum{}
)

// NewEnum declares and registers a named value set. Names must be unique.
func NewEnum(name string, values ...string) *Enum {
	e := &Enum{
		name:   name,
		values: append([]string(nil), values...),
		set:    make(map[string]struct{}, len(values)),
	}
	for _, v := range values {
		e.set[v] = struct{}{}
	}

	enumsMu.Lock()
	defer enumsMu.Unlock()
	if _, exists := enums[name]; exists {
		panic(fmt.Sprintf("schema: enum %q registered twice", name))
	}
	enums[name] = e
	return e
}

func (e *Enum) Name() string { return e.name }

func (e *Enum) Values() []string {
	return append([]string(nil), e.values...)
}

func (e *Enum) Has(value string) bool {
	_, ok := e.set[value]
	return ok
}

func lookupEnum(name string) (*Enum, bool) {
	enumsMu.RLock()
	defer enumsMu.RUnlock()
	e, ok := enums[name]
	return e, ok
}

// Enums returns every registered value set keyed by name.
func Enums() map[string][]string {
	enumsMu.RLock()
	defer enumsMu.RUnlock()

	out := make(map[string][]string, len(enums))
	for name, e := range enums {
		out[name] = e.Values()
	}
	return out
}

// EnumNames lists registered enum names in sorted order.
func EnumNames() []string {
	enumsMu.RLock()
	defer enumsMu.RUnlock()

	names := make([]string, 0, len(enums))
	for name := range enums {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
