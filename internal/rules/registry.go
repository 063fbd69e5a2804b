package rules

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/JonMunkholm/tsvcheck/internal/check"
)

// ErrUnknownKind is returned when a column names a kind nobody registered.
var ErrUnknownKind = errors.New("unknown rule kind")

// Builder compiles a column definition into the check for its cells.
// Builders run once per rules file; anything expensive (a regular
// expression, a lookup set) is prepared here and shared by every cell.
type Builder func(col Column) (check.CellSettings, error)

var (
	registry   = make(map[string]Builder)
	registryMu sync.RWMutex
)

// RegisterKind makes a rule kind available to rules files.
// Panics if a kind with the same name is already registered.
func RegisterKind(name string, b Builder) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("rule kind already registered: %s", name))
	}
	registry[name] = b
}

// Kinds returns the registered kind names, sorted.
func Kinds() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupKind(name string) (Builder, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	b, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, name)
	}
	return b, nil
}
