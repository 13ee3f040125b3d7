package model

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Builder constructs a model and its optimizer. Implementations register
// themselves at init time; the training binary selects one by name.
type Builder func() (Model, Optimizer, error)

var (
	buildersMu sync.Mutex
	builders   = map[string]Builder{}
)

// Register makes a model implementation selectable by name. It panics on a
// duplicate name, like a misconfigured driver would.
func Register(name string, b Builder) {
	buildersMu.Lock()
	defer buildersMu.Unlock()
	if _, dup := builders[name]; dup {
		panic("model: Register called twice for " + name)
	}
	builders[name] = b
}

// Build constructs the named model, or fails when no implementation of that
// name was linked into the binary.
func Build(name string) (Model, Optimizer, error) {
	buildersMu.Lock()
	b, ok := builders[name]
	buildersMu.Unlock()
	if !ok {
		return nil, nil, errors.Errorf("model: %q is not linked into this binary (have %v)", name, Names())
	}
	return b()
}

// Names lists the registered model implementations.
func Names() []string {
	buildersMu.Lock()
	defer buildersMu.Unlock()
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
