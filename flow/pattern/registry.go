package pattern

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu          sync.RWMutex
	generators  = map[string]GeneratorFactory{}
	comparators = map[string]ComparatorFactory{}
)

// RegisterGenerator makes a generator available under name.
// Registering the same name twice panics.
func RegisterGenerator(name string, f GeneratorFactory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := generators[name]; exists {
		panic(fmt.Sprintf("pattern generator %q already registered", name))
	}
	logrus.Debugf("registering pattern generator %q", name)
	generators[name] = f
}

// RegisterComparator makes a comparator available under name.
// Registering the same name twice panics.
func RegisterComparator(name string, f ComparatorFactory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := comparators[name]; exists {
		panic(fmt.Sprintf("pattern comparator %q already registered", name))
	}
	logrus.Debugf("registering pattern comparator %q", name)
	comparators[name] = f
}

// HasGenerator reports whether name is a registered generator.
func HasGenerator(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := generators[name]
	return ok
}

// HasComparator reports whether name is a registered comparator. The empty
// name always resolves to the default line comparator.
func HasComparator(name string) bool {
	if name == "" {
		return true
	}
	mu.RLock()
	defer mu.RUnlock()
	_, ok := comparators[name]
	return ok
}

// Generators lists the registered generator names in sorted order.
func Generators() []string {
	mu.RLock()
	defer mu.RUnlock()
	return sortedKeys(generators)
}

// Comparators lists the registered comparator names in sorted order.
func Comparators() []string {
	mu.RLock()
	defer mu.RUnlock()
	return sortedKeys(comparators)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// NewGenerator builds the generator registered under name.
func NewGenerator(name string, cfg GeneratorConfig) (Generator, error) {
	mu.RLock()
	f, ok := generators[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown pattern generator %q; registered: %v", name, Generators())
	}
	return f(cfg)
}

// NewComparator builds the comparator registered under name, or the default
// line comparator when name is empty.
func NewComparator(name string, pairs Pairs) (Comparator, error) {
	if name == "" {
		return NewLineComparator(pairs, ExactLine), nil
	}
	mu.RLock()
	f, ok := comparators[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown pattern comparator %q; registered: %v", name, Comparators())
	}
	return f(pairs)
}
