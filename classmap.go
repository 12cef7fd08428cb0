package yolods

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// ClassMap maps annotation labels to YOLO class ids.
//
// The class id of a label is its index in the list of canonical names. Aliases map known
// alternative spellings to a canonical name and resolve to the same id. Labels that are neither
// canonical names nor aliases are not part of the map.
type ClassMap struct {
	names   []string
	aliases map[string]string
	ids     map[string]int
}

// DefaultClassNames are the gate colour classes, in class id order.
var DefaultClassNames = []string{"Red_gates", "Green_gates", "Blue_gates"}

// DefaultClassAliases lists known misspellings found in older annotation files.
var DefaultClassAliases = map[string]string{"Greeen_gates": "Green_gates"}

// NewClassMap validates names and aliases and builds the lookup table.
func NewClassMap(names []string, aliases map[string]string) (*ClassMap, error) {
	var err error
	if len(names) == 0 {
		err = multierr.Append(err, errors.New("at least one class name is required"))
	}

	ids := make(map[string]int, len(names)+len(aliases))
	for i, n := range names {
		if n == "" {
			err = multierr.Append(err, errors.Errorf("class %d has an empty name", i))
			continue
		}
		if prev, ok := ids[n]; ok {
			err = multierr.Append(err, errors.Errorf("class %q is listed twice (ids %d and %d)", n, prev, i))
			continue
		}
		ids[n] = i
	}

	for alias, target := range aliases {
		switch {
		case alias == "":
			err = multierr.Append(err, errors.Errorf("empty alias for class %q", target))
		case isName(names, alias):
			err = multierr.Append(err, errors.Errorf("alias %q shadows a class name", alias))
		case !isName(names, target):
			err = multierr.Append(err, errors.Errorf("alias %q refers to unknown class %q", alias, target))
		default:
			ids[alias] = ids[target]
		}
	}
	if err != nil {
		return nil, err
	}

	aliasCopy := make(map[string]string, len(aliases))
	for k, v := range aliases {
		aliasCopy[k] = v
	}
	return &ClassMap{
		names:   append([]string(nil), names...),
		aliases: aliasCopy,
		ids:     ids,
	}, nil
}

// DefaultClassMap returns the gate colour class map.
func DefaultClassMap() *ClassMap {
	m, err := NewClassMap(DefaultClassNames, DefaultClassAliases)
	if err != nil {
		panic(err)
	}
	return m
}

func isName(names []string, s string) bool {
	for _, n := range names {
		if n == s {
			return true
		}
	}
	return false
}

// Lookup returns the class id for label.
func (m *ClassMap) Lookup(label string) (int, bool) {
	id, ok := m.ids[label]
	return id, ok
}

// Names returns the canonical class names, indexed by class id.
func (m *ClassMap) Names() []string {
	return append([]string(nil), m.names...)
}

// Len is the number of classes.
func (m *ClassMap) Len() int {
	return len(m.names)
}

// IDs returns the flat label to id mapping, aliases included.
func (m *ClassMap) IDs() map[string]int {
	out := make(map[string]int, len(m.ids))
	for k, v := range m.ids {
		out[k] = v
	}
	return out
}
