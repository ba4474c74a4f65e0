// Package locator handles the representation and parsing of element locators.
package locator

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/devicelab-dev/axlocator/pkg/element"
)

// Locator represents element selection criteria.
// Pure data structure - the query engine decides how to use it.
type Locator struct {
	// Attribute name (or alias) to expected value. All values are strings;
	// lists and booleans are string-encoded.
	Criteria map[string]string `yaml:"criteria" json:"criteria"`

	// Path components resolved from the root before searching, e.g. "AXWindow[1]".
	RootPathHint []string `yaml:"rootPathHint,omitempty" json:"rootPathHint,omitempty"`

	// Action the matched element must support to count as a full match.
	RequireAction string `yaml:"requireAction,omitempty" json:"requireAction,omitempty"`

	// Carried for compatibility; criteria are always combined with AND.
	MatchAll *bool `yaml:"matchAll,omitempty" json:"matchAll,omitempty"`
}

// locatorRaw is used for YAML parsing so criteria values can be lists or scalars.
type locatorRaw struct {
	Criteria      map[string]yaml.Node `yaml:"criteria"`
	RootPathHint  []string             `yaml:"rootPathHint"`
	RequireAction string               `yaml:"requireAction"`
	MatchAll      *bool                `yaml:"matchAll"`
}

// UnmarshalYAML allows Locator to be unmarshaled from a role string or a struct.
func (l *Locator) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		l.Criteria = map[string]string{KeyRole: node.Value}
		return nil
	}

	var raw locatorRaw
	if err := node.Decode(&raw); err != nil {
		return err
	}

	l.RootPathHint = raw.RootPathHint
	l.RequireAction = raw.RequireAction
	l.MatchAll = raw.MatchAll
	l.Criteria = make(map[string]string, len(raw.Criteria))

	for key, value := range raw.Criteria {
		encoded, err := encodeCriterion(value)
		if err != nil {
			return fmt.Errorf("criterion %q: %w", key, err)
		}
		l.Criteria[key] = encoded
	}

	return nil
}

// encodeCriterion turns a YAML value into the string form the matcher expects.
// Sequences become JSON arrays.
func encodeCriterion(node yaml.Node) (string, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.ShortTag() == "!!null" {
			return "", nil
		}
		return node.Value, nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return "", err
		}
		if items == nil {
			items = []string{}
		}
		data, err := json.Marshal(items)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported value (line %d)", node.Line)
	}
}

// ParseFile parses a locator from a YAML or JSON file.
func ParseFile(path string) (*Locator, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided locator file
	if err != nil {
		return nil, fmt.Errorf("failed to read locator: %w", err)
	}
	return Parse(data)
}

// Parse parses a locator from YAML (or JSON) content.
func Parse(data []byte) (*Locator, error) {
	var loc Locator
	if err := yaml.Unmarshal(data, &loc); err != nil {
		return nil, fmt.Errorf("failed to parse locator: %w", err)
	}
	return &loc, nil
}

// Role returns the role criterion ("role" takes precedence over "AXRole").
func (l Locator) Role() string {
	if role := l.Criteria[KeyRole]; role != "" {
		return role
	}
	return l.Criteria[element.AXRole]
}

// Lookup returns the criteria key and value whose canonical name is attr.
func (l Locator) Lookup(attr string) (key, value string, ok bool) {
	for _, k := range l.sortedKeys() {
		if CanonicalKey(k) == attr {
			return k, l.Criteria[k], true
		}
	}
	return "", "", false
}

// Clone returns a deep copy.
func (l Locator) Clone() Locator {
	c := Locator{
		RequireAction: l.RequireAction,
		Criteria:      make(map[string]string, len(l.Criteria)),
	}
	for k, v := range l.Criteria {
		c.Criteria[k] = v
	}
	if l.RootPathHint != nil {
		c.RootPathHint = append([]string(nil), l.RootPathHint...)
	}
	if l.MatchAll != nil {
		v := *l.MatchAll
		c.MatchAll = &v
	}
	return c
}

// IsEmpty returns true if the locator has no criteria and no path hint.
func (l Locator) IsEmpty() bool {
	return len(l.Criteria) == 0 && len(l.RootPathHint) == 0
}

// Describe returns a human-readable description like AXButton[title="OK"].
func (l Locator) Describe() string {
	role := l.Role()
	if role == "" {
		role = Wildcard
	}

	var parts []string
	for _, k := range l.sortedKeys() {
		if KindOf(k) == KindRole && (l.Criteria[k] == role || l.Criteria[k] == "") {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%q", k, l.Criteria[k]))
	}
	if l.RequireAction != "" {
		parts = append(parts, "action="+l.RequireAction)
	}

	var b strings.Builder
	if len(l.RootPathHint) > 0 {
		b.WriteString(strings.Join(l.RootPathHint, "/"))
		b.WriteString("/")
	}
	b.WriteString(role)
	if len(parts) > 0 {
		b.WriteString("[" + strings.Join(parts, " ") + "]")
	}
	return b.String()
}

func (l Locator) sortedKeys() []string {
	keys := make([]string, 0, len(l.Criteria))
	for k := range l.Criteria {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
