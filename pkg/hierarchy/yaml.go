package hierarchy

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/devicelab-dev/axlocator/pkg/element"
)

// nodeSpec is the YAML/JSON shape of one element.
type nodeSpec struct {
	ID              string            `yaml:"id"`
	Role            string            `yaml:"role"`
	Subrole         string            `yaml:"subrole"`
	RoleDescription string            `yaml:"roleDescription"`
	Title           string            `yaml:"title"`
	Value           interface{}       `yaml:"value"`
	Description     string            `yaml:"description"`
	Help            string            `yaml:"help"`
	Placeholder     string            `yaml:"placeholder"`
	Identifier      string            `yaml:"identifier"`
	Enabled         *bool             `yaml:"enabled"`
	Focused         *bool             `yaml:"focused"`
	Hidden          *bool             `yaml:"hidden"`
	Busy            *bool             `yaml:"busy"`
	Ignored         *bool             `yaml:"ignored"`
	Main            *bool             `yaml:"main"`
	Actions         []string          `yaml:"actions"`
	AllowedValues   []string          `yaml:"allowedValues"`
	Attributes      map[string]string `yaml:"attributes"`
	Children        []nodeSpec        `yaml:"children"`
	Windows         []nodeSpec        `yaml:"windows"`
	Refs            []string          `yaml:"refs"`
	WindowRefs      []string          `yaml:"windowRefs"`
}

// ParseYAML parses a nested YAML (or JSON) tree:
//
//	id: app
//	role: AXApplication
//	windows:
//	  - role: AXWindow
//	    title: Main
//	    children:
//	      - role: AXButton
//	        title: OK
//	        actions: [AXPress]
//	    refs: [app]
func ParseYAML(data []byte) (*Element, error) {
	var spec nodeSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse hierarchy: %w", err)
	}
	if spec.Role == "" && len(spec.Children) == 0 && len(spec.Windows) == 0 {
		return nil, fmt.Errorf("hierarchy has no root element")
	}

	root, err := spec.build()
	if err != nil {
		return nil, err
	}
	if err := Link(root); err != nil {
		return nil, err
	}
	return root, nil
}

func (s nodeSpec) build() (*Element, error) {
	elem := New(s.ID, s.Role)
	elem.Subrole = s.Subrole
	elem.RoleDescription = s.RoleDescription
	elem.Title = s.Title
	elem.Description = s.Description
	elem.Help = s.Help
	elem.Placeholder = s.Placeholder
	elem.Identifier = s.Identifier
	elem.Enabled = s.Enabled
	elem.Focused = s.Focused
	elem.Hidden = s.Hidden
	elem.Busy = s.Busy
	elem.Ignored = s.Ignored
	elem.Main = s.Main
	elem.Actions = s.Actions
	elem.AllowedValues = s.AllowedValues
	elem.Extra = s.Attributes

	if s.Value != nil {
		v, err := scalarValue(s.Value)
		if err != nil {
			return nil, fmt.Errorf("element %q: %w", s.ID, err)
		}
		elem.SetValue(v)
	}

	for _, c := range s.Children {
		child, err := c.build()
		if err != nil {
			return nil, err
		}
		elem.AppendChild(child)
	}
	for _, w := range s.Windows {
		win, err := w.build()
		if err != nil {
			return nil, err
		}
		elem.AppendWindow(win)
	}
	for _, ref := range s.Refs {
		elem.AddChildRef(ref)
	}
	for _, ref := range s.WindowRefs {
		elem.AddWindowRef(ref)
	}
	return elem, nil
}

// scalarValue converts a decoded YAML scalar to a typed value.
func scalarValue(v interface{}) (element.Value, error) {
	switch val := v.(type) {
	case string:
		return element.StringValue(val), nil
	case bool:
		return element.BoolValue(val), nil
	case int:
		return element.NumberValue(float64(val)), nil
	case int64:
		return element.NumberValue(float64(val)), nil
	case uint64:
		return element.NumberValue(float64(val)), nil
	case float64:
		return element.NumberValue(val), nil
	default:
		return element.Value{}, fmt.Errorf("unsupported value type %T", v)
	}
}
