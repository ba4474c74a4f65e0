package hierarchy

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/devicelab-dev/axlocator/pkg/element"
)

// XML tags with special meaning. Every other tag is an element whose role is the
// tag name, unless a role attribute overrides it.
const (
	rootTag    = "hierarchy" // Optional wrapper, skipped
	refTag     = "AXRef"     // <AXRef ref="id"/> back-edge
	windowsTag = "AXWindows" // Wraps the windows of the enclosing element
)

// ParseXML parses an accessibility tree dump:
//
//	<hierarchy>
//	  <AXApplication id="app" title="Notes">
//	    <AXWindows>
//	      <AXWindow id="main" title="Main">
//	        <AXButton title="OK" actions="AXPress"/>
//	        <AXRef ref="app"/>
//	      </AXWindow>
//	    </AXWindows>
//	  </AXApplication>
//	</hierarchy>
//
// The document must contain exactly one root element.
func ParseXML(data []byte) (*Element, error) {
	p := &xmlParser{decoder: xml.NewDecoder(bytes.NewReader(data))}

	var roots []*Element
	for {
		token, err := p.decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case rootTag:
			// Wrapper - its children are read by this loop
			continue
		case refTag, windowsTag:
			return nil, fmt.Errorf("<%s> outside of an element", start.Name.Local)
		}

		elem, err := p.parseElement(start)
		if err != nil {
			return nil, err
		}
		roots = append(roots, elem)
	}

	if len(roots) != 1 {
		return nil, fmt.Errorf("expected one root element, found %d", len(roots))
	}
	if err := Link(roots[0]); err != nil {
		return nil, err
	}
	return roots[0], nil
}

type xmlParser struct {
	decoder *xml.Decoder
}

// parseElement reads start's attributes and content up to its end tag.
func (p *xmlParser) parseElement(start xml.StartElement) (*Element, error) {
	elem := elementFromXML(start)

	for {
		token, err := p.decoder.Token()
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case refTag:
				id, err := p.parseRef(t)
				if err != nil {
					return nil, err
				}
				elem.AddChildRef(id)
			case windowsTag:
				if err := p.parseWindows(elem); err != nil {
					return nil, err
				}
			default:
				child, err := p.parseElement(t)
				if err != nil {
					return nil, err
				}
				elem.AppendChild(child)
			}

		case xml.EndElement:
			return elem, nil
		}
	}
}

// parseWindows reads an <AXWindows> wrapper into parent's windows list.
func (p *xmlParser) parseWindows(parent *Element) error {
	for {
		token, err := p.decoder.Token()
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == refTag {
				id, err := p.parseRef(t)
				if err != nil {
					return err
				}
				parent.AddWindowRef(id)
				continue
			}
			w, err := p.parseElement(t)
			if err != nil {
				return err
			}
			parent.AppendWindow(w)

		case xml.EndElement:
			return nil
		}
	}
}

func (p *xmlParser) parseRef(start xml.StartElement) (string, error) {
	id := xmlAttr(start, "ref")
	if id == "" {
		return "", fmt.Errorf("<%s> without ref attribute", refTag)
	}
	if err := p.decoder.Skip(); err != nil {
		return "", err
	}
	return id, nil
}

func elementFromXML(start xml.StartElement) *Element {
	elem := New("", start.Name.Local)

	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "id":
			elem.id = attr.Value
		case "role":
			elem.Role = attr.Value
		case "subrole":
			elem.Subrole = attr.Value
		case "roleDescription":
			elem.RoleDescription = attr.Value
		case "title":
			elem.Title = attr.Value
		case "value":
			elem.SetValue(element.StringValue(attr.Value))
		case "description":
			elem.Description = attr.Value
		case "help":
			elem.Help = attr.Value
		case "placeholder":
			elem.Placeholder = attr.Value
		case "identifier":
			elem.Identifier = attr.Value
		case "enabled":
			elem.Enabled = xmlBool(attr.Value)
		case "focused":
			elem.Focused = xmlBool(attr.Value)
		case "hidden":
			elem.Hidden = xmlBool(attr.Value)
		case "busy":
			elem.Busy = xmlBool(attr.Value)
		case "ignored":
			elem.Ignored = xmlBool(attr.Value)
		case "main":
			elem.Main = xmlBool(attr.Value)
		case "actions":
			elem.Actions = splitList(attr.Value)
		case "allowedValues":
			elem.AllowedValues = splitList(attr.Value)
		default:
			if elem.Extra == nil {
				elem.Extra = make(map[string]string)
			}
			elem.Extra[attr.Name.Local] = attr.Value
		}
	}
	return elem
}

func xmlAttr(start xml.StartElement, name string) string {
	for _, attr := range start.Attr {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}

func xmlBool(s string) *bool {
	b := strings.EqualFold(strings.TrimSpace(s), "true")
	return &b
}

// splitList splits a comma-separated attribute. An empty attribute is an empty,
// present list.
func splitList(s string) []string {
	result := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
