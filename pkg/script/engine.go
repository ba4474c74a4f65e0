// Package script evaluates JavaScript predicates over matched elements.
package script

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"

	"github.com/devicelab-dev/axlocator/pkg/element"
	"github.com/devicelab-dev/axlocator/pkg/logger"
	"github.com/devicelab-dev/axlocator/pkg/query"
)

// DefaultTimeout bounds a single evaluation.
const DefaultTimeout = time.Second

// Engine wraps a goja runtime. Evaluations are serialized.
type Engine struct {
	runtime   *goja.Runtime
	variables map[string]interface{}
	timeout   time.Duration
	mu        sync.Mutex
}

// New creates a new JS engine instance
func New() *Engine {
	e := &Engine{
		runtime:   goja.New(),
		variables: make(map[string]interface{}),
		timeout:   DefaultTimeout,
	}
	e.setupConsole()
	return e
}

// setupConsole routes console.log/warn/error to the logger.
func (e *Engine) setupConsole() {
	makeConsoleFunc := func(log func(string, ...interface{})) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			parts := make([]string, len(call.Arguments))
			for i, arg := range call.Arguments {
				parts[i] = arg.String()
			}
			log("js: %s", strings.Join(parts, " "))
			return goja.Undefined()
		}
	}

	console := e.runtime.NewObject()
	console.Set("log", makeConsoleFunc(logger.Info))
	console.Set("warn", makeConsoleFunc(logger.Warn))
	console.Set("error", makeConsoleFunc(logger.Error))
	e.runtime.Set("console", console)
}

// SetTimeout changes the per-evaluation limit. Zero disables it.
func (e *Engine) SetTimeout(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.timeout = d
}

// SetVariable sets a variable accessible in JS as a global
func (e *Engine) SetVariable(name string, value interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.variables[name] = value
	e.runtime.Set(name, value)
}

// SetVariables sets multiple variables
func (e *Engine) SetVariables(vars map[string]interface{}) {
	for k, v := range vars {
		e.SetVariable(k, v)
	}
}

// Eval evaluates a JavaScript expression and returns the exported result.
func (e *Engine) Eval(script string) (interface{}, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	result, err := e.run(script)
	if err != nil {
		return nil, err
	}
	return result.Export(), nil
}

// EvalString evaluates a JavaScript expression and returns string result
func (e *Engine) EvalString(script string) (string, error) {
	result, err := e.Eval(script)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", nil
	}
	return fmt.Sprintf("%v", result), nil
}

// run must be called with e.mu held.
func (e *Engine) run(script string) (goja.Value, error) {
	if e.timeout > 0 {
		timer := time.AfterFunc(e.timeout, func() {
			e.runtime.Interrupt("timeout")
		})
		defer func() {
			timer.Stop()
			e.runtime.ClearInterrupt()
		}()
	}

	result, err := e.runtime.RunString(script)
	if err != nil {
		return nil, fmt.Errorf("JS eval error: %w", err)
	}
	return result, nil
}

// Match binds n to the global el and reports whether expr is truthy.
func (e *Engine) Match(n element.Node, expr string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.runtime.Set("el", e.elementObject(n))
	defer e.runtime.Set("el", goja.Undefined())

	result, err := e.run(expr)
	if err != nil {
		return false, err
	}
	return result.ToBoolean(), nil
}

// Filter keeps the nodes for which expr is truthy, preserving order.
// Evaluation stops at the first error.
func (e *Engine) Filter(nodes []element.Node, expr string) ([]element.Node, error) {
	result := make([]element.Node, 0, len(nodes))
	for _, n := range nodes {
		ok, err := e.Match(n, expr)
		if err != nil {
			return nil, fmt.Errorf("element %s: %w", n.ID(), err)
		}
		if ok {
			result = append(result, n)
		}
	}
	return result, nil
}

// elementObject builds the el object: common attributes as properties, plus
// attr(name) for anything else.
func (e *Engine) elementObject(n element.Node) *goja.Object {
	obj := e.runtime.NewObject()

	obj.Set("id", string(n.ID()))
	for prop, attr := range map[string]string{
		"role":        element.AXRole,
		"subrole":     element.AXSubrole,
		"title":       element.AXTitle,
		"identifier":  element.AXIdentifier,
		"description": element.AXDescription,
		"help":        element.AXHelp,
		"placeholder": element.AXPlaceholder,
		"value":       element.AXValue,
		"enabled":     element.AXEnabled,
		"focused":     element.AXFocused,
		"actions":     element.AXActionNames,
	} {
		obj.Set(prop, exportValue(n, attr))
	}

	if name, ok := query.ComputedName(n); ok {
		obj.Set("computedName", name)
	} else {
		obj.Set("computedName", goja.Null())
	}
	obj.Set("childCount", len(n.Children()))
	obj.Set("attr", func(name string) interface{} {
		return exportValue(n, name)
	})
	obj.Set("can", func(action string) bool {
		return n.SupportsAction(action)
	})
	return obj
}

// exportValue converts an attribute to a plain Go value for goja; absent is nil (null).
func exportValue(n element.Node, name string) interface{} {
	v, ok := n.Attribute(name)
	if !ok {
		return nil
	}
	switch v.Kind() {
	case element.KindString:
		s, _ := v.AsString()
		return s
	case element.KindBool:
		b, _ := v.AsBool()
		return b
	case element.KindNumber:
		f, _ := v.AsNumber()
		return f
	case element.KindStringList:
		s, _ := v.AsStrings()
		return s
	case element.KindNode:
		child, _ := v.AsNode()
		if child == nil {
			return nil
		}
		return string(child.ID())
	case element.KindNodeList:
		nodes, _ := v.AsNodes()
		ids := make([]string, 0, len(nodes))
		for _, c := range nodes {
			if c != nil {
				ids = append(ids, string(c.ID()))
			}
		}
		return ids
	default:
		return nil
	}
}

// ExpandVariables expands ${...} expressions in a string using JS evaluation.
// Expressions that fail to evaluate are left as-is.
func (e *Engine) ExpandVariables(text string) string {
	result := text
	start := 0

	for {
		idx := strings.Index(result[start:], "${")
		if idx == -1 {
			break
		}
		idx += start

		// Find matching }
		depth := 1
		end := idx + 2
		for end < len(result) && depth > 0 {
			if result[end] == '{' {
				depth++
			} else if result[end] == '}' {
				depth--
			}
			end++
		}

		if depth != 0 {
			start = idx + 2
			continue
		}

		expr := result[idx+2 : end-1]
		value, err := e.EvalString(expr)
		if err != nil {
			start = end
			continue
		}

		result = result[:idx] + value + result[end:]
		start = idx + len(value)
	}

	return result
}
