package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/devicelab-dev/axlocator/pkg/core"
	"github.com/devicelab-dev/axlocator/pkg/element"
	"github.com/devicelab-dev/axlocator/pkg/query"
)

// New starts a result for the named command.
func New(command string) *Result {
	return &Result{
		Version:   Version,
		Command:   command,
		Status:    StatusNotFound,
		Elements:  []Element{},
		StartTime: time.Now(),
	}
}

// AddNodes appends an Element for every node.
func (r *Result) AddNodes(nodes ...element.Node) {
	for _, n := range nodes {
		if n != nil {
			r.Elements = append(r.Elements, NewElement(n))
		}
	}
}

// SetFallback records the smart fallback that ran for an action.
func (r *Result) SetFallback(outcome query.FallbackOutcome) {
	fb := &Fallback{
		Status:     outcome.Status.String(),
		Candidates: len(outcome.Candidates),
	}
	if outcome.Status != query.FallbackSkipped {
		fb.Locator = outcome.Locator.Describe()
	}
	r.Fallback = fb
}

// Finish stamps the duration and derives the status from the elements found
// and the command error.
func (r *Result) Finish(err error) *Result {
	r.Duration = time.Since(r.StartTime).Milliseconds()
	r.Count = len(r.Elements)

	switch {
	case err == nil && r.Count > 0:
		r.Status = StatusFound
	case err == nil, errors.Is(err, core.ErrElementNotFound):
		r.Status = StatusNotFound
	default:
		r.Status = StatusFailed
	}
	if err != nil {
		r.Error = NewError(err)
	}
	return r
}

// NewElement flattens a node into an Element.
func NewElement(n element.Node) Element {
	e := Element{
		ID:   string(n.ID()),
		Role: element.Role(n),
	}
	e.Subrole, _ = element.StringAttribute(n, element.AXSubrole)
	e.Title, _ = element.StringAttribute(n, element.AXTitle)
	e.Identifier, _ = element.StringAttribute(n, element.AXIdentifier)
	e.Description, _ = element.StringAttribute(n, element.AXDescription)
	e.ComputedName, _ = query.ComputedName(n)

	if v, ok := n.Attribute(element.AXValue); ok {
		e.Value = v.String()
	}
	if v, ok := n.Attribute(element.AXActionNames); ok {
		if actions, ok := v.AsStrings(); ok && len(actions) > 0 {
			e.Actions = append([]string(nil), actions...)
		}
	}
	if enabled, ok := element.BoolAttribute(n, element.AXEnabled); ok {
		e.Enabled = &enabled
	}
	if path := query.PathOf(n); len(path) > 0 {
		e.Path = path
	}
	return e
}

// NewError converts a command error. ExecutionErrors keep their category,
// code and details; other errors are reported as unknown.
func NewError(err error) *Error {
	var execErr *core.ExecutionError
	if !errors.As(err, &execErr) {
		return &Error{
			Category: core.CategoryOf(err).String(),
			Message:  err.Error(),
		}
	}

	msg := execErr.Message
	if execErr.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, execErr.Cause)
	}
	return &Error{
		Category: execErr.Category.String(),
		Code:     execErr.Code,
		Message:  msg,
		Details:  execErr.Details,
	}
}
