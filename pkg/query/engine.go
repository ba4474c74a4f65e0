package query

import (
	"context"
	"errors"
	"strings"

	"github.com/devicelab-dev/axlocator/pkg/core"
	"github.com/devicelab-dev/axlocator/pkg/element"
	"github.com/devicelab-dev/axlocator/pkg/executor"
	"github.com/devicelab-dev/axlocator/pkg/locator"
	"github.com/devicelab-dev/axlocator/pkg/logger"
)

// Defaults applied by Engine when Options leaves a bound unset.
const (
	DefaultMaxDepth    = 10
	DefaultMaxElements = 100
)

// Options bounds Engine traversals. A MaxDepth of 0 evaluates only the start
// node; a negative MaxDepth or a non-positive MaxElements takes the default.
type Options struct {
	MaxDepth    int
	MaxElements int
}

// DefaultOptions returns the default bounds.
func DefaultOptions() Options {
	return Options{MaxDepth: DefaultMaxDepth, MaxElements: DefaultMaxElements}
}

func (o Options) withDefaults() Options {
	if o.MaxDepth < 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxElements <= 0 {
		o.MaxElements = DefaultMaxElements
	}
	return o
}

// Engine runs locator queries on the main queue. It resolves root path hints,
// applies bounds and turns empty results into core errors.
type Engine struct {
	queue *executor.MainQueue
	opts  Options
}

// NewEngine creates an engine. A nil queue runs queries on the calling goroutine.
func NewEngine(q *executor.MainQueue, opts Options) *Engine {
	return &Engine{queue: q, opts: opts.withDefaults()}
}

// Options returns the effective bounds.
func (e *Engine) Options() Options {
	return e.opts
}

// Find returns the first node matching loc, requiring loc.RequireAction if set.
func (e *Engine) Find(ctx context.Context, root element.Node, loc locator.Locator) (element.Node, error) {
	var found element.Node
	var navErr error
	err := e.do(ctx, func() {
		start, err := resolveHint(root, loc.RootPathHint)
		if err != nil {
			navErr = err
			return
		}
		found = Search(start, loc, loc.RequireAction, e.opts.MaxDepth)
	})
	if err != nil {
		return nil, err
	}
	if navErr != nil {
		return nil, navErr
	}

	logger.Debug("find %s depth=%d found=%t", loc.Describe(), e.opts.MaxDepth, found != nil)
	if found == nil {
		return nil, core.ErrElementNotFound.WithDetails(map[string]interface{}{
			"locator": loc.Describe(),
		})
	}
	return found, nil
}

// FindAll returns every node matching loc within the engine's bounds.
// No match is an empty result, not an error.
func (e *Engine) FindAll(ctx context.Context, root element.Node, loc locator.Locator) ([]element.Node, error) {
	var found []element.Node
	var navErr error
	err := e.do(ctx, func() {
		start, err := resolveHint(root, loc.RootPathHint)
		if err != nil {
			navErr = err
			return
		}
		found = CollectAll(start, loc, e.opts.MaxDepth, e.opts.MaxElements)
	})
	if err != nil {
		return nil, err
	}
	if navErr != nil {
		return nil, navErr
	}

	logger.Debug("collect %s depth=%d max=%d count=%d", loc.Describe(), e.opts.MaxDepth, e.opts.MaxElements, len(found))
	if found == nil {
		found = []element.Node{}
	}
	return found, nil
}

// NavigateTo follows "Role[Index]" components from root.
func (e *Engine) NavigateTo(ctx context.Context, root element.Node, path []string) (element.Node, error) {
	var found element.Node
	var navErr error
	err := e.do(ctx, func() {
		found, navErr = resolveHint(root, path)
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("navigate %s found=%t", strings.Join(path, "/"), found != nil)
	if navErr != nil {
		return nil, navErr
	}
	return found, nil
}

// Fallback runs SmartFallback for actionName from the node loc's path hint leads to.
// The hint only picks the starting node; the rewritten locator drops it.
func (e *Engine) Fallback(ctx context.Context, root element.Node, loc locator.Locator, actionName string) (element.Node, FallbackOutcome, error) {
	var found element.Node
	var outcome FallbackOutcome
	var navErr error
	err := e.do(ctx, func() {
		start, err := resolveHint(root, loc.RootPathHint)
		if err != nil {
			navErr = err
			return
		}
		found, outcome = SmartFallback(start, loc, actionName)
	})
	if err != nil {
		return nil, FallbackOutcome{}, err
	}
	if navErr != nil {
		return nil, FallbackOutcome{}, navErr
	}
	logger.Debug("fallback %s action=%s status=%s candidates=%d", loc.Describe(), actionName, outcome.Status, len(outcome.Candidates))
	return found, outcome, nil
}

// Do runs fn with the engine's tree affinity: on the main queue when there is one.
func (e *Engine) Do(ctx context.Context, fn func()) error {
	return e.do(ctx, fn)
}

func (e *Engine) do(ctx context.Context, fn func()) error {
	if e.queue == nil {
		if err := ctx.Err(); err != nil {
			return core.ErrQueueTimeout.WithCause(err)
		}
		fn()
		return nil
	}

	err := e.queue.Do(ctx, fn)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded), errors.Is(err, executor.ErrQueueClosed):
		return core.ErrQueueTimeout.WithCause(err)
	default:
		return core.ErrQueryFailed.WithCause(err)
	}
}

// resolveHint navigates root through hint. An empty hint returns root.
func resolveHint(root element.Node, hint []string) (element.Node, error) {
	if root == nil {
		return nil, core.ErrElementNotFound.WithMessage("no root element")
	}
	if len(hint) == 0 {
		return root, nil
	}
	n, navErr := navigate(root, hint)
	if navErr != nil {
		return nil, core.ErrPathNotResolved.WithDetails(map[string]interface{}{
			"path":      strings.Join(hint, "/"),
			"component": navErr.Component,
			"reason":    navErr.Reason,
		})
	}
	return n, nil
}
