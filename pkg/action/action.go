// Package action resolves and performs UI actions on located elements.
package action

import (
	"context"
	"errors"

	"github.com/devicelab-dev/axlocator/pkg/core"
	"github.com/devicelab-dev/axlocator/pkg/element"
	"github.com/devicelab-dev/axlocator/pkg/locator"
	"github.com/devicelab-dev/axlocator/pkg/logger"
	"github.com/devicelab-dev/axlocator/pkg/query"
)

// Resolution describes how the target of an action was found.
type Resolution struct {
	Node     element.Node
	Fallback bool                  // Found by smart fallback rather than the locator itself
	Outcome  query.FallbackOutcome // Set when the fallback ran
}

// Resolve finds the element actionName should be performed on. The locator is
// searched with the action required; when that fails, a smart fallback search
// runs from the same starting node.
func Resolve(ctx context.Context, eng *query.Engine, root element.Node, loc locator.Locator, actionName string) (*Resolution, error) {
	if actionName == "" {
		return nil, core.ErrInvalidLocator.WithMessage("no action given")
	}

	direct := loc.Clone()
	direct.RequireAction = actionName
	node, err := eng.Find(ctx, root, direct)
	if err == nil {
		return &Resolution{Node: node}, nil
	}
	if !errors.Is(err, core.ErrElementNotFound) {
		return nil, err
	}

	fallbackNode, outcome, err := eng.Fallback(ctx, root, loc, actionName)
	if err != nil {
		return nil, err
	}

	details := map[string]interface{}{
		"locator": loc.Describe(),
		"action":  actionName,
	}
	switch outcome.Status {
	case query.FallbackResolved:
		logger.Info("resolved %s for %s by fallback (%s)", fallbackNode.ID(), actionName, outcome.Locator.Describe())
		return &Resolution{Node: fallbackNode, Fallback: true, Outcome: outcome}, nil
	case query.FallbackAmbiguous:
		details["candidates"] = len(outcome.Candidates)
		return nil, core.ErrAmbiguousTarget.WithDetails(details)
	}

	// Tell "matches but cannot do it" apart from "matches nothing".
	withoutAction := loc.Clone()
	withoutAction.RequireAction = ""
	_, err = eng.Find(ctx, root, withoutAction)
	switch {
	case err == nil:
		return nil, core.ErrActionNotSupported.WithDetails(details)
	case !errors.Is(err, core.ErrElementNotFound):
		return nil, err
	}
	return nil, core.ErrElementNotFound.WithDetails(details)
}

// Perform resolves the target and invokes actionName on it, on the engine's main queue.
func Perform(ctx context.Context, eng *query.Engine, root element.Node, loc locator.Locator, actionName string) (*Resolution, error) {
	res, err := Resolve(ctx, eng, root, loc, actionName)
	if err != nil {
		return nil, err
	}

	actor, ok := res.Node.(element.Actor)
	if !ok {
		return nil, core.ErrActionNotSupported.WithMessage("element cannot perform actions").WithDetails(map[string]interface{}{
			"element": string(res.Node.ID()),
			"action":  actionName,
		})
	}

	var actionErr error
	if err := eng.Do(ctx, func() { actionErr = actor.PerformAction(actionName) }); err != nil {
		return nil, err
	}
	if actionErr != nil {
		return nil, core.ErrActionFailed.WithCause(actionErr).WithDetails(map[string]interface{}{
			"element": string(res.Node.ID()),
			"action":  actionName,
		})
	}

	logger.Info("performed %s on %s", actionName, res.Node.ID())
	return res, nil
}
