package cli

import (
	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/axlocator/pkg/action"
	"github.com/devicelab-dev/axlocator/pkg/element"
	"github.com/devicelab-dev/axlocator/pkg/report"
)

var performCommand = &cli.Command{
	Name:  "perform",
	Usage: "Resolve the target of an action and perform it",
	Description: `Search for an element that matches the locator and supports the action.
If none does, a smart fallback retries with the title or identifier as a
computed-name substring and succeeds only when exactly one candidate remains.
Snapshot elements record the action instead of acting on a live UI.

Examples:
  axlocator -f app.xml perform -c title=Save
  axlocator -f app.xml perform --role AXButton -c title=Save --action AXShowMenu`,
	Flags: withLocatorFlags(
		&cli.StringFlag{
			Name:    "action",
			Aliases: []string{"a"},
			Usage:   "Action to perform",
			Value:   element.ActionPress,
		},
	),
	Action: runPerform,
}

func runPerform(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.close()

	actionName := c.String("action")
	res := report.New("perform")
	res.Action = actionName

	loc, err := buildLocator(c, s.cfg.Env)
	if err != nil {
		return s.finish(c, res, err)
	}
	res.Locator = loc.Describe()

	resolution, err := action.Perform(s.ctx, s.engine, s.root, loc, actionName)
	if err == nil {
		err = s.addNodes(res, resolution.Node)
		if resolution.Fallback {
			res.SetFallback(resolution.Outcome)
		}
	}
	return s.finish(c, res, err)
}
