package cli

import (
	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/axlocator/pkg/core"
	"github.com/devicelab-dev/axlocator/pkg/element"
	"github.com/devicelab-dev/axlocator/pkg/report"
	"github.com/devicelab-dev/axlocator/pkg/script"
)

var findCommand = &cli.Command{
	Name:  "find",
	Usage: "Print the first element matching a locator",
	Description: `Search the hierarchy depth-first and print the first element that
matches every criterion (and supports --require-action, if given).

Examples:
  axlocator -f app.xml find --role AXButton -c title=Save
  axlocator -f app.xml find -c identifier=save-button --require-action AXPress
  axlocator -f app.xml find --path 'AXWindow[1]' -c computed_name_contains=Save
  axlocator -f app.xml find -l save.yaml -e DOC=Untitled`,
	Flags:  withLocatorFlags(),
	Action: runFind,
}

var collectCommand = &cli.Command{
	Name:  "collect",
	Usage: "Print every element matching a locator",
	Description: `Collect all matching elements in document order, up to --max-elements.
--where filters the matches with a JavaScript expression over "el".

Examples:
  axlocator -f app.xml collect --role AXButton
  axlocator -f app.xml collect --role '*' -c enabled=false --max-elements 20
  axlocator -f app.xml collect --role AXButton --where 'el.can("AXPress") && el.title != ""'`,
	Flags: withLocatorFlags(
		&cli.IntFlag{
			Name:  "max-elements",
			Usage: "Maximum number of elements to collect (overrides config)",
		},
		&cli.StringFlag{
			Name:    "where",
			Aliases: []string{"w"},
			Usage:   "JavaScript predicate over el, e.g. 'el.enabled && el.childCount == 0'",
		},
	),
	Action: runCollect,
}

// withLocatorFlags returns the locator flags followed by extra.
func withLocatorFlags(extra ...cli.Flag) []cli.Flag {
	flags := make([]cli.Flag, 0, len(locatorFlags)+len(extra))
	flags = append(flags, locatorFlags...)
	return append(flags, extra...)
}

func runFind(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.close()

	res := report.New("find")
	loc, err := buildLocator(c, s.cfg.Env)
	if err != nil {
		return s.finish(c, res, err)
	}
	res.Locator = loc.Describe()

	node, err := s.engine.Find(s.ctx, s.root, loc)
	if err == nil {
		err = s.addNodes(res, node)
	}
	return s.finish(c, res, err)
}

func runCollect(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.close()

	res := report.New("collect")
	loc, err := buildLocator(c, s.cfg.Env)
	if err != nil {
		return s.finish(c, res, err)
	}
	res.Locator = loc.Describe()

	nodes, err := s.engine.FindAll(s.ctx, s.root, loc)
	if err != nil {
		return s.finish(c, res, err)
	}

	if where := c.String("where"); where != "" {
		nodes, err = s.filter(nodes, where, mergeEnv(s.cfg.Env, parseEnvVars(c.StringSlice("env"))))
		if err != nil {
			return s.finish(c, res, err)
		}
	}

	return s.finish(c, res, s.addNodes(res, nodes...))
}

// filter evaluates the --where predicate on the main queue.
func (s *session) filter(nodes []element.Node, expr string, vars map[string]string) ([]element.Node, error) {
	engine := script.New()
	for k, v := range vars {
		engine.SetVariable(k, v)
	}

	var kept []element.Node
	var filterErr error
	if err := s.engine.Do(s.ctx, func() { kept, filterErr = engine.Filter(nodes, expr) }); err != nil {
		return nil, err
	}
	if filterErr != nil {
		return nil, core.ErrInvalidLocator.WithMessage("--where expression failed").WithCause(filterErr).WithDetails(map[string]interface{}{
			"where": expr,
		})
	}
	return kept, nil
}
