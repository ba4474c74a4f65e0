package cli

import (
	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/axlocator/pkg/core"
	"github.com/devicelab-dev/axlocator/pkg/locator"
	"github.com/devicelab-dev/axlocator/pkg/report"
)

var navigateCommand = &cli.Command{
	Name:      "navigate",
	Usage:     "Resolve a Role[Index] path from the root",
	ArgsUsage: "<Role[Index]>...",
	Description: `Walk the path one component at a time. Indices are 1-based and count
only children with the given role; AXWindow components index the
application's windows.

Examples:
  axlocator -f app.xml navigate 'AXWindow[1]/AXToolbar[1]/AXButton[2]'
  axlocator -f app.xml navigate 'AXWindow[1]' 'AXGroup[3]'`,
	Action: runNavigate,
}

func runNavigate(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.close()

	res := report.New("navigate")
	var path []string
	for _, arg := range c.Args().Slice() {
		path = append(path, locator.SplitPath(arg)...)
	}
	if len(path) == 0 {
		return s.finish(c, res, core.ErrInvalidLocator.WithMessage("no path given"))
	}
	res.Path = path

	node, err := s.engine.NavigateTo(s.ctx, s.root, path)
	if err == nil {
		err = s.addNodes(res, node)
	}
	return s.finish(c, res, err)
}
