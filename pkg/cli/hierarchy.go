package cli

import (
	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/axlocator/pkg/hierarchy"
)

var hierarchyCommand = &cli.Command{
	Name:  "hierarchy",
	Usage: "Print the loaded element hierarchy",
	Description: `Print the snapshot as an indented tree, one element per line:
role, computed name, identifier, actions and element ID. Back-references
are printed once and not followed.

Examples:
  axlocator -f app.xml hierarchy
  axlocator -f app.yaml hierarchy --depth 2`,
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "depth",
			Usage: "Maximum depth to print (-1 = unlimited)",
			Value: -1,
		},
	},
	Action: runHierarchy,
}

func runHierarchy(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.close()

	var dumpErr error
	if err := s.engine.Do(s.ctx, func() { dumpErr = hierarchy.Dump(c.App.Writer, s.root, c.Int("depth")) }); err != nil {
		return err
	}
	return dumpErr
}
