package cli

import (
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/axlocator/pkg/core"
	"github.com/devicelab-dev/axlocator/pkg/locator"
	"github.com/devicelab-dev/axlocator/pkg/script"
)

// locatorFlags are shared by every command that takes a locator.
var locatorFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "locator",
		Aliases: []string{"l"},
		Usage:   "Locator YAML file; other locator flags override it",
	},
	&cli.StringFlag{
		Name:    "role",
		Aliases: []string{"r"},
		Usage:   "Role to match (AXButton, * for any)",
	},
	&cli.StringSliceFlag{
		Name:    "criteria",
		Aliases: []string{"c"},
		Usage:   "Criterion KEY=VALUE (repeatable), e.g. title=Save, computed_name_contains=Save",
	},
	&cli.StringFlag{
		Name:  "path",
		Usage: "Path hint searched from, e.g. AXWindow[1]/AXGroup[2]",
	},
	&cli.StringFlag{
		Name:  "require-action",
		Usage: "Action the element must support (AXPress)",
	},
	&cli.StringSliceFlag{
		Name:    "env",
		Aliases: []string{"e"},
		Usage:   "Variables for ${...} in criteria values (KEY=VALUE)",
	},
}

// buildLocator assembles a locator from --locator and the criteria flags, and
// expands ${...} in criteria values with config and --env variables.
func buildLocator(c *cli.Context, env map[string]string) (locator.Locator, error) {
	var loc locator.Locator
	if path := c.String("locator"); path != "" {
		parsed, err := locator.ParseFile(path)
		if err != nil {
			return locator.Locator{}, core.ErrInvalidLocator.WithCause(err).WithDetails(map[string]interface{}{"path": path})
		}
		loc = *parsed
	}
	if loc.Criteria == nil {
		loc.Criteria = make(map[string]string)
	}

	if role := c.String("role"); role != "" {
		loc.Criteria[locator.KeyRole] = role
	}
	for _, kv := range c.StringSlice("criteria") {
		key, value, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return locator.Locator{}, core.ErrInvalidLocator.WithMessage("criterion must be KEY=VALUE").WithDetails(map[string]interface{}{
				"criterion": kv,
			})
		}
		loc.Criteria[key] = value
	}
	if path := c.String("path"); path != "" {
		loc.RootPathHint = locator.SplitPath(path)
	}
	if action := c.String("require-action"); action != "" {
		loc.RequireAction = action
	}

	if loc.IsEmpty() {
		return locator.Locator{}, core.ErrInvalidLocator.WithMessage("no criteria given (use --role, --criteria, --path or --locator)")
	}

	vars := mergeEnv(env, parseEnvVars(c.StringSlice("env")))
	if len(vars) > 0 {
		expandCriteria(loc.Criteria, vars)
	}
	return loc, nil
}

// expandCriteria replaces ${...} expressions in criteria values in place.
func expandCriteria(criteria map[string]string, vars map[string]string) {
	engine := script.New()
	for k, v := range vars {
		engine.SetVariable(k, v)
	}

	keys := make([]string, 0, len(criteria))
	for k := range criteria {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.Contains(criteria[k], "${") {
			criteria[k] = engine.ExpandVariables(criteria[k])
		}
	}
}

func parseEnvVars(envs []string) map[string]string {
	result := make(map[string]string)
	for _, e := range envs {
		parts := strings.SplitN(e, "=", 2)
		if len(parts) == 2 {
			result[parts[0]] = parts[1]
		}
	}
	return result
}

// mergeEnv overlays the later maps on the earlier ones.
func mergeEnv(maps ...map[string]string) map[string]string {
	merged := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			merged[k] = v
		}
	}
	return merged
}
