package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/axlocator/pkg/config"
	"github.com/devicelab-dev/axlocator/pkg/core"
	"github.com/devicelab-dev/axlocator/pkg/element"
	"github.com/devicelab-dev/axlocator/pkg/executor"
	"github.com/devicelab-dev/axlocator/pkg/hierarchy"
	"github.com/devicelab-dev/axlocator/pkg/logger"
	"github.com/devicelab-dev/axlocator/pkg/query"
	"github.com/devicelab-dev/axlocator/pkg/report"
)

// session holds everything a command needs: configuration, the loaded
// snapshot and a query engine bound to its own main queue.
type session struct {
	cfg     *config.Config
	source  string
	root    *hierarchy.Element
	queue   *executor.MainQueue
	engine  *query.Engine
	format  string
	output  string
	ctx     context.Context
	cancel  context.CancelFunc
	closers []func()
}

// openSession loads configuration, sets up logging and loads the snapshot.
// The caller must close the returned session.
func openSession(c *cli.Context) (*session, error) {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:    cfg,
		format: cfg.Output.Format,
		output: c.String("output"),
	}
	if c.IsSet("format") {
		s.format = c.String("format")
		if s.format != report.FormatJSON && s.format != report.FormatText {
			return nil, core.ErrInvalidConfig.WithMessage("unknown output format").WithDetails(map[string]interface{}{
				"format": s.format,
			})
		}
	}

	if err := s.initLogging(c); err != nil {
		return nil, err
	}

	s.source = c.String("hierarchy")
	if s.source == "" {
		s.source = cfg.Hierarchy
	}
	if s.source == "" {
		s.close()
		return nil, core.ErrHierarchyUnreadable.WithMessage("no hierarchy file given (use --hierarchy)")
	}

	root, err := hierarchy.Load(s.source)
	if err != nil {
		s.close()
		return nil, err
	}
	s.root = root

	opts := cfg.Search.Options()
	if c.IsSet("max-depth") {
		opts.MaxDepth = c.Int("max-depth")
		if opts.MaxDepth < 0 {
			s.close()
			return nil, core.ErrInvalidConfig.WithMessage("--max-depth must not be negative").WithDetails(map[string]interface{}{
				"maxDepth": opts.MaxDepth,
			})
		}
	}
	if c.IsSet("max-elements") {
		opts.MaxElements = c.Int("max-elements")
	}

	s.queue = executor.NewMainQueue()
	s.closers = append(s.closers, s.queue.Close)
	s.engine = query.NewEngine(s.queue, opts)

	if timeout := c.Duration("timeout"); timeout > 0 {
		s.ctx, s.cancel = context.WithTimeout(c.Context, timeout)
	} else {
		s.ctx, s.cancel = context.WithCancel(c.Context)
	}
	s.closers = append(s.closers, s.cancel)

	bounds := s.engine.Options()
	logger.Debug("loaded %s (max depth %d, max elements %d)", s.source, bounds.MaxDepth, bounds.MaxElements)
	return s, nil
}

func (s *session) initLogging(c *cli.Context) error {
	logFile := c.String("log-file")
	if logFile == "" {
		logFile = s.cfg.Log.File
	}

	switch {
	case logFile != "":
		if filepath.Base(logFile) == logFile {
			logFile = filepath.Join(config.GetLogDir(), logFile)
		}
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return core.ErrInvalidConfig.WithCause(err).WithDetails(map[string]interface{}{"logFile": logFile})
		}
		if err := logger.Init(logFile); err != nil {
			return core.ErrInvalidConfig.WithCause(err).WithDetails(map[string]interface{}{"logFile": logFile})
		}
	case c.Bool("verbose"):
		logger.InitWriter(c.App.ErrWriter, logger.ParseLevel(s.cfg.Log.Level))
	default:
		return nil
	}
	s.closers = append(s.closers, logger.Close)
	return nil
}

// finish completes the result, prints it and passes err through so the
// exit code reflects it.
func (s *session) finish(c *cli.Context, res *report.Result, err error) error {
	res.Source = s.source
	res.Finish(err)

	if err != nil {
		logger.Warn("%s failed: %v", res.Command, err)
	}
	if writeErr := report.Write(c.App.Writer, s.format, res); writeErr != nil {
		return writeErr
	}
	if s.output != "" {
		if writeErr := report.WriteFile(s.output, res); writeErr != nil {
			return writeErr
		}
	}
	return err
}

// addNodes flattens nodes into res on the main queue.
func (s *session) addNodes(res *report.Result, nodes ...element.Node) error {
	return s.engine.Do(s.ctx, func() { res.AddNodes(nodes...) })
}

func (s *session) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// loadConfig loads the explicit config file, else ./axlocator.yaml(.yml), else
// <home>/axlocator.yaml, else defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, wrapConfigError(err, path)
		}
		return cfg, nil
	}

	cfg, found, err := config.LoadFromDir(".")
	if err != nil {
		return nil, wrapConfigError(err, found)
	}
	if found != "" {
		return cfg, nil
	}

	if home := config.GetConfigPath(); fileExists(home) {
		cfg, err := config.Load(home)
		if err != nil {
			return nil, wrapConfigError(err, home)
		}
		return cfg, nil
	}
	return config.Default(), nil
}

// wrapConfigError gives read failures the config category; validation
// errors already carry it.
func wrapConfigError(err error, path string) error {
	if core.CategoryOf(err) == core.ErrCategoryConfig {
		return err
	}
	return core.ErrInvalidConfig.WithMessage("failed to load config").WithCause(err).WithDetails(map[string]interface{}{
		"path": path,
	})
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
