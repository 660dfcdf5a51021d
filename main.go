package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"lsmeta/internal/config"
	"lsmeta/internal/constants"
	"lsmeta/internal/fileinfo"
	"lsmeta/internal/logging"
	"lsmeta/internal/metadata"
	"lsmeta/internal/terminal"
)

// errNotFound makes the process exit with status 1 without printing anything
var errNotFound = errors.New("no comment found")

// app holds the state shared by all subcommands
type app struct {
	configPath string
	debug      bool
	noColor    bool

	cfg      *config.Config
	log      *logrus.Logger
	lister   *fileinfo.Lister
	comments *metadata.Chain
	terminal *terminal.Controller

	stdout io.Writer
	stderr io.Writer
}

// NewRootCommand creates the lsmeta command bound to the process console
func NewRootCommand() *cobra.Command {
	return newRootCommand(os.Stdout, os.Stderr, terminal.Default())
}

func newRootCommand(out, errOut io.Writer, ctrl *terminal.Controller) *cobra.Command {
	a := &app{
		terminal: ctrl,
		stdout:   out,
		stderr:   errOut,
	}

	var listOpts listFlags

	cmd := &cobra.Command{
		Use:           constants.ApplicationName + " [dir]",
		Short:         constants.ApplicationTitle,
		Long:          "lsmeta lists directory entries together with the comments attached to them\nby Directory Opus, file property sets, extended attributes or descript.ion files.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList(cmd.Context(), args, listOpts)
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to the configuration file")
	cmd.PersistentFlags().BoolVarP(&a.debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")
	listOpts.register(cmd)

	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return a.setup()
	}

	cmd.AddCommand(
		newListCmd(a),
		newCommentCmd(a),
		newColorCmd(a),
		newConfigCmd(a),
	)
	return cmd
}

// setup loads the configuration and wires the logger, comment sources and
// color mode
func (a *app) setup() error {
	manager := a.configManager()
	cfg, err := manager.Load()
	if err != nil {
		return fmt.Errorf("loading %s: %w", manager.Path(), err)
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Log, a.stderr)
	if err != nil {
		return err
	}
	if a.debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	logging.Install(logger)
	a.log = logger
	a.log.WithField("config", manager.Path()).Debug("configuration loaded")

	a.comments = a.commentSources()
	a.lister = fileinfo.NewLister(&fileinfo.RealFileSystem{}, a.comments, a.log)
	a.applyColorMode()
	return nil
}

// configManager honors --config, falling back to the per-user location
func (a *app) configManager() *config.Manager {
	if a.configPath != "" {
		return config.NewManagerWithPath(a.configPath)
	}
	return config.NewManager()
}

// commentSources builds the lookup chain: native metadata first, then the
// optional fallbacks
func (a *app) commentSources() *metadata.Chain {
	reader := metadata.NewReader(metadata.WithLogger(a.log))
	sources := []metadata.Source{
		metadata.BoundedSource{Reader: reader, Capacity: a.cfg.Metadata.BufferSize},
	}
	if a.cfg.Metadata.Xattr {
		sources = append(sources, metadata.NewXattrSource(a.cfg.Metadata.XattrName))
	}
	if a.cfg.Metadata.Descriptions {
		sources = append(sources, metadata.NewDescriptionSource(a.cfg.Metadata.DescriptionFile))
	}
	return metadata.NewChain(a.log, sources...)
}

func (a *app) applyColorMode() {
	mode := a.cfg.Display.Color
	if a.noColor {
		mode = constants.ColorNever
	}

	switch mode {
	case constants.ColorNever:
		color.NoColor = true
	case constants.ColorAlways:
		color.NoColor = false
		if runtime.GOOS == "windows" {
			a.terminal.EnableColor()
		}
	default:
		// The Windows console shows raw escapes unless VT processing is on
		if runtime.GOOS == "windows" && !color.NoColor {
			color.NoColor = !a.terminal.EnableColor()
		}
	}
	a.log.WithFields(logrus.Fields{"mode": mode, "noColor": color.NoColor}).Debug("color mode")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errNotFound) {
			fmt.Fprintf(os.Stderr, "%s: %v\n", constants.ApplicationName, err)
		}
		stop()
		os.Exit(1)
	}
}
