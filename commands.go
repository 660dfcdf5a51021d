package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lsmeta/internal/constants"
	"lsmeta/internal/fileinfo"
	"lsmeta/internal/terminal"
	"lsmeta/internal/watcher"
)

type listFlags struct {
	match       string
	all         bool
	filesFirst  bool
	oldestFirst bool
	newestFirst bool
	hideLinks   bool
	noComments  bool
	watch       bool
	interval    time.Duration
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.match, "match", "p", "", "only list names matching a doublestar glob")
	cmd.Flags().BoolVarP(&f.all, "all", "a", false, "include hidden entries")
	cmd.Flags().BoolVarP(&f.filesFirst, "files-first", "F", false, "list files before directories")
	cmd.Flags().BoolVarP(&f.oldestFirst, "oldest-first", "m", false, "sort by modification time, oldest first")
	cmd.Flags().BoolVarP(&f.newestFirst, "newest-first", "M", false, "sort by modification time, newest first")
	cmd.Flags().BoolVarP(&f.hideLinks, "hide-links", "L", false, "do not show symlink targets")
	cmd.Flags().BoolVar(&f.noComments, "no-comments", false, "skip comment lookup")
	cmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "keep listing whenever entries or comments change")
	cmd.Flags().DurationVar(&f.interval, "interval", constants.DefaultWatchInterval, "polling interval for --watch")
	cmd.MarkFlagsMutuallyExclusive("oldest-first", "newest-first")
}

func (f listFlags) sortOrder() fileinfo.SortOrder {
	switch {
	case f.oldestFirst:
		return fileinfo.SortOldestFirst
	case f.newestFirst:
		return fileinfo.SortNewestFirst
	default:
		return fileinfo.SortByName
	}
}

func newListCmd(a *app) *cobra.Command {
	var flags listFlags
	cmd := &cobra.Command{
		Use:     "list [dir]",
		Aliases: []string{"ls"},
		Short:   "List entries with their comments",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList(cmd.Context(), args, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) runList(ctx context.Context, args []string, flags listFlags) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	opts := fileinfo.ListOptions{
		Pattern:          flags.match,
		ShowHidden:       flags.all || a.cfg.Display.ShowHidden,
		DirectoriesFirst: a.cfg.Display.DirectoriesFirst,
		FilesFirst:       flags.filesFirst,
		SortBy:           flags.sortOrder(),
		SkipComments:     flags.noComments,
	}
	hideLinks := flags.hideLinks || a.cfg.Display.HideLinks

	if !flags.watch {
		files, err := a.lister.List(dir, opts)
		if err != nil {
			return err
		}
		a.printListing(files, hideLinks)
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}
	w := watcher.NewDirectoryWatcher(freshLister{a}, dir, opts, flags.interval, a.log)
	files, err := w.Snapshot()
	if err != nil {
		return err
	}
	a.printListing(files, hideLinks)

	err = w.Run(ctx, func(files []fileinfo.FileInfo, changes watcher.Changes) {
		fmt.Fprintf(a.stdout, "\n%s\n", color.New(color.Faint).Sprintf("-- %s: %d added, %d deleted, %d changed",
			time.Now().Format(time.TimeOnly), len(changes.Added), len(changes.Deleted), len(changes.Modified)))
		a.printListing(files, hideLinks)
	})
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// freshLister drops cached description files before every listing so a
// watch sees edits to them
type freshLister struct{ a *app }

func (l freshLister) List(dir string, opts fileinfo.ListOptions) ([]fileinfo.FileInfo, error) {
	l.a.comments.Reset()
	return l.a.lister.List(dir, opts)
}

// printListing writes one line per entry followed by a totals line:
//
//	<mtime>  <size>  <attributes>  <name>  [@<link target>]  [<comment>]
func (a *app) printListing(files []fileinfo.FileInfo, hideLinks bool) {
	nameWidth, sizeWidth := 0, 0
	sizes := make([]string, len(files))
	for i, f := range files {
		nameWidth = max(nameWidth, utf8.RuneCountInString(f.Name))
		sizes[i] = a.formatSize(f)
		sizeWidth = max(sizeWidth, len(sizes[i]))
	}

	width := 0
	if a.cfg.Display.ElideComments {
		width = terminal.Width()
	}
	timeFormat := a.cfg.Display.TimeFormat

	for i, f := range files {
		prefix := fmt.Sprintf("%s  %*s  %s  ", f.Modified.Format(timeFormat), sizeWidth, sizes[i], f.Attributes)
		line := prefix + nameColor(f.FileType).Sprint(f.Name)
		column := utf8.RuneCountInString(prefix) + nameWidth + 2

		var extras []string
		if f.LinkTarget != "" && !hideLinks {
			target := "@" + f.LinkTarget
			extras = append(extras, color.New(color.FgCyan).Sprint(target))
			column += utf8.RuneCountInString(target) + 2
		}
		if f.Comment != "" {
			comment := f.Comment
			if width > 0 {
				comment = elide(comment, width-column)
			}
			extras = append(extras, color.New(color.FgYellow).Sprint(comment))
		}
		if len(extras) > 0 {
			line += strings.Repeat(" ", nameWidth-utf8.RuneCountInString(f.Name)) + "  " + strings.Join(extras, "  ")
		}
		fmt.Fprintln(a.stdout, line)
	}

	fmt.Fprintf(a.stdout, "\n%s\n", a.totals(files))
}

// totals summarizes the byte count of the files and the number of entries
func (a *app) totals(files []fileinfo.FileInfo) string {
	var total int64
	nFiles, nDirs := 0, 0
	for _, f := range files {
		if f.IsDir {
			nDirs++
			continue
		}
		nFiles++
		total += f.Size
	}

	size := fileinfo.FormatInteger(total) + " bytes"
	if a.cfg.Display.CompactSizes {
		size = fileinfo.FormatFileSize(total)
	}
	return fmt.Sprintf("%s in %s and %s", size, plural(nFiles, "file"), plural(nDirs, "dir"))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func (a *app) formatSize(f fileinfo.FileInfo) string {
	if f.IsDir {
		return "<DIR>"
	}
	if a.cfg.Display.CompactSizes {
		return fileinfo.FormatFileSize(f.Size)
	}
	return fileinfo.FormatInteger(f.Size)
}

func nameColor(ft fileinfo.FileType) *color.Color {
	switch ft {
	case fileinfo.FileTypeDirectory:
		return color.New(color.FgBlue, color.Bold)
	case fileinfo.FileTypeSymlink:
		return color.New(color.FgCyan)
	case fileinfo.FileTypeHidden:
		return color.New(color.Faint)
	default:
		return color.New(color.Reset)
	}
}

// elide shortens s to at most width runes, marking the cut
func elide(s string, width int) string {
	// Comments may span lines; listings are one line per entry
	s = strings.Join(strings.Fields(s), " ")
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-1]) + constants.ElisionMarker
}

func newCommentCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "comment PATH...",
		Short: "Print the comment attached to each path",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			found := 0
			for _, path := range args {
				fi, err := a.lister.Stat(path)
				if err != nil {
					a.log.WithError(err).Warn("cannot read path")
					continue
				}
				if fi.Comment == "" {
					continue
				}
				found++
				if len(args) > 1 {
					fmt.Fprintf(a.stdout, "%s: %s\n", color.New(color.Bold).Sprint(path), fi.Comment)
				} else {
					fmt.Fprintln(a.stdout, fi.Comment)
				}
			}
			if found == 0 {
				return errNotFound
			}
			return nil
		},
	}
}

func newColorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "color [status|on|off]",
		Short:     "Report or toggle console virtual-terminal processing",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"status", "on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			action := "status"
			if len(args) > 0 {
				action = args[0]
			}

			switch action {
			case "on", "off":
				enable := action == "on"
				if !a.terminal.EnableColorSupport(enable) {
					return fmt.Errorf("cannot turn color support %s", action)
				}
			}

			fmt.Fprintf(a.stdout, "supported: %s\nenabled:   %s\n",
				yesNo(a.terminal.HasColorSupport()), yesNo(a.terminal.IsColorSupportEnabled()))
			return nil
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or change the configuration file",
		// Skips the full setup so a broken file can still be repaired
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				fmt.Fprintln(a.stdout, a.configManager().Path())
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				manager := a.configManager()
				cfg, err := manager.Load()
				if err != nil {
					return fmt.Errorf("loading %s: %w", manager.Path(), err)
				}
				data, err := json.MarshalIndent(cfg, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, string(data))
				return nil
			},
		},
		&cobra.Command{
			Use:     "set KEY VALUE",
			Short:   "Change one setting, e.g. display.compactSizes false",
			Example: "  lsmeta config set metadata.bufferSize 4096",
			Args:    cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				manager := a.configManager()
				if _, err := manager.Set(args[0], args[1]); err != nil {
					return fmt.Errorf("updating %s: %w", manager.Path(), err)
				}
				fmt.Fprintf(a.stdout, "%s = %s\n", args[0], args[1])
				return nil
			},
		},
	)
	return cmd
}
