package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/k0kubun/pp"
	"github.com/urfave/cli/v3"

	"github.com/starford/quire/internal/compile"
	"github.com/starford/quire/internal/dispatch"
	"github.com/starford/quire/internal/document"
	"github.com/starford/quire/internal/render"
)

func stderrLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// readSource reads the file named by the first argument; "-" reads stdin.
func readSource(cmd *cli.Command) (string, []byte, error) {
	name := cmd.Args().First()
	if name == "" {
		return "", nil, errors.New("missing source file argument")
	}
	if name == "-" {
		data, err := io.ReadAll(os.Stdin)
		return "stdin", data, err
	}
	data, err := os.ReadFile(name)
	return name, data, err
}

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Compile one source file and write it in the chosen format",
		ArgsUsage: "<file.qdoc|->",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "html, markdown, text or terminal (defaults to render.format)"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Write to this file instead of stdout"},
			&cli.BoolFlag{Name: "strict", Usage: "Fail on the first rejected event"},
			&cli.IntFlag{Name: "width", Usage: "Wrap width for terminal output"},
			&cli.StringFlag{Name: "style", Usage: "Terminal style: dark, light or notty (default dark)"},
		},
		Action: runRender,
	}
}

func runRender(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd, false)
	if err != nil {
		return err
	}
	logger := stderrLogger(cfg.App.LogLevel)

	opts := cfg.Render.Options()
	if f := cmd.String("format"); f != "" {
		if opts.Format, err = render.ParseFormat(f); err != nil {
			return err
		}
	}
	if w := cmd.Int("width"); w > 0 {
		opts.Width = int(w)
	}
	if s := cmd.String("style"); s != "" {
		opts.Style = s
	}

	name, data, err := readSource(cmd)
	if err != nil {
		return err
	}
	out, err := compile.Source(data, compile.Options{
		Strict: cfg.Render.Strict || cmd.Bool("strict"),
		Logger: logger.With(slog.String("path", name)),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	body, err := out.Render(opts)
	if err != nil {
		return err
	}

	if err := writeOutput(cmd.String("out"), body); err != nil {
		return err
	}

	logger.Info("rendered",
		slog.String("path", name),
		slog.String("format", string(opts.Format)),
		slog.String("size", humanize.Bytes(uint64(len(body)))),
		slog.Int("items", out.Stats.Items),
		slog.Int("diagnostics", len(out.Diagnostics)))
	return nil
}

// writeOutput writes body to path, or to stdout when path is empty.
func writeOutput(path, body string) error {
	if path == "" {
		_, err := io.WriteString(os.Stdout, body)
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(f, body); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// inspection is the value dumped by the inspect command.
type inspection struct {
	Title       string
	Tags        []string
	Checksum    string
	Source      string
	Stats       document.Stats
	Diagnostics []dispatch.Diagnostic
	Tree        *document.Document
}

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Dump the normalised tree, stats and diagnostics of a source file",
		ArgsUsage: "<file.qdoc|->",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "no-color", Usage: "Disable colored output"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			name, data, err := readSource(cmd)
			if err != nil {
				return err
			}
			out, err := compile.Source(data, compile.Options{Logger: stderrLogger(slog.LevelError)})
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			pp.ColoringEnabled = !cmd.Bool("no-color")
			_, err = pp.Fprintln(os.Stdout, inspection{
				Title:       out.Title,
				Tags:        out.Tags,
				Checksum:    out.Checksum,
				Source:      fmt.Sprintf("%s (%s)", name, humanize.Bytes(uint64(len(data)))),
				Stats:       out.Stats,
				Diagnostics: out.Diagnostics,
				Tree:        out.Document,
			})
			return err
		},
	}
}
