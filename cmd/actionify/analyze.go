package main

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-analysis/internal/domain/entities"
	"github.com/johnquangdev/meeting-analysis/internal/usecase/export"
	"github.com/johnquangdev/meeting-analysis/pkg/jobcontext"
)

type analyzeOptions struct {
	text     string
	name     string
	format   string
	sections string
	out      string
	copy     bool
}

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

func newAnalyzeCmd(a *app) *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze a recording or transcript and print the report",
		Long: "Analyze a recording, or a transcript given with --text (use \"-\" to read stdin),\n" +
			"and print the report. Nothing is kept once the command exits.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.analyze(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.text, "text", "t", "", "Transcript text to analyze, \"-\" reads stdin")
	f.StringVarP(&opts.name, "name", "n", "", "Display name used in the report")
	f.StringVarP(&opts.format, "format", "f", "text", "Report format: text, markdown, json or pdf")
	f.StringVarP(&opts.sections, "sections", "s", "", "Comma separated sections, all when empty")
	f.StringVarP(&opts.out, "out", "o", "", "Write the report to a file instead of stdout")
	f.BoolVarP(&opts.copy, "copy", "c", false, "Copy the report to the clipboard")
	return cmd
}

func (a *app) analyze(cmd *cobra.Command, args []string, opts analyzeOptions) error {
	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	sel, err := export.ParseSections(opts.sections)
	if err != nil {
		return err
	}
	if format == export.FormatPDF && opts.out == "" {
		return fmt.Errorf("--out is required for pdf reports")
	}
	if format == export.FormatPDF && opts.copy {
		return fmt.Errorf("pdf reports cannot be copied to the clipboard")
	}

	input, closeInput, err := readAnalyzeInput(cmd.InOrStdin(), args, opts)
	if err != nil {
		return err
	}
	defer closeInput()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	d, err := newPipeline(ctx, a.cfg, a.logger, input.IsFile())
	if err != nil {
		return err
	}

	ctx, cancel := jobcontext.RunBegin(ctx, input.ID, string(input.Kind), a.cfg.Pipeline.Timeout)
	defer cancel()

	var result *entities.MeetingAnalysis
	err = jobcontext.RunEnd(ctx, func(ctx context.Context) error {
		var err error
		result, err = d.pipeline.Run(ctx, input, func(p entities.Progress) {
			fmt.Fprintf(cmd.ErrOrStderr(), "[%3d%%] %s\n", p.Percent, p.Step)
		})
		return err
	})
	if err != nil {
		return err
	}

	body, err := export.Render(result, format, sel)
	if err != nil {
		return err
	}

	if opts.out != "" {
		if err := os.WriteFile(opts.out, body, 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		a.logger.Info("📄 Report written", zap.String("path", opts.out), zap.String("format", string(format)))
	} else {
		if _, err := cmd.OutOrStdout().Write(body); err != nil {
			return err
		}
	}

	if opts.copy {
		if err := writeClipboard(string(body)); err != nil {
			return fmt.Errorf("failed to copy report: %w", err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "📋 Report copied to clipboard")
	}
	return nil
}

// readAnalyzeInput builds the RawInput from either the file argument or
// --text. Exactly one of them must be given.
func readAnalyzeInput(stdin io.Reader, args []string, opts analyzeOptions) (*entities.RawInput, func(), error) {
	noop := func() {}

	switch {
	case len(args) == 1 && opts.text != "":
		return nil, noop, fmt.Errorf("give either a file or --text, not both")
	case len(args) == 1:
		f, err := os.Open(args[0])
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, noop, err
		}
		if info.Size() == 0 {
			f.Close()
			return nil, noop, fmt.Errorf("%s is empty", args[0])
		}
		name := opts.name
		if name == "" {
			name = filepath.Base(args[0])
		}
		return entities.NewFileInput(name, f, info.Size(), contentTypeOf(f, args[0])), func() { f.Close() }, nil
	case opts.text == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to read stdin: %w", err)
		}
		if strings.TrimSpace(string(b)) == "" {
			return nil, noop, fmt.Errorf("stdin is empty")
		}
		return entities.NewTextInput(string(b), opts.name), noop, nil
	case strings.TrimSpace(opts.text) != "":
		return entities.NewTextInput(opts.text, opts.name), noop, nil
	default:
		return nil, noop, fmt.Errorf("either a file or --text is required")
	}
}

func contentTypeOf(f *os.File, name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	head := make([]byte, 512)
	n, _ := f.Read(head)
	_, _ = f.Seek(0, io.SeekStart)
	return http.DetectContentType(head[:n])
}
