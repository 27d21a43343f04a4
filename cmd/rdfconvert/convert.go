package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/geoknoesis/rdf-convert/internal/config"
	"github.com/geoknoesis/rdf-convert/internal/fileio"
	"github.com/geoknoesis/rdf-convert/rdf"
)

type convertFlags struct {
	base         string
	label        string
	format       string
	outputFormat string
	output       string
	stream       bool
	jobs         int
	jsonc        bool
	strictBase   bool
	maxDepth     int
	maxTriples   int64
	validate     bool
}

func convertCmd(g *globalFlags) *cobra.Command {
	f := &convertFlags{}
	cmd := &cobra.Command{
		Use:   "convert [files...]",
		Short: "Convert XML or JSON documents into a rebased triple stream",
		Long: `Convert XML or JSON documents into triples whose IRIs live under --base.

With no files, or "-", the document is read from stdin. Files ending in .gz, .zst
or .lz4 are decompressed; an --output ending in one of those is compressed.
With several inputs --output names a directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.load(cmd)
			if err != nil {
				return err
			}
			if err := f.apply(cmd.Flags(), cfg); err != nil {
				return err
			}
			if len(args) == 0 {
				args = []string{fileio.StdioPath}
			}
			return runConvert(cmd, cfg, f, logger, args)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&f.base, "base", "", "base URI replacing the default namespace")
	fs.StringVar(&f.label, "label", "", "namespace label inserted after the base URI")
	fs.StringVar(&f.format, "format", "", "input format: auto, xml or json")
	fs.StringVar(&f.outputFormat, "output-format", "", "output format: ntriples, jsonld or canonical")
	fs.StringVarP(&f.output, "output", "o", "", "output file, or directory for several inputs (default stdout)")
	fs.BoolVar(&f.stream, "stream", false, "append triples to the output file as they are produced")
	fs.IntVar(&f.jobs, "jobs", 0, "number of files converted concurrently")
	fs.BoolVar(&f.jsonc, "jsonc", false, "accept comments and trailing commas in JSON input")
	fs.BoolVar(&f.strictBase, "strict-base", false, "require an absolute base IRI")
	fs.IntVar(&f.maxDepth, "max-depth", 0, "maximum nesting depth (0 disables)")
	fs.Int64Var(&f.maxTriples, "max-triples", 0, "maximum triples per document (0 disables)")
	fs.BoolVar(&f.validate, "validate", false, "check that the output parses as N-Triples")
	return cmd
}

// apply overlays explicitly set flags onto cfg.
func (f *convertFlags) apply(fs *pflag.FlagSet, cfg *config.Config) error {
	if fs.Changed("base") {
		cfg.BaseURI = f.base
	}
	if fs.Changed("label") {
		cfg.Label = f.label
	}
	if fs.Changed("format") {
		cfg.Format = f.format
	}
	if fs.Changed("output-format") {
		cfg.OutputFormat = f.outputFormat
	}
	if fs.Changed("jobs") {
		cfg.Jobs = f.jobs
	}
	if fs.Changed("max-depth") {
		cfg.Limits.MaxDepth = f.maxDepth
	}
	if fs.Changed("max-triples") {
		cfg.Limits.MaxTriples = f.maxTriples
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.BaseURI == "" {
		return errors.New("a base URI is required: use --base or base_uri in the config file")
	}
	if f.stream {
		if f.output == "" || f.output == fileio.StdioPath {
			return errors.New("--stream needs --output")
		}
		if cfg.Output() != rdf.OutputNTriples {
			return errors.New("--stream only writes ntriples")
		}
		if fileio.CompressionFromPath(f.output) != fileio.CompressionNone {
			return errors.New("--stream cannot write compressed output")
		}
	}
	return nil
}

func (f *convertFlags) options(ctx context.Context, cfg *config.Config) []rdf.Option {
	opts := append(cfg.Options(), rdf.OptContext(ctx))
	if f.jsonc {
		opts = append(opts, rdf.OptAllowJSONComments())
	}
	if f.strictBase {
		opts = append(opts, rdf.OptStrictBaseIRI())
	}
	return opts
}

// converter runs one conversion per input.
type converter struct {
	cmd    *cobra.Command
	cfg    *config.Config
	flags  *convertFlags
	logger hclog.Logger
}

func runConvert(cmd *cobra.Command, cfg *config.Config, f *convertFlags, logger hclog.Logger, inputs []string) error {
	c := &converter{cmd: cmd, cfg: cfg, flags: f, logger: logger}
	multi := len(inputs) > 1
	if multi && f.output != "" {
		if err := os.MkdirAll(f.output, 0o755); err != nil {
			return fmt.Errorf("%w: create %s: %w", rdf.ErrIO, f.output, err)
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(cfg.Jobs)

	// Results for stdout are collected and printed in input order.
	results := make([][]byte, len(inputs))
	for i, input := range inputs {
		group.Go(func() error {
			dest := c.destination(input, multi)
			out, err := c.convertOne(ctx, input, dest)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			results[i] = out
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	for _, out := range results {
		if _, err := stdout.Write(out); err != nil {
			return fmt.Errorf("%w: write stdout: %w", rdf.ErrIO, err)
		}
	}
	return nil
}

// destination returns the output path for input, or "" for stdout.
func (c *converter) destination(input string, multi bool) string {
	out := c.flags.output
	if out == "" || out == fileio.StdioPath {
		return ""
	}
	if !multi {
		return out
	}
	name := filepath.Base(fileio.StripCompressionExt(input))
	name = strings.TrimSuffix(name, filepath.Ext(name)) + outputExt(c.cfg.Output())
	return filepath.Join(out, name)
}

func outputExt(f rdf.OutputFormat) string {
	switch f {
	case rdf.OutputJSONLD:
		return ".jsonld"
	case rdf.OutputCanonical:
		return ".nq"
	default:
		return ".nt"
	}
}

// convertOne converts input and writes it to dest. With an empty dest the
// rendered bytes are returned for the caller to print.
func (c *converter) convertOne(ctx context.Context, input, dest string) ([]byte, error) {
	start := time.Now()
	data, err := c.read(input)
	if err != nil {
		return nil, err
	}
	format := c.inputFormat(input)
	label := c.cfg.NamespaceLabel()
	opts := c.flags.options(ctx, c.cfg)

	if c.flags.stream {
		if err := c.stream(dest, format, data, opts); err != nil {
			return nil, err
		}
		c.logger.Debug("converted", "input", input, "output", dest, "bytes", len(data), "duration", time.Since(start))
		return nil, nil
	}

	if c.flags.validate {
		if err := c.validate(format, data, opts); err != nil {
			return nil, err
		}
	}
	out, err := rdf.Render(c.cfg.Output(), format, data, c.cfg.BaseURI, label, opts...)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("converted", "input", input, "output", dest, "bytes", len(data), "duration", time.Since(start))
	if dest == "" {
		return out, nil
	}
	return nil, fileio.WriteOutput(dest, out)
}

func (c *converter) read(input string) ([]byte, error) {
	if input == fileio.StdioPath {
		return fileio.ReadStream(c.cmd.InOrStdin(), "stdin", fileio.CompressionNone, c.cfg.Limits.MaxInputBytes)
	}
	return fileio.ReadInput(input, c.cfg.Limits.MaxInputBytes)
}

// inputFormat prefers the configured format, then the file extension, then sniffing.
func (c *converter) inputFormat(input string) rdf.InputFormat {
	format := c.cfg.InputFormat()
	if format != rdf.InputAuto || input == fileio.StdioPath {
		return format
	}
	if byExt, err := rdf.InputFormatFromPath(input); err == nil {
		return byExt
	}
	return rdf.InputAuto
}

// stream appends rebased triples to dest as they are produced.
func (c *converter) stream(dest string, format rdf.InputFormat, data []byte, opts []rdf.Option) error {
	w, err := rdf.OpenFileWriter(dest)
	if err != nil {
		return err
	}
	err = rdf.StreamConvert(w, format, data, c.cfg.BaseURI, c.cfg.NamespaceLabel(), opts...)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if c.flags.validate {
		return c.validate(format, data, opts)
	}
	return nil
}

// validate checks that the converted triples form valid N-Triples. Literals are
// escaped strictly for the check, so values spanning lines do not fail it.
func (c *converter) validate(format rdf.InputFormat, data []byte, opts []rdf.Option) error {
	strict, err := rdf.ConvertNTriples(format, data, c.cfg.BaseURI, c.cfg.NamespaceLabel(), opts...)
	if err != nil {
		return err
	}
	return rdf.ValidateNTriples(strict)
}
