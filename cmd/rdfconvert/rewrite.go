package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdf-convert/internal/fileio"
	"github.com/geoknoesis/rdf-convert/rdf"
)

func rewriteCmd(g *globalFlags) *cobra.Command {
	var base, label, output string
	cmd := &cobra.Command{
		Use:   "rewrite [file]",
		Short: "Rebase the default namespace of an existing triple stream",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("base") {
				cfg.BaseURI = base
			}
			if cmd.Flags().Changed("label") {
				cfg.Label = label
			}
			if cfg.BaseURI == "" {
				return errors.New("a base URI is required: use --base or base_uri in the config file")
			}
			if err := rdf.ValidateNamespace(cfg.BaseURI, cfg.NamespaceLabel()); err != nil {
				return err
			}

			input := fileio.StdioPath
			if len(args) == 1 {
				input = args[0]
			}
			var data []byte
			if input == fileio.StdioPath {
				data, err = fileio.ReadStream(cmd.InOrStdin(), "stdin", fileio.CompressionNone, cfg.Limits.MaxInputBytes)
			} else {
				data, err = fileio.ReadInput(input, cfg.Limits.MaxInputBytes)
			}
			if err != nil {
				return err
			}

			out := rdf.RewriteNamespaces(string(data), cfg.BaseURI, cfg.NamespaceLabel())
			logger.Debug("rewrote", "input", input, "bytes", len(data))
			if output == "" || output == fileio.StdioPath {
				if _, err := fmt.Fprint(cmd.OutOrStdout(), out); err != nil {
					return fmt.Errorf("%w: write stdout: %w", rdf.ErrIO, err)
				}
				return nil
			}
			return fileio.WriteOutput(output, []byte(out))
		},
	}
	cmd.Flags().StringVar(&base, "base", "", "base URI replacing the default namespace")
	cmd.Flags().StringVar(&label, "label", "", "namespace label inserted after the base URI")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
