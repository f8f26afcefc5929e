package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theMackabu/ship/pkg/config"
	"github.com/theMackabu/ship/pkg/document"
	"github.com/theMackabu/ship/pkg/funcs"
	"github.com/theMackabu/ship/pkg/project"
	"github.com/theMackabu/ship/pkg/secret"
)

var renderLang string

var renderCmd = &cobra.Command{
	Use:   "render <document>",
	Short: "Evaluate one document and print it to stdout",
	Args:  cobra.ExactArgs(1),
	Example: `  # Render with the format from the document's meta block
  shipd render app.hcl

  # Force TOML output
  shipd render app.hcl --lang toml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := document.Load(args[0])
		if err != nil {
			return err
		}
		if err := doc.ResolveVariables(); err != nil {
			return err
		}
		if err := doc.ResolveMeta(); err != nil {
			return err
		}
		doc.DeclareBuiltins(Version)

		var secrets *secret.Client
		if cfg, err := config.Load(configPath); err == nil && cfg.Settings.VaultURL != "" {
			secrets = secret.New(cfg.Settings.VaultURL, cfg.Settings.VaultToken, nil)
		}

		lang := renderLang
		if lang == "" {
			lang = doc.Export
		}
		format, ok := project.ParseFormat(lang)
		if !ok {
			return fmt.Errorf("language not found: %q", lang)
		}

		tree, err := doc.Evaluate(funcs.NewRegistry(funcs.Options{Secrets: secrets}))
		if err != nil {
			return err
		}

		out, err := project.Render(format, tree)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderLang, "lang", "", "output format (json, yaml, toml)")
	rootCmd.AddCommand(renderCmd)
}
