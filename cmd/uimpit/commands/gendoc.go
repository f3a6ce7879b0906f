package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/thoreinstein/uimpit/cmd"
	"github.com/thoreinstein/uimpit/internal/errors"
	"github.com/thoreinstein/uimpit/internal/paths"
)

var (
	genDocDir    string
	genDocFormat string
)

var genDocCmd = &cobra.Command{
	Use:    "gen-doc",
	Short:  "Generate reference documentation for the CLI",
	Hidden: true,
	Args:   userArgs(cobra.NoArgs),
	RunE: func(c *cobra.Command, _ []string) error {
		return runGenDocWithWriter(c.OutOrStdout())
	},
}

func init() {
	genDocCmd.Flags().StringVarP(&genDocDir, "dir", "d", "", "Output directory for documentation")
	genDocCmd.Flags().StringVar(&genDocFormat, "format", "markdown", "markdown or man")
	rootCmd.AddCommand(genDocCmd)
}

func runGenDocWithWriter(w io.Writer) error {
	if genDocDir == "" {
		return errors.NewUserError(errors.New("output directory is required"), "Pass --dir")
	}
	if err := paths.EnsureDir(genDocDir, 0o755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	rootCmd.DisableAutoGenTag = true
	var err error
	switch genDocFormat {
	case "markdown", "md":
		err = doc.GenMarkdownTreeCustom(rootCmd, genDocDir, filePrepender, linkHandler)
	case "man":
		err = doc.GenManTree(rootCmd, &doc.GenManHeader{
			Title:   "UIMPIT",
			Section: "1",
			Source:  "uimpit " + cmd.Version,
		}, genDocDir)
	default:
		return errors.NewUserError(errors.Newf("unknown doc format %q", genDocFormat), "Use --format markdown or --format man")
	}
	if err != nil {
		return errors.Wrapf(err, "generating %s", genDocFormat)
	}

	fmt.Fprintf(w, "Documentation generated in %s\n", genDocDir)
	return nil
}

func filePrepender(filename string) string {
	name := filepath.Base(filename)
	base := strings.TrimSuffix(name, filepath.Ext(name))
	// uimpit_backup_list.md -> uimpit backup list
	title := strings.ReplaceAll(base, "_", " ")

	return fmt.Sprintf(`---
title: "%s"
description: "Reference for %s"
---
`, title, title)
}

func linkHandler(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return "/docs/reference/" + strings.ToLower(base) + "/"
}
