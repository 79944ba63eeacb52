package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/thoreinstein/nixdeck/internal/errors"
)

var genDocCmd = &cobra.Command{
	Use:    "gen-doc",
	Short:  "Generate Markdown and man page documentation for the CLI",
	Hidden: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		outputDir, _ := cmd.Flags().GetString("dir")
		if outputDir == "" {
			return errors.New("output directory is required")
		}
		man, _ := cmd.Flags().GetBool("man")
		return generateDocs(cmd, outputDir, man)
	},
}

func init() {
	genDocCmd.Flags().StringP("dir", "d", "", "Output directory for documentation")
	genDocCmd.Flags().Bool("man", false, "Also generate man pages under <dir>/man")
	rootCmd.AddCommand(genDocCmd)
}

func generateDocs(cmd *cobra.Command, outputDir string, man bool) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	root := cmd.Root()
	root.DisableAutoGenTag = true

	if err := doc.GenMarkdownTreeCustom(root, outputDir, filePrepender, linkHandler); err != nil {
		return errors.Wrap(err, "generating markdown")
	}

	if man {
		manDir := filepath.Join(outputDir, "man")
		if err := os.MkdirAll(manDir, 0o755); err != nil {
			return errors.Wrap(err, "creating man directory")
		}
		header := &doc.GenManHeader{Title: "NIXDECK", Section: "1"}
		if err := doc.GenManTree(root, header, manDir); err != nil {
			return errors.Wrap(err, "generating man pages")
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Documentation generated in %s\n", outputDir)
	return nil
}

func filePrepender(filename string) string {
	name := filepath.Base(filename)
	base := strings.TrimSuffix(name, filepath.Ext(name))
	// nixdeck_snapshot_create.md -> nixdeck snapshot create
	title := strings.ReplaceAll(base, "_", " ")

	return fmt.Sprintf(`---
title: "%s"
description: "Reference for %s command"
draft: false
---
`, title, title)
}

func linkHandler(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return "/docs/reference/" + strings.ToLower(base) + "/"
}
