package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/Alijeyrad/eunoia_backend/pkg/constants"
)

func NewGenDocsCommand() *cobra.Command {
	var (
		outDir string
		format string
	)

	cmd := &cobra.Command{
		Use:   "gendocs",
		Short: "Generate CLI reference documentation",
		Long: `Generate reference pages for every eunoia command, as Markdown (default)
or man pages. Output goes to ./docs/cli unless --outdir is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir == "" {
				outDir = "docs/cli"
			}
			abs, err := filepath.Abs(outDir)
			if err != nil {
				return fmt.Errorf("failed to resolve %q: %w", outDir, err)
			}
			if err := os.MkdirAll(abs, 0o755); err != nil {
				return fmt.Errorf("failed to create docs directory %q: %w", abs, err)
			}

			root := cmd.Root()
			root.DisableAutoGenTag = true

			switch format {
			case "md", "markdown":
				err = doc.GenMarkdownTree(root, abs)
			case "man":
				err = doc.GenManTree(root, &doc.GenManHeader{
					Title:   constants.AppName,
					Section: "1",
					Source:  constants.AppDisplayName,
				}, abs)
			default:
				return fmt.Errorf("unknown format %q (use md or man)", format)
			}
			if err != nil {
				return fmt.Errorf("failed to generate CLI docs: %w", err)
			}

			fmt.Printf("CLI docs (%s) generated in %s\n", format, abs)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "outdir", "docs/cli", "Output directory for generated CLI docs")
	cmd.Flags().StringVar(&format, "format", "md", "Output format: md or man")

	return cmd
}
