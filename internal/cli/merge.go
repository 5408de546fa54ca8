package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/nanofab/reticle/pkg/gds"
	"github.com/nanofab/reticle/pkg/mask"
)

// mergeCommand creates the merge command: one interactive session that
// loads a template and a user design, resolves layer conflicts, stamps
// barcode annotations and writes the merged file.
func (c *CLI) mergeCommand() *cobra.Command {
	var (
		configPath string
		plain      bool
	)

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge a design into a reticle template and stamp its barcode",
		Long: `Merge runs one interactive session: it prompts for the ASML template
and the user design, resolves layer numbering conflicts, asks for the
cell, scale and barcode string, and writes the merged GDS file with a
scannable Code-39 barcode, a human-readable label and the build date.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMerge(cmd, configPath, plain)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML file overriding placement geometry")
	cmd.Flags().BoolVar(&plain, "plain", false, "numbered cell menu instead of the interactive picker")

	return cmd
}

func (c *CLI) runMerge(cmd *cobra.Command, configPath string, plain bool) error {
	out := cmd.OutOrStdout()
	p := newPrompter(cmd.InOrStdin(), out)

	geo, err := loadGeometry(configPath)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, StyleTitle.Render("--- ASML Reticle Merge and Barcode Generator ---"))

	template, templatePath, err := p.library("Enter the name of the ASML template GDS file:")
	if err != nil {
		return err
	}
	printSuccess(out, "Successfully loaded template %q.", templatePath)

	user, userPath, err := p.library("Enter the name of your personal design GDS file:")
	if err != nil {
		return err
	}
	printSuccess(out, "Successfully loaded your design %q.", userPath)

	// Structural checks before asking anything else; these mark an
	// unusable input file rather than a transient mistake.
	if _, ok := template.Cell(geo.DesignCell); !ok {
		return &mask.MissingCellError{Cell: geo.DesignCell}
	}
	tops := mask.TopCells(user)
	if len(tops) == 0 {
		return fmt.Errorf("%w in %q", mask.ErrNoTopCells, userPath)
	}

	res := mask.Resolve(user.LayerDatatypes(), template.LayerDatatypes(), geo.Reserved)
	if res.Remapped() {
		printWarning(out, "Layer conflict detected. Conflicting (layer, datatype) pairs: %s.", formatPairs(res.Conflicts))
		printDetail(out, "All template and barcode features will be moved to a new, safe layer: %d", res.TargetLayer)
	} else {
		printInfo(out, "No layer conflicts detected.")
	}

	topCell, err := c.selectTopCell(cmd, p, tops, plain)
	if err != nil {
		return err
	}

	scale, err := p.scaleMode()
	if err != nil {
		return err
	}
	barcode, err := p.barcode()
	if err != nil {
		return err
	}
	outputPath, err := p.outputPath()
	if err != nil {
		return err
	}
	mla, err := p.yesNo("Will this design be fabricated on the Nanolab's MLA150? (y/n):")
	if err != nil {
		return err
	}

	result, err := mask.Merge(template, user, mask.Options{
		TopCell:  topCell,
		Scale:    scale,
		Barcode:  barcode,
		MLA:      mla,
		Geometry: geo,
	})
	if err != nil {
		return err
	}
	printSuccess(out, "Added a %gx reference to %q into %q.", scale, result.TopCell, geo.DesignCell)
	printSuccess(out, "Barcode and labels added to cell %q.", geo.DesignCell)
	if mla {
		printInfo(out, "Created %q cell with the MLA150 transformations.", mask.MLACellName)
	}

	prog := newProgress(c.Logger)
	if err := template.WriteFile(outputPath); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Saved final design to %q", outputPath))
	printSuccess(out, "Successfully saved final design.")
	printFile(out, outputPath)
	return nil
}

// selectTopCell picks the user cell to merge: automatically when there is
// exactly one, via the bubbletea picker on a terminal, and via the
// numbered menu otherwise.
func (c *CLI) selectTopCell(cmd *cobra.Command, p *prompter, tops []*gds.Cell, plain bool) (string, error) {
	if len(tops) == 1 {
		printInfo(cmd.OutOrStdout(), "Using top-level cell %q.", tops[0].Name)
		return tops[0].Name, nil
	}
	if !plain {
		if f, ok := cmd.InOrStdin().(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			return selectCellTUI(tops)
		}
	}
	return p.chooseCell(tops)
}

func formatPairs(pairs []gds.LayerDatatype) string {
	parts := make([]string, len(pairs))
	for i, ld := range pairs {
		parts[i] = ld.String()
	}
	return strings.Join(parts, ", ")
}
