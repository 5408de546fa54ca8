package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/nanofab/reticle/pkg/gds"
)

// inspectCommand creates the inspect command, a read-only listing of a
// GDS file's cells and layer usage. Useful for checking what a template
// or design contains before running a merge.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.gds>",
		Short: "List the cells and layers of a GDS file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd, args[0])
		},
	}
}

func (c *CLI) runInspect(cmd *cobra.Command, path string) error {
	out := cmd.OutOrStdout()

	lib, err := gds.ReadFile(path)
	if err != nil {
		return err
	}

	printInfo(out, "Library %q (%d cells)", lib.Name, len(lib.Cells()))

	top := make(map[string]bool)
	for _, cell := range lib.TopLevel() {
		top[cell.Name] = true
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	cells := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Cell", "Top", "Polygons", "Paths", "Texts", "References").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle()
		})
	for _, cell := range lib.Cells() {
		marker := ""
		if top[cell.Name] {
			marker = iconSuccess
		}
		cells.Row(cell.Name, marker,
			strconv.Itoa(len(cell.Boundaries)),
			strconv.Itoa(len(cell.Paths)),
			strconv.Itoa(len(cell.Texts)),
			strconv.Itoa(len(cell.References)))
	}
	fmt.Fprintln(out, cells.Render())

	counts := layerCounts(lib)
	layers := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Layer", "Datatype", "Elements").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle()
		})
	for _, ld := range gds.SortPairs(lib.LayerDatatypes()) {
		layers.Row(
			strconv.Itoa(int(ld.Layer)),
			strconv.Itoa(int(ld.Datatype)),
			strconv.Itoa(counts[ld]))
	}
	fmt.Fprintln(out, layers.Render())
	return nil
}

// layerCounts tallies elements per layer/datatype pair across all cells.
func layerCounts(lib *gds.Library) map[gds.LayerDatatype]int {
	counts := make(map[gds.LayerDatatype]int)
	for _, cell := range lib.Cells() {
		for _, b := range cell.Boundaries {
			counts[gds.LayerDatatype{Layer: b.Layer, Datatype: b.Datatype}]++
		}
		for _, p := range cell.Paths {
			counts[gds.LayerDatatype{Layer: p.Layer, Datatype: p.Datatype}]++
		}
		for _, t := range cell.Texts {
			counts[gds.LayerDatatype{Layer: t.Layer, Datatype: t.Texttype}]++
		}
	}
	return counts
}
