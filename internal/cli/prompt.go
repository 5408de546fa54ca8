package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nanofab/reticle/pkg/code39"
	"github.com/nanofab/reticle/pkg/gds"
	"github.com/nanofab/reticle/pkg/mask"
)

// ErrInputClosed is returned when stdin ends mid-session. The session
// cannot continue without an operator, so this aborts without output.
var ErrInputClosed = errors.New("input closed before the session finished")

// prompter runs the blocking question/answer loops of a merge session.
// Every loop keeps re-asking on recoverable mistakes and only returns an
// error for conditions the operator cannot fix by retyping.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// ask prints label and returns the operator's trimmed response line.
func (p *prompter) ask(label string) (string, error) {
	fmt.Fprint(p.out, stylePrompt.Render(label)+" ")
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", ErrInputClosed
	}
	return strings.TrimSpace(line), nil
}

// library asks for a GDS file path until one loads. A missing file
// re-prompts; any other load failure is fatal for the session.
func (p *prompter) library(label string) (*gds.Library, string, error) {
	for {
		path, err := p.ask(label)
		if err != nil {
			return nil, "", err
		}
		lib, err := gds.ReadFile(path)
		if os.IsNotExist(err) {
			printError(p.out, "The file %q was not found. Please try again.", path)
			continue
		}
		if err != nil {
			return nil, "", err
		}
		return lib, path, nil
	}
}

// chooseCell presents a numbered 1-based menu of top-level cells and
// returns the chosen cell's name. Invalid indices and non-numeric input
// re-prompt.
func (p *prompter) chooseCell(tops []*gds.Cell) (string, error) {
	fmt.Fprintln(p.out, "Multiple top-level cells found. Please choose one:")
	for i, c := range tops {
		fmt.Fprintf(p.out, "  %d: %s\n", i+1, c.Name)
	}
	label := fmt.Sprintf("Enter number of the cell to merge (1-%d):", len(tops))
	for {
		answer, err := p.ask(label)
		if err != nil {
			return "", err
		}
		idx, err := strconv.Atoi(answer)
		if err != nil {
			printError(p.out, "Invalid input %q. Please enter a number.", answer)
			continue
		}
		if idx < 1 || idx > len(tops) {
			printError(p.out, "Invalid number %d.", idx)
			continue
		}
		return tops[idx-1].Name, nil
	}
}

// scaleMode asks whether the design is at wafer (4x) or reticle (1x)
// scale and returns the magnification.
func (p *prompter) scaleMode() (float64, error) {
	for {
		answer, err := p.ask("Is your design at [w]afer scale or [r]eticle scale? (w/r):")
		if err != nil {
			return 0, err
		}
		switch strings.ToLower(answer) {
		case "w", "wafer":
			printInfo(p.out, "Applying 4x magnification for wafer scale.")
			return mask.ScaleWafer, nil
		case "r", "reticle":
			printInfo(p.out, "Applying 1x magnification for reticle scale.")
			return mask.ScaleReticle, nil
		default:
			printError(p.out, "Invalid input %q. Please enter 'w' or 'r'.", answer)
		}
	}
}

// barcode asks for a barcode string until it validates, echoing the
// specific validation failure. The returned string is upper-cased.
func (p *prompter) barcode() (string, error) {
	for {
		answer, err := p.ask("Enter barcode (1-12 alphanumeric characters):")
		if err != nil {
			return "", err
		}
		normalized := code39.Normalize(answer)
		if _, err := code39.Encode(normalized); err != nil {
			printError(p.out, "%v. Please use only %s.", err, code39.Alphabet())
			continue
		}
		printSuccess(p.out, "Barcode %q is valid.", normalized)
		return normalized, nil
	}
}

// outputPath asks for the output file name, appending the .gds suffix
// when absent.
func (p *prompter) outputPath() (string, error) {
	path, err := p.ask("Enter name for the final output file (e.g., 'merged.gds'):")
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(strings.ToLower(path), ".gds") {
		path += ".gds"
	}
	return path, nil
}

// yesNo asks a y/n question, re-prompting on anything else.
func (p *prompter) yesNo(label string) (bool, error) {
	for {
		answer, err := p.ask(label)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			printError(p.out, "Invalid input %q. Please enter 'y' or 'n'.", answer)
		}
	}
}
