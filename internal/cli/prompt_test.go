package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nanofab/reticle/pkg/gds"
)

func newTestPrompter(input string) (*prompter, *bytes.Buffer) {
	var out bytes.Buffer
	return newPrompter(strings.NewReader(input), &out), &out
}

func TestAsk(t *testing.T) {
	p, _ := newTestPrompter("  spaced answer  \n")
	got, err := p.ask("Question:")
	if err != nil {
		t.Fatal(err)
	}
	if got != "spaced answer" {
		t.Errorf("ask = %q, want trimmed %q", got, "spaced answer")
	}
}

func TestAskInputClosed(t *testing.T) {
	p, _ := newTestPrompter("")
	if _, err := p.ask("Question:"); !errors.Is(err, ErrInputClosed) {
		t.Errorf("err = %v, want ErrInputClosed", err)
	}
}

func TestScaleMode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"wafer short", "w\n", 4},
		{"wafer word", "WAFER\n", 4},
		{"reticle short", "r\n", 1},
		{"reticle word", "Reticle\n", 1},
		{"retry after garbage", "x\n\nw\n", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, out := newTestPrompter(tt.input)
			got, err := p.scaleMode()
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("scaleMode = %v, want %v", got, tt.want)
			}
			if strings.Contains(tt.name, "retry") && !strings.Contains(out.String(), "Invalid input") {
				t.Error("no retry message printed")
			}
		})
	}
}

func TestBarcode(t *testing.T) {
	p, out := newTestPrompter("not#valid\nthirteen_chars\nab12\n")
	got, err := p.barcode()
	if err != nil {
		t.Fatal(err)
	}
	if got != "AB12" {
		t.Errorf("barcode = %q, want normalized AB12", got)
	}
	for _, msg := range []string{"invalid character", "between 1 and 12 characters"} {
		if !strings.Contains(out.String(), msg) {
			t.Errorf("output does not mention %q:\n%s", msg, out.String())
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"merged\n", "merged.gds"},
		{"merged.gds\n", "merged.gds"},
		{"MERGED.GDS\n", "MERGED.GDS"},
		{"out/run2\n", "out/run2.gds"},
	}
	for _, tt := range tests {
		p, _ := newTestPrompter(tt.input)
		got, err := p.outputPath()
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("outputPath(%q) = %q, want %q", strings.TrimSpace(tt.input), got, tt.want)
		}
	}
}

func TestYesNo(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"No\n", false},
		{"maybe\ny\n", true},
	}
	for _, tt := range tests {
		p, _ := newTestPrompter(tt.input)
		got, err := p.yesNo("Proceed? (y/n):")
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("yesNo(%q) = %v, want %v", strings.TrimSpace(tt.input), got, tt.want)
		}
	}
}

func TestChooseCell(t *testing.T) {
	tops := []*gds.Cell{{Name: "ALPHA"}, {Name: "BETA"}, {Name: "GAMMA"}}

	p, out := newTestPrompter("abc\n9\n0\n2\n")
	got, err := p.chooseCell(tops)
	if err != nil {
		t.Fatal(err)
	}
	if got != "BETA" {
		t.Errorf("chooseCell = %q, want BETA", got)
	}
	if !strings.Contains(out.String(), "1: ALPHA") || !strings.Contains(out.String(), "3: GAMMA") {
		t.Errorf("menu not printed:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Invalid input") || !strings.Contains(out.String(), "Invalid number") {
		t.Errorf("re-prompt messages missing:\n%s", out.String())
	}
}

func TestLibraryRepromptsOnMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chip.gds")
	lib := gds.NewLibrary("CHIP")
	if _, err := lib.NewCell("TOP"); err != nil {
		t.Fatal(err)
	}
	if err := lib.WriteFile(path); err != nil {
		t.Fatal(err)
	}

	p, out := newTestPrompter(filepath.Join(dir, "nope.gds") + "\n" + path + "\n")
	got, gotPath, err := p.library("Enter path:")
	if err != nil {
		t.Fatal(err)
	}
	if gotPath != path {
		t.Errorf("path = %q, want %q", gotPath, path)
	}
	if _, ok := got.Cell("TOP"); !ok {
		t.Error("loaded library is missing its cell")
	}
	if !strings.Contains(out.String(), "was not found") {
		t.Errorf("no re-prompt for the missing file:\n%s", out.String())
	}
}

func TestLibraryFatalOnCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.gds")
	if err := os.WriteFile(path, []byte("this is not a stream file"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, _ := newTestPrompter(path + "\n")
	if _, _, err := p.library("Enter path:"); !errors.Is(err, gds.ErrBadStream) {
		t.Errorf("err = %v, want ErrBadStream", err)
	}
}
