package landxml

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beetlebugorg/landxml/internal/parser"
)

// Resolver answers the interactive CRS questions. It is called synchronously
// from Parse; the call blocks until it returns.
type Resolver = parser.Resolver

// CRSChoice is a Resolver answer.
type CRSChoice = parser.CRSChoice

// Choice enumerates Resolver answers.
type Choice = parser.Choice

// Resolver answers.
const (
	ChoiceCancel     = parser.ChoiceCancel
	ChoiceKeepFile   = parser.ChoiceKeepFile
	ChoiceUseProject = parser.ChoiceUseProject
	ChoiceManual     = parser.ChoiceManual
)

// ResolveCRS applies the CRS policy of opts to a file and project code and
// returns the code a run would use. r may be nil.
func ResolveCRS(fileEPSG int, opts ParseOptions, r Resolver) int {
	internal := opts.internal()
	return parser.ResolveCRS(fileEPSG, opts.ProjectEPSG, opts.FallbackEPSG, internal.CRS, r)
}

// PromptResolver asks the CRS questions on a text stream, one answer per line.
type PromptResolver struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewPromptResolver reads answers from in and writes questions to out.
func NewPromptResolver(in io.Reader, out io.Writer) *PromptResolver {
	return &PromptResolver{in: bufio.NewScanner(in), out: out}
}

func (p *PromptResolver) readLine() (string, bool) {
	if !p.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(p.in.Text()), true
}

// ResolveConflict asks whether to keep the file CRS. An empty answer or
// anything starting with y keeps it; n switches to the project CRS. End of
// input cancels.
func (p *PromptResolver) ResolveConflict(fileEPSG, projectEPSG int) CRSChoice {
	fmt.Fprintf(p.out, "LandXML declares EPSG:%d but the project uses EPSG:%d. Keep the file CRS? [Y/n]: ", fileEPSG, projectEPSG)
	line, ok := p.readLine()
	if !ok {
		return CRSChoice{Choice: ChoiceCancel}
	}
	switch strings.ToLower(line) {
	case "", "y", "yes":
		return CRSChoice{Choice: ChoiceKeepFile}
	default:
		return CRSChoice{Choice: ChoiceUseProject}
	}
}

// ResolveMissing asks for an EPSG code. An empty or non-numeric answer
// cancels, which selects the fallback.
func (p *PromptResolver) ResolveMissing(fallbackEPSG int) CRSChoice {
	fmt.Fprintf(p.out, "No CRS in file or project. EPSG code [%d]: ", fallbackEPSG)
	line, ok := p.readLine()
	if !ok || line == "" {
		return CRSChoice{Choice: ChoiceCancel}
	}
	code, err := strconv.Atoi(strings.TrimPrefix(strings.ToUpper(line), "EPSG:"))
	if err != nil {
		return CRSChoice{Choice: ChoiceCancel}
	}
	return CRSChoice{Choice: ChoiceManual, EPSG: code}
}
