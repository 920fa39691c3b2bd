package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// DefaultFallbackEPSG is used when neither the document nor the host project
// supplies a coordinate reference system (ETRS89 / UTM zone 32N).
const DefaultFallbackEPSG = 25832

// Manually entered EPSG codes outside this range are treated as a cancel.
const (
	minManualEPSG = 1000
	maxManualEPSG = 999999
)

// CRSInfo describes the coordinate system declared in a LandXML document.
type CRSInfo struct {
	// EPSG is the declared code, 0 when absent or not numeric.
	EPSG int
	// Name is the first non-empty of the name, desc and ocs attributes.
	Name string
	// Message is a human-readable summary of what was found.
	Message string
}

// Declared reports whether the document declared a usable EPSG code.
func (c CRSInfo) Declared() bool {
	return c.EPSG != 0
}

// detectCRS reads the first CoordinateSystem element.
// The code may be spelled epsgCode or epsg.
func detectCRS(root *etree.Element) CRSInfo {
	cs := findFirst(root, pathCoordinateSystem)
	if cs == nil {
		return CRSInfo{Message: "no CoordinateSystem element in document"}
	}

	info := CRSInfo{Name: attrValue(cs, "name", "desc", "ocs")}
	prefix := "CoordinateSystem present"
	if info.Name != "" {
		prefix = "CoordinateSystem: " + info.Name
	}

	raw := strings.TrimSpace(attrValue(cs, "epsgCode", "epsg"))
	if raw == "" {
		info.Message = prefix + " | no epsgCode attribute"
		return info
	}
	code, err := strconv.Atoi(raw)
	if err != nil || code <= 0 {
		info.Message = fmt.Sprintf("%s | epsgCode not numeric: %q", prefix, raw)
		return info
	}
	info.EPSG = code
	info.Message = fmt.Sprintf("%s | EPSG=%d", prefix, code)
	return info
}

// Choice is an answer returned by a Resolver.
type Choice int

const (
	// ChoiceCancel dismisses the prompt; the documented default applies.
	ChoiceCancel Choice = iota
	// ChoiceKeepFile keeps the CRS declared in the document.
	ChoiceKeepFile
	// ChoiceUseProject switches to the host project's CRS.
	ChoiceUseProject
	// ChoiceManual supplies an EPSG code in CRSChoice.EPSG.
	ChoiceManual
)

// String returns the name of the choice.
func (c Choice) String() string {
	switch c {
	case ChoiceKeepFile:
		return "keep-file"
	case ChoiceUseProject:
		return "use-project"
	case ChoiceManual:
		return "manual"
	default:
		return "cancel"
	}
}

// CRSChoice is the outcome of an interactive CRS decision.
type CRSChoice struct {
	Choice Choice
	EPSG   int
}

// Resolver answers the two interactive CRS questions. Implementations block
// until the user answered; the core never prompts on its own.
type Resolver interface {
	// ResolveConflict is asked when the document and the project disagree.
	ResolveConflict(fileEPSG, projectEPSG int) CRSChoice

	// ResolveMissing is asked when neither document nor project has a CRS.
	ResolveMissing(fallbackEPSG int) CRSChoice
}

// CRSPolicy gates which CRS sources are trusted and which prompts may fire.
type CRSPolicy struct {
	PreferFile       bool
	PromptOnConflict bool
	PromptOnMissing  bool
}

// DefaultCRSPolicy enables every flag, matching the importer defaults.
func DefaultCRSPolicy() CRSPolicy {
	return CRSPolicy{PreferFile: true, PromptOnConflict: true, PromptOnMissing: true}
}

// ResolveCRS picks the single EPSG code stamped on every output collection.
//
// fileEPSG and projectEPSG are 0 when absent. fallbackEPSG is the guaranteed
// last resort; when it is 0 DefaultFallbackEPSG is used instead. A nil resolver
// answers every prompt with ChoiceCancel. The function always returns a code.
func ResolveCRS(fileEPSG, projectEPSG, fallbackEPSG int, policy CRSPolicy, r Resolver) int {
	if fallbackEPSG <= 0 {
		fallbackEPSG = DefaultFallbackEPSG
	}
	orFallback := func(code int) int {
		if code > 0 {
			return code
		}
		return fallbackEPSG
	}

	chosen := 0
	if policy.PreferFile && fileEPSG > 0 {
		chosen = fileEPSG
		if policy.PromptOnConflict && projectEPSG > 0 && projectEPSG != fileEPSG {
			answer := CRSChoice{Choice: ChoiceKeepFile}
			if r != nil {
				answer = r.ResolveConflict(fileEPSG, projectEPSG)
			}
			if answer.Choice != ChoiceKeepFile {
				chosen = orFallback(projectEPSG)
			}
		}
	}
	if chosen != 0 {
		return chosen
	}

	if policy.PromptOnMissing && projectEPSG <= 0 {
		if r == nil {
			return fallbackEPSG
		}
		answer := r.ResolveMissing(fallbackEPSG)
		if answer.Choice == ChoiceManual && answer.EPSG >= minManualEPSG && answer.EPSG <= maxManualEPSG {
			return answer.EPSG
		}
		return fallbackEPSG
	}
	return orFallback(projectEPSG)
}
