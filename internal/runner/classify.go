package runner

import (
	"debug/elf"
	"fmt"
	"strings"
)

// FailureCategory classifies why an invocation (or a surrounding
// orchestration step) failed.
type FailureCategory int

// Failure categories, from preflight through decode.
const (
	FailureNone FailureCategory = iota
	FailureExecutableNotFound
	FailurePermissionDenied
	FailureTimedOut
	FailureMissingLibrary
	FailureDisplayInit
	FailureReprojection
	FailureMissingFile
	FailureOutputMissing
	FailureParse
	FailureUnknown
)

// String returns a stable, human-readable category name.
func (c FailureCategory) String() string {
	switch c {
	case FailureNone:
		return "None"
	case FailureExecutableNotFound:
		return "ExecutableNotFound"
	case FailurePermissionDenied:
		return "PermissionDenied"
	case FailureTimedOut:
		return "TimedOut"
	case FailureMissingLibrary:
		return "MissingLibraryDependency"
	case FailureDisplayInit:
		return "DisplayInitFailure"
	case FailureReprojection:
		return "ReprojectionFailure"
	case FailureMissingFile:
		return "MissingFile"
	case FailureOutputMissing:
		return "OutputMissing"
	case FailureParse:
		return "ParseError"
	default:
		return "Unknown"
	}
}

// classifyRule maps a lowercase substring of process output to a category.
type classifyRule struct {
	substr   string
	category FailureCategory
}

// classifyRules is evaluated in order, first match wins. This is a
// best-effort diagnostic layer over free-form tool output, not a
// correctness contract. Extend by appending rules, not by branching.
var classifyRules = []classifyRule{
	{"cannot open shared object file", FailureMissingLibrary},
	{"error while loading shared libraries", FailureMissingLibrary},
	{"dyld: library not loaded", FailureMissingLibrary},
	{"permission denied", FailurePermissionDenied},
	{"operation not permitted", FailurePermissionDenied},
	{"no such file or directory", FailureMissingFile},
	{"unable to open file", FailureMissingFile},
	{"cannot open display", FailureDisplayInit},
	{"could not initialize glfw", FailureDisplayInit},
	{"failed to initialize glfw", FailureDisplayInit},
	{"glxbadcontext", FailureDisplayInit},
	{"reprojection failed", FailureReprojection},
	{"could not reproject", FailureReprojection},
}

// Classify inspects captured stdout and stderr against the ordered rule
// list and returns the first matching category, or FailureUnknown when
// nothing matches. Safe on arbitrary bytes.
func Classify(stdout, stderr string) FailureCategory {
	haystack := strings.ToLower(stderr + "\n" + stdout)
	for _, rule := range classifyRules {
		if strings.Contains(haystack, rule.substr) {
			return rule.category
		}
	}
	return FailureUnknown
}

// probeBinaryFormat describes the executable's binary format, to enrich an
// otherwise silent failure (e.g. a 32-bit binary on a 64-bit-only system).
// Best effort: returns "" when the file cannot be inspected.
func probeBinaryFormat(path string) string {
	f, err := elf.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	return fmt.Sprintf("ELF %s %s", f.Class, f.Machine)
}
