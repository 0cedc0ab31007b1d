package shader

import (
	"fmt"
	"strings"
)

// DiagnosticCategory classifies a diagnostic record. Only categories in
// CategoryInstructionError and CategoryGlobalError affect the verdict;
// everything else is presentation only.
type DiagnosticCategory uint8

const (
	CategoryInstructionError DiagnosticCategory = iota
	CategoryGlobalError
	CategoryWarning
	CategoryInfo
)

func (c DiagnosticCategory) String() string {
	switch c {
	case CategoryInstructionError:
		return "error"
	case CategoryGlobalError:
		return "error"
	case CategoryWarning:
		return "warning"
	case CategoryInfo:
		return "info"
	default:
		return "unknown"
	}
}

func (c DiagnosticCategory) isError() bool {
	return c == CategoryInstructionError || c == CategoryGlobalError
}

// SpewLocation is the source file/line most recently supplied by an
// assembler comment frame, bound to the instruction active when a
// diagnostic was raised.
type SpewLocation struct {
	File string
	Line int
}

func (loc SpewLocation) known() bool {
	return loc.File != "" || loc.Line != 0
}

// Diagnostic is one sink record.
type Diagnostic struct {
	Category DiagnosticCategory
	Message  string
	Location SpewLocation
	// order is a stable ordering index, assigned at Report time.
	order int
}

// diagnosticSink accumulates Diagnostic records in report order and
// serializes them into a human-readable log. It never aborts on
// overflow -- there is no fixed capacity.
type diagnosticSink struct {
	records []Diagnostic
}

func (s *diagnosticSink) report(category DiagnosticCategory, loc SpewLocation, format string, args ...any) {
	s.records = append(s.records, Diagnostic{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
		order:    len(s.records),
	})
}

// hasError reports whether any recorded diagnostic is of an error
// category. Per spec.md this is the sole determinant of the verdict.
func (s *diagnosticSink) hasError() bool {
	for _, d := range s.records {
		if d.Category.isError() {
			return true
		}
	}
	return false
}

// requiredBufferSize returns the number of bytes writeLog would write.
func (s *diagnosticSink) requiredBufferSize() int {
	return len(s.renderLines())
}

func (s *diagnosticSink) renderLines() string {
	var b strings.Builder
	for _, d := range s.records {
		b.WriteString(formatDiagnostic(d))
		b.WriteByte('\n')
	}
	return b.String()
}

func formatDiagnostic(d Diagnostic) string {
	if d.Location.known() {
		return fmt.Sprintf("%s(%d): %s: %s", d.Location.File, d.Location.Line, d.Category, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Category, d.Message)
}

// writeLog serializes the diagnostic log into buf, returning the number
// of bytes written. If buf is too small the log is truncated; callers
// should size buf using requiredBufferSize first.
func (s *diagnosticSink) writeLog(buf []byte) int {
	rendered := s.renderLines()
	n := copy(buf, rendered)
	return n
}

// Log returns the fully rendered diagnostic log as a string. This is the
// Go-idiomatic equivalent of the required-size-then-serialize pattern;
// writeLog/requiredBufferSize remain available inside the package for
// code that manages its own buffers.
func (s *diagnosticSink) Log() string {
	return s.renderLines()
}
