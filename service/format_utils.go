package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/pyted/domain"
	"github.com/ludo-technologies/pyted/internal/constants"
)

// EncodeJSON returns an indented JSON string for the given value.
func EncodeJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", domain.NewOutputError("failed to marshal JSON", err)
	}
	return string(data), nil
}

// WriteJSON writes indented JSON for the given value to the writer.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return domain.NewOutputError("failed to encode JSON", err)
	}
	return nil
}

// WriteYAML writes YAML for the given value to the writer.
func WriteYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return domain.NewOutputError("failed to encode YAML", err)
	}
	return nil
}

// Standard formatting constants
const (
	HeaderWidth    = 40
	LabelWidth     = 22
	SectionPadding = 2
)

// ANSI color codes for consistent color usage
const (
	ColorReset  = "\x1b[0m"
	ColorRed    = "\x1b[31m"
	ColorYellow = "\x1b[33m"
	ColorGreen  = "\x1b[32m"
	ColorBold   = "\x1b[1m"
)

// ChangeLevel buckets how far a patch moved away from the buggy code
type ChangeLevel string

const (
	ChangeNone     ChangeLevel = "None"
	ChangeMinor    ChangeLevel = "Minor"
	ChangeModerate ChangeLevel = "Moderate"
	ChangeMajor    ChangeLevel = "Major"
)

// Description explains the change level in one sentence
func (l ChangeLevel) Description() string {
	return constants.ChangeLevelDescriptions[string(l)]
}

// FormatUtils provides shared formatting utilities
type FormatUtils struct {
	color bool
}

// NewFormatUtils creates a new format utilities instance without colors
func NewFormatUtils() *FormatUtils {
	return &FormatUtils{}
}

// NewFormatUtilsWithColor creates a format utilities instance that colors change levels
func NewFormatUtilsWithColor(color bool) *FormatUtils {
	return &FormatUtils{color: color}
}

// FormatMainHeader creates a standardized main header
func (f *FormatUtils) FormatMainHeader(title string) string {
	var builder strings.Builder
	builder.WriteString(title + "\n")
	builder.WriteString(strings.Repeat("=", HeaderWidth) + "\n\n")
	return builder.String()
}

// FormatSectionHeader creates a standardized section header
func (f *FormatUtils) FormatSectionHeader(title string) string {
	var builder strings.Builder
	builder.WriteString(strings.ToUpper(title) + "\n")
	builder.WriteString(strings.Repeat("-", len(title)) + "\n")
	return builder.String()
}

// FormatSectionSeparator creates a standardized section separator
func (f *FormatUtils) FormatSectionSeparator() string {
	return "\n"
}

// FormatTableHeader creates a standardized table header
func (f *FormatUtils) FormatTableHeader(columns ...string) string {
	header := strings.Join(columns, "  ")
	separator := strings.Repeat("-", len(header))
	return header + "\n" + separator + "\n"
}

// FormatLabel creates a consistently formatted label with right alignment
func (f *FormatUtils) FormatLabel(label string, value interface{}) string {
	padding := LabelWidth - len(label)
	if padding < 0 {
		padding = 0
	}
	return fmt.Sprintf("%s%s: %v\n", strings.Repeat(" ", padding), label, value)
}

// FormatLabelWithIndent creates a formatted label with specific indentation
func (f *FormatUtils) FormatLabelWithIndent(indent int, label string, value interface{}) string {
	return fmt.Sprintf("%s%s: %v\n", strings.Repeat(" ", indent), label, value)
}

// FormatFloat renders a metric with the shortest exact representation
func (f *FormatUtils) FormatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// FormatPercentage formats a ratio in [0, 1] as a percentage
func (f *FormatUtils) FormatPercentage(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// ClassifyChange maps a relative patch size to a change level
func (f *FormatUtils) ClassifyChange(distance, relativePatchSize float64) ChangeLevel {
	switch {
	case distance == 0:
		return ChangeNone
	case relativePatchSize <= constants.DefaultMinorChangeThreshold:
		return ChangeMinor
	case relativePatchSize <= constants.DefaultModerateChangeThreshold:
		return ChangeModerate
	default:
		return ChangeMajor
	}
}

// FormatChange renders a change level, colored when enabled
func (f *FormatUtils) FormatChange(level ChangeLevel) string {
	if !f.color {
		return string(level)
	}
	color := ColorReset
	switch level {
	case ChangeNone, ChangeMinor:
		color = ColorGreen
	case ChangeModerate:
		color = ColorYellow
	case ChangeMajor:
		color = ColorRed
	}
	return color + string(level) + ColorReset
}

// FormatWarningsSection creates a standardized warnings section
func (f *FormatUtils) FormatWarningsSection(warnings []string) string {
	if len(warnings) == 0 {
		return ""
	}

	var builder strings.Builder
	builder.WriteString(f.FormatSectionHeader("Warnings"))
	for _, warning := range warnings {
		builder.WriteString(strings.Repeat(" ", SectionPadding) + "! " + warning + "\n")
	}
	builder.WriteString("\n")
	return builder.String()
}
