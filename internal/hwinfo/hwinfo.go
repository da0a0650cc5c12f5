// Package hwinfo reads the system identification strings used by device
// detection: manufacturer, model, family, version and processor name.
package hwinfo

import "strings"

// Fingerprint holds the identification strings of the running hardware.
// Empty fields mean the corresponding query did not return a value.
type Fingerprint struct {
	Manufacturer string
	Model        string
	Family       string
	Version      string
	Processor    string
}

// MatchesAny reports whether any of the system strings (manufacturer, model,
// family, version) contains one of the given substrings, case-insensitively.
func (f Fingerprint) MatchesAny(substrings ...string) bool {
	fields := []string{f.Manufacturer, f.Model, f.Family, f.Version}
	for _, field := range fields {
		lower := strings.ToLower(field)
		for _, sub := range substrings {
			if sub != "" && strings.Contains(lower, strings.ToLower(sub)) {
				return true
			}
		}
	}

	return false
}

// ModelMatches reports whether the model string contains one of the given
// substrings, case-insensitively.
func (f Fingerprint) ModelMatches(substrings ...string) bool {
	lower := strings.ToLower(f.Model)
	for _, sub := range substrings {
		if sub != "" && strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}

	return false
}

// ProcessorMatches reports whether the processor name contains one of the
// given substrings, case-insensitively.
func (f Fingerprint) ProcessorMatches(substrings ...string) bool {
	lower := strings.ToLower(f.Processor)
	for _, sub := range substrings {
		if sub != "" && strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}

	return false
}
