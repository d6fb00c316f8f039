package config

// TargetConfig holds per-target overrides for a single scan target.
// Zero values mean "use the global setting".
type TargetConfig struct {
	// Threshold overrides the global similarity threshold for this target.
	Threshold float64 `yaml:"threshold,omitempty"`

	// Strategy overrides the candidate generation strategy for this target.
	Strategy string `yaml:"strategy,omitempty"`

	// CandidateCap overrides the global candidate cap for this target.
	CandidateCap int `yaml:"candidateCap,omitempty"`

	// Notes is attached to findings for this target in reports.
	Notes string `yaml:"notes,omitempty"`
}

// File represents the structure of the .clonescan configuration file.
type File struct {
	// Targets maps domain names to their per-target overrides.
	Targets map[string]TargetConfig `yaml:"targets,omitempty"`

	// Defaults applies to all targets unless overridden.
	Defaults TargetConfig `yaml:"defaults,omitempty"`
}

// GetTargetConfig returns the merged configuration for a target:
// defaults overlaid with any target-specific values.
func (cf *File) GetTargetConfig(domain string) TargetConfig {
	result := cf.Defaults

	if tc, ok := cf.Targets[domain]; ok {
		if tc.Threshold != 0 {
			result.Threshold = tc.Threshold
		}
		if tc.Strategy != "" {
			result.Strategy = tc.Strategy
		}
		if tc.CandidateCap != 0 {
			result.CandidateCap = tc.CandidateCap
		}
		if tc.Notes != "" {
			result.Notes = tc.Notes
		}
	}
	return result
}
