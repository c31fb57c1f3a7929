// Package gen contains the dataset generation pipeline: the randomized
// train/dev/test country splitter, the per-variant sample builder, and the
// orchestrator that drives both across datasets and writes the results.
package gen

import "fmt"

// Setting selects how much location information is withheld from the
// evaluation-target countries and their neighbors.
//
//	S1: subregions are disclosed for every country; regions are hidden for
//	    targets only.
//	S2: both region and subregion are hidden for targets.
//	S3: like S2, and additionally the region is hidden for every neighbor of
//	    a target, forcing multi-hop inference.
type Setting string

const (
	SettingS1 Setting = "S1"
	SettingS2 Setting = "S2"
	SettingS3 Setting = "S3"
)

// ParseSetting validates and normalizes a problem-setting name.
func ParseSetting(s string) (Setting, error) {
	switch Setting(s) {
	case SettingS1, SettingS2, SettingS3:
		return Setting(s), nil
	}
	return "", fmt.Errorf("unknown problem setting %q (want S1, S2, or S3)", s)
}
