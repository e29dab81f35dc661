// Package rules holds the closed tag vocabularies the aggregation engine
// recognizes: lift conveyance types, trail difficulties, and the tag keys
// they live under. Defaults follow the OSM piste/aerialway tagging scheme
// and can be overridden from a YAML profile.
package rules

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Tag keys consulted during aggregation.
const (
	TagPisteType       = "piste:type"
	TagPisteDifficulty = "piste:difficulty"
	TagPisteGrooming   = "piste:grooming"
	TagPisteWidth      = "piste:width"
	TagAerialway       = "aerialway"
)

// piste:type values with special meaning.
const (
	PisteDownhill  = "downhill"
	PisteFreestyle = "freestyle"
	PisteSled      = "sled"
	PisteTubing    = "tubing"
)

// DefaultTrailWidthM approximates the area of a linear trail when no width
// tag is present.
const DefaultTrailWidthM = 30.0

// defaultLiftTypes are the aerialway values that are actual ski lifts.
// Support infrastructure (stations, pylons, goods lifts) is deliberately
// excluded.
var defaultLiftTypes = []string{
	"chair_lift", "gondola", "cable_car", "drag_lift", "t-bar", "j-bar",
	"platter", "magic_carpet", "rope_tow", "mixed_lift",
}

// defaultDifficulties are the recognized piste:difficulty values, in report
// order. A blank or unrecognized difficulty still counts toward the trail
// total, just not toward a named bucket.
var defaultDifficulties = []string{
	"novice", "easy", "intermediate", "advanced", "expert", "freeride", "extreme",
}

// Profile is the active vocabulary. Construct with Default or Load; the
// lookup sets are derived once and the profile is read-only afterwards.
type Profile struct {
	LiftTypes    []string
	Difficulties []string
	TrailWidthM  float64

	liftSet map[string]bool
	diffSet map[string]bool
}

// Default returns the built-in OSM vocabulary.
func Default() *Profile {
	p := &Profile{
		LiftTypes:    defaultLiftTypes,
		Difficulties: defaultDifficulties,
		TrailWidthM:  DefaultTrailWidthM,
	}
	p.buildSets()
	return p
}

// profileFile is the YAML shape of a rules override file. Absent fields keep
// their defaults.
type profileFile struct {
	LiftTypes    []string `yaml:"lift_types"`
	Difficulties []string `yaml:"difficulties"`
	TrailWidthM  float64  `yaml:"trail_width_m"`
}

// Load reads a YAML profile and merges it over the defaults.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "rules: read profile %s", path)
	}

	var f profileFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrapf(err, "rules: parse profile %s", path)
	}

	p := Default()
	if len(f.LiftTypes) > 0 {
		p.LiftTypes = f.LiftTypes
	}
	if len(f.Difficulties) > 0 {
		p.Difficulties = f.Difficulties
	}
	if f.TrailWidthM > 0 {
		p.TrailWidthM = f.TrailWidthM
	}
	p.buildSets()
	return p, nil
}

func (p *Profile) buildSets() {
	p.liftSet = make(map[string]bool, len(p.LiftTypes))
	for _, t := range p.LiftTypes {
		p.liftSet[t] = true
	}
	p.diffSet = make(map[string]bool, len(p.Difficulties))
	for _, d := range p.Difficulties {
		p.diffSet[d] = true
	}
}

// IsLiftType reports whether the aerialway value names a real lift.
func (p *Profile) IsLiftType(aerialway string) bool {
	return p.liftSet[aerialway]
}

// NormalizeDifficulty lowercases and trims a difficulty value and reports
// whether it is one of the recognized buckets.
func (p *Profile) NormalizeDifficulty(raw string) (string, bool) {
	d := strings.ToLower(strings.TrimSpace(raw))
	return d, p.diffSet[d]
}

// LiftTypeLabel formats an aerialway value for display: chair_lift becomes
// "chair lift".
func LiftTypeLabel(aerialway string) string {
	return strings.ReplaceAll(aerialway, "_", " ")
}
