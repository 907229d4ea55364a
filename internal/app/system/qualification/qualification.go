// internal/app/system/qualification/qualification.go

// Package qualification defines the closed set of rank labels used across
// the organization and the projection of those labels onto the two-tier
// responsibility ladder (network responsible > group leader).
//
// Labels arrive from clients and legacy data with inconsistent case and
// accents ("responsable reseau", "REGULIER", ...). Normalize folds input
// once at the boundary so every store and aggregation works with exactly
// one canonical spelling per label.
package qualification

import (
	"github.com/dalemusser/waffle/pantry/text"
)

// Canonical qualification labels.
const (
	Twelve             = "12"
	HundredFortyFour   = "144"
	TierTwelveCubed    = "1728"
	Leader             = "Leader"
	NetworkResponsible = "Responsable réseau"
	Regular            = "Régulier"
	Irregular          = "Irrégulier"
	Integration        = "En intégration"
	Governance         = "Gouvernance"
	Ecodim             = "Ecodim"
	EcodimResponsible  = "Responsable ecodim"
)

// All lists every canonical label. Order matters for stable API output.
var All = []string{
	Twelve,
	HundredFortyFour,
	TierTwelveCubed,
	Leader,
	NetworkResponsible,
	Regular,
	Irregular,
	Integration,
	Governance,
	Ecodim,
	EcodimResponsible,
}

// canonical maps folded (lowercased, diacritics-stripped) spellings to the
// canonical label. Built once at init from All, so any case/accent variant
// of a canonical label normalizes correctly.
var canonical = func() map[string]string {
	m := make(map[string]string, len(All))
	for _, q := range All {
		m[text.Fold(q)] = q
	}
	return m
}()

// Normalize maps an input label to its canonical form. The second return
// is false when the label is not in the accepted set.
func Normalize(label string) (string, bool) {
	q, ok := canonical[text.Fold(label)]
	return q, ok
}

// IsValid reports whether label (in any accepted variant) is a known
// qualification.
func IsValid(label string) bool {
	_, ok := Normalize(label)
	return ok
}

// Rank is a position on the responsibility ladder. Labels outside the
// ladder (Gouvernance, Ecodim, numeric tiers, ...) project to RankNone and
// are therefore never touched by ladder transitions except by an explicit
// promotion.
type Rank int

const (
	RankNone Rank = iota
	RankLeader
	RankNetworkResponsible
)

// RankOf projects a label onto the responsibility ladder.
func RankOf(label string) Rank {
	q, ok := Normalize(label)
	if !ok {
		return RankNone
	}
	switch q {
	case Leader:
		return RankLeader
	case NetworkResponsible:
		return RankNetworkResponsible
	default:
		return RankNone
	}
}

// ResponsibleSet is the set of labels counted as "responsible" in global
// statistics.
var ResponsibleSet = []string{NetworkResponsible, Leader, Twelve, HundredFortyFour, TierTwelveCubed}

// IsolationExempt is the set of labels whose holders are never counted as
// isolated members even when they belong to no group.
var IsolationExempt = []string{NetworkResponsible, Governance, Ecodim, EcodimResponsible}
