package qualification_test

import (
	"testing"

	"github.com/impactcentre/churchhub/internal/app/system/qualification"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{name: "canonical passes through", input: "Responsable réseau", want: qualification.NetworkResponsible, ok: true},
		{name: "uppercase no accents", input: "RESPONSABLE RESEAU", want: qualification.NetworkResponsible, ok: true},
		{name: "lowercase no accents", input: "regulier", want: qualification.Regular, ok: true},
		{name: "irregulier variant", input: "IRREGULIER", want: qualification.Irregular, ok: true},
		{name: "integration variant", input: "en integration", want: qualification.Integration, ok: true},
		{name: "numeric tier", input: "144", want: qualification.HundredFortyFour, ok: true},
		{name: "leader case-insensitive", input: "LEADER", want: qualification.Leader, ok: true},
		{name: "ecodim responsible", input: "responsable ECODIM", want: qualification.EcodimResponsible, ok: true},
		{name: "unknown label", input: "archange", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := qualification.Normalize(tt.input)
			if ok != tt.ok {
				t.Fatalf("Normalize(%q) ok: got %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("Normalize(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRankOf(t *testing.T) {
	tests := []struct {
		label string
		want  qualification.Rank
	}{
		{qualification.NetworkResponsible, qualification.RankNetworkResponsible},
		{qualification.Leader, qualification.RankLeader},
		{"LEADER", qualification.RankLeader},
		// Categorical and tier labels sit outside the ladder.
		{qualification.Governance, qualification.RankNone},
		{qualification.Ecodim, qualification.RankNone},
		{qualification.Twelve, qualification.RankNone},
		{qualification.Regular, qualification.RankNone},
		{"unknown", qualification.RankNone},
	}

	for _, tt := range tests {
		if got := qualification.RankOf(tt.label); got != tt.want {
			t.Errorf("RankOf(%q): got %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestRankOrdering(t *testing.T) {
	if !(qualification.RankNone < qualification.RankLeader && qualification.RankLeader < qualification.RankNetworkResponsible) {
		t.Error("ladder ordering broken: want RankNone < RankLeader < RankNetworkResponsible")
	}
}

func TestAllLabelsNormalizeToThemselves(t *testing.T) {
	for _, label := range qualification.All {
		got, ok := qualification.Normalize(label)
		if !ok || got != label {
			t.Errorf("Normalize(%q): got %q, %v; want identity", label, got, ok)
		}
	}
}
