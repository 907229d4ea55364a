package stats

import "testing"

func TestParseYearsParam(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		year1   int
		year2   int
		wantErr bool
	}{
		{name: "valid pair", raw: "2023,2024", year1: 2023, year2: 2024},
		{name: "spaces tolerated", raw: " 2022 , 2023 ", year1: 2022, year2: 2023},
		{name: "missing", raw: "", wantErr: true},
		{name: "single year", raw: "2024", wantErr: true},
		{name: "three years", raw: "2022,2023,2024", wantErr: true},
		{name: "non-numeric", raw: "2023,abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y1, y2, err := parseYearsParam(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %d,%d", tt.raw, y1, y2)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if y1 != tt.year1 || y2 != tt.year2 {
				t.Errorf("got %d,%d, want %d,%d", y1, y2, tt.year1, tt.year2)
			}
		})
	}
}
