package recording

import "testing"

func sp(s string) *string { return &s }

func TestComputeScore_AllAbsent(t *testing.T) {
	r := &Recording{}
	if got := ComputeScore(r); got != 0 {
		t.Errorf("ComputeScore(empty) = %d, want 0", got)
	}
}

func TestComputeScore_SingleItem(t *testing.T) {
	r := &Recording{KCCQ2: sp("3")}
	if got := ComputeScore(r); got != 3 {
		t.Errorf("ComputeScore = %d, want 3", got)
	}
}

func TestComputeScore_SumsAllItems(t *testing.T) {
	r := &Recording{
		KCCQ1a: sp("1"), KCCQ1b: sp("2"), KCCQ1c: sp("3"),
		KCCQ15a: sp("4"), KCCQ16: sp("5"),
	}
	if got := ComputeScore(r); got != 15 {
		t.Errorf("ComputeScore = %d, want 15", got)
	}
}

func TestComputeScore_IgnoresNonNumerals(t *testing.T) {
	r := &Recording{
		KCCQ1a: sp("abc"),
		KCCQ1b: sp("-1"),
		KCCQ1c: sp("2.5"),
		KCCQ1d: sp("+3"),
		KCCQ1e: sp(""),
		KCCQ1f: sp("4"),
	}
	if got := ComputeScore(r); got != 4 {
		t.Errorf("ComputeScore = %d, want 4", got)
	}
}

func TestIsNumeral(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0", true},
		{"42", true},
		{"007", true},
		{"", false},
		{"-1", false},
		{"+1", false},
		{"1.5", false},
		{"1a", false},
		{" 1", false},
	}
	for _, tt := range tests {
		if got := isNumeral(tt.in); got != tt.want {
			t.Errorf("isNumeral(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
