package retrieval

import (
	"reflect"
	"strings"
	"testing"
)

func TestTokenizeAndFilter(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "lowercases and trims punctuation",
			input: "Revenue, Growth!",
			want:  []string{"revenue", "growth"},
		},
		{
			name:  "removes stop words",
			input: "what is the revenue of the company",
			want:  []string{"revenue", "company"},
		},
		{
			name:  "drops short tokens",
			input: "go is ok but gradle builds lag",
			want:  []string{"gradle", "builds", "lag"},
		},
		{
			name:  "only stop words",
			input: "what is this about",
			want:  []string{},
		},
		{
			name:  "empty input",
			input: "",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenizeAndFilter(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tokenizeAndFilter(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOverlapScore(t *testing.T) {
	segment := strings.ToLower("Quarterly revenue grew twelve percent year over year")

	tests := []struct {
		name  string
		query string
		want  float64
	}{
		{"full overlap", "revenue grew", 1.0},
		{"half overlap", "revenue forecast", 0.5},
		{"no overlap", "employee headcount", 0.0},
		{"stop words ignored", "what is the revenue", 1.0},
		{"substring match", "percentage", 0.0},
		{"prefix token matches longer word", "percent", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := overlapScore(tokenizeAndFilter(tt.query), segment)
			if got != tt.want {
				t.Errorf("overlapScore(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestOverlapScoreEmptyQuery(t *testing.T) {
	segment := "some segment text"
	if got := overlapScore(nil, segment); got != 0 {
		t.Errorf("overlapScore(nil) = %v, want 0", got)
	}
	if got := overlapScore(tokenizeAndFilter("the of and"), segment); got != 0 {
		t.Errorf("overlapScore(stop words only) = %v, want 0", got)
	}
}

func TestOverlapScoreBounds(t *testing.T) {
	segment := "alpha beta"
	queries := []string{"alpha", "alpha beta", "alpha beta gamma delta", "unrelated words entirely"}

	for _, query := range queries {
		score := overlapScore(tokenizeAndFilter(query), segment)
		if score < 0 || score > 1 {
			t.Errorf("overlapScore(%q) = %v, out of [0, 1]", query, score)
		}
	}
}
