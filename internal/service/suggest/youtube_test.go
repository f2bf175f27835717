package suggest

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		iso  string
		want string
	}{
		{"PT4M32S", "4:32"},
		{"PT1H2M3S", "1:2:3"},
		{"PT45S", "45"},
		{"PT10M", "10:"},
		{"PT2H", "2:"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.iso); got != tt.want {
			t.Fatalf("FormatDuration(%q): expected %q, got %q", tt.iso, tt.want, got)
		}
	}
}

func TestFormatViews(t *testing.T) {
	tests := []struct {
		views uint64
		want  string
	}{
		{1_500_000, "1M"},
		{2_000_000, "2M"},
		{750_000, "750K"},
		{1_000, "1K"},
		{750, "750"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := FormatViews(tt.views); got != tt.want {
			t.Fatalf("FormatViews(%d): expected %q, got %q", tt.views, tt.want, got)
		}
	}
}

func TestDifficultyFor(t *testing.T) {
	tests := []struct {
		iso  string
		want string
	}{
		{"PT4M32S", "Easy"},
		{"PT5M", "Easy"},
		{"PT12M10S", "Medium"},
		{"PT20M", "Hard"},
		{"PT1H2M3S", "Easy"},
	}
	for _, tt := range tests {
		if got := DifficultyFor(tt.iso); got != tt.want {
			t.Fatalf("DifficultyFor(%q): expected %q, got %q", tt.iso, tt.want, got)
		}
	}
}

func TestSuggestWithoutKeyUsesFallbacks(t *testing.T) {
	svc, err := NewService(context.Background(), "", zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	suggestions := svc.Suggest(context.Background(), "plastic bottle")
	if len(suggestions) != 2 {
		t.Fatalf("expected 2 canned suggestions, got %d", len(suggestions))
	}
	first := suggestions[0]
	if !strings.Contains(first.Title, "plastic bottle") {
		t.Fatalf("expected item name in title, got %q", first.Title)
	}
	if !strings.Contains(first.URL, "plastic+bottle") {
		t.Fatalf("expected plus-joined search URL, got %q", first.URL)
	}
	if first.Difficulty != "Medium" || suggestions[1].Difficulty != "Easy" {
		t.Fatalf("unexpected difficulties %q %q", first.Difficulty, suggestions[1].Difficulty)
	}
}

func TestSuggestAllKeysByItem(t *testing.T) {
	svc, err := NewService(context.Background(), "", zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := svc.SuggestAll(context.Background(), []string{"glass jar", "tin can"})
	if len(result) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(result))
	}
	for _, name := range []string{"glass jar", "tin can"} {
		if len(result[name]) == 0 {
			t.Fatalf("expected suggestions for %q", name)
		}
	}
}
