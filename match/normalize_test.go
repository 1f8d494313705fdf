package match

import (
	"reflect"
	"testing"
)

func TestNormalizeTrackName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain title", "Bohemian Rhapsody", "bohemian rhapsody"},
		{"official video suffix", "Bohemian Rhapsody (Official Video)", "bohemian rhapsody"},
		{"bracketed remaster", "Starlight [2015 Remaster]", "starlight"},
		{"curly quoted noise", "Starlight “Official Audio”", "starlight"},
		{"feat credit", "Señorita feat. Camila", "señorita camila"},
		{"lyric video", "Remedy (Lyric Video)", "remedy"},
		{"hd tag", "Remedy HD", "remedy"},
		{"symbols stripped", "AC/DC - T.N.T.", "ac dc t n t"},
		{"apostrophe stripped", "Don't Stop Me Now", "don t stop me now"},
		{"whitespace collapsed", "  So   Much   Space  ", "so much space"},
		{"only noise", "(Official Video) HD", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeTrackName(tt.input)
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestNormalizeTrackNameIdempotent(t *testing.T) {
	inputs := []string{
		"Bohemian Rhapsody (Official Video)",
		"Starlight [2015 Remaster]",
		"Señorita feat. Camila",
		"AC/DC - T.N.T.",
		"",
	}

	for _, input := range inputs {
		once := NormalizeTrackName(input)
		twice := NormalizeTrackName(once)
		if once != twice {
			t.Errorf("Expected normalization of %q to be idempotent, got %q then %q", input, once, twice)
		}
	}
}

func TestNormalizeArtistName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"title cased", "queen", "Queen"},
		{"vevo stripped", "Queen VEVO", "Queen"},
		{"topic stripped", "Queen - Topic", "Queen"},
		{"official channel", "Queen Official", "Queen"},
		{"already clean", "Dua Lipa", "Dua Lipa"},
		{"only noise", "VEVO", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeArtistName(tt.input)
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestSplitArtistCredits(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"single artist", "Queen", []string{"Queen"}},
		{"comma separated", "Queen, David Bowie", []string{"Queen", "David Bowie"}},
		{"ampersand", "Simon & Garfunkel", []string{"Simon", "Garfunkel"}},
		{"feat credit", "Shawn Mendes feat. Camila Cabello", []string{"Shawn Mendes", "Camila Cabello"}},
		{"ft abbreviation", "Eminem ft Rihanna", []string{"Eminem", "Rihanna"}},
		{"x collab", "Silk City x Dua Lipa", []string{"Silk City", "Dua Lipa"}},
		{"vs", "Band A vs. Band B", []string{"Band A", "Band B"}},
		{"and word", "Hootie and The Blowfish", []string{"Hootie", "The Blowfish"}},
		{"mixed separators", "A, B & C feat. D", []string{"A", "B", "C", "D"}},
		{"empty pieces dropped", "Queen, , David Bowie", []string{"Queen", "David Bowie"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SplitArtistCredits(tt.input)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}
