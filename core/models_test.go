package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"same content produces same ID", "test content"},
		{"empty string", ""},
		{"long content", "This is a much longer piece of content that should still hash consistently"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)
			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}

	t.Run("different content produces different IDs", func(t *testing.T) {
		if IDFromContent("alpha") == IDFromContent("beta") {
			t.Error("IDFromContent() produced identical IDs for different content")
		}
	})
}

func TestKeywords(t *testing.T) {
	t.Run("frequency ranking", func(t *testing.T) {
		text := "badger badger badger index index vector"
		got := Keywords(text, 3)
		want := []string{"badger", "index", "vector"}
		if len(got) != len(want) {
			t.Fatalf("Keywords() = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Keywords()[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("stopwords and punctuation filtered", func(t *testing.T) {
		got := Keywords("The fox, and the hound. A fox!", 5)
		for _, word := range got {
			if word == "the" || word == "and" || word == "a" {
				t.Errorf("Keywords() contains stopword %q", word)
			}
		}
		if len(got) == 0 || got[0] != "fox" {
			t.Errorf("Keywords() = %v, want fox ranked first", got)
		}
	})

	t.Run("alphabetical tie break", func(t *testing.T) {
		got := Keywords("zebra apple", 2)
		if len(got) != 2 || got[0] != "apple" || got[1] != "zebra" {
			t.Errorf("Keywords() = %v, want [apple zebra]", got)
		}
	})

	t.Run("max limits output", func(t *testing.T) {
		got := Keywords("one two three four five six seven", 3)
		if len(got) != 3 {
			t.Errorf("Keywords() returned %d words, want 3", len(got))
		}
	})

	t.Run("empty and zero max", func(t *testing.T) {
		if got := Keywords("", 5); got != nil {
			t.Errorf("Keywords(empty) = %v, want nil", got)
		}
		if got := Keywords("words here", 0); got != nil {
			t.Errorf("Keywords(max=0) = %v, want nil", got)
		}
	})
}
