package tui

import (
	"strings"
	"testing"
)

func TestEditRune(t *testing.T) {
	tests := []struct {
		name string
		text string
		key  string
		want string
	}{
		{"append char", "ab", "c", "abc"},
		{"backspace", "abc", "backspace", "ab"},
		{"backspace empty", "", "backspace", ""},
		{"backspace multibyte", "héllo", "backspace", "héll"},
		{"ignore named key", "ab", "enter", "ab"},
		{"append multibyte", "caf", "é", "café"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := editRune(tt.text, tt.key); got != tt.want {
				t.Errorf("editRune(%q, %q) = %q, want %q", tt.text, tt.key, got, tt.want)
			}
		})
	}
}

func TestEditRune_ClampsLength(t *testing.T) {
	long := strings.Repeat("a", maxInputLen)
	if got := editRune(long, "b"); got != long {
		t.Error("input beyond maxInputLen should be dropped")
	}
}

func TestTruncStr(t *testing.T) {
	if got := truncStr("hello", 10); got != "hello" {
		t.Errorf("short strings pass through, got %q", got)
	}
	got := truncStr("hello world", 8)
	if got != "hello w…" {
		t.Errorf("truncStr = %q", got)
	}
	if got := truncStr("hello", 1); got != "…" {
		t.Errorf("truncStr at width 1 = %q", got)
	}
	if got := truncStr("hello", 0); got != "" {
		t.Errorf("non-positive maxLen yields empty, got %q", got)
	}
	if got := truncStr("hello", -3); got != "" {
		t.Errorf("non-positive maxLen yields empty, got %q", got)
	}
}

func TestTruncateToHeight(t *testing.T) {
	s := "a\nb\nc\nd\n"
	if got := truncateToHeight(s, 2); got != "a\nb\n" {
		t.Errorf("truncateToHeight = %q", got)
	}
	if got := truncateToHeight(s, 0); got != s {
		t.Error("non-positive maxLines should return input unchanged")
	}
	if got := truncateToHeight("a\nb", 5); got != "a\nb" {
		t.Error("short input should pass through")
	}
}

func TestShortStoreName(t *testing.T) {
	if got := shortStoreName("fileSearchStores/abc123"); got != "abc123" {
		t.Errorf("shortStoreName = %q", got)
	}
	if got := shortStoreName("abc123"); got != "abc123" {
		t.Errorf("unprefixed names pass through, got %q", got)
	}
}
