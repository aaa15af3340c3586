package formatter

import (
	"testing"

	"github.com/alexanderramin/atest/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRenderProgress(t *testing.T) {
	tests := []struct {
		name   string
		p      domain.Progress
		filled int
		pct    string
	}{
		{"empty subtree", domain.Progress{}, 0, "  0%"},
		{"none", domain.Progress{Performed: 0, Total: 4}, 0, "  0%"},
		{"half", domain.Progress{Performed: 2, Total: 4}, 5, " 50%"},
		{"all", domain.Progress{Performed: 3, Total: 3}, 10, "100%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderProgress(tt.p, 10)
			assert.Contains(t, got, tt.pct)
			assert.Equal(t, tt.filled, countRune(got, '█'))
			assert.Equal(t, 10-tt.filled, countRune(got, '░'))
		})
	}
}

func TestRenderProgress_MinimumWidth(t *testing.T) {
	got := RenderProgress(domain.Progress{Performed: 1, Total: 2}, 0)
	assert.Equal(t, 2, countRune(got, '█')+countRune(got, '░'))
	assert.Contains(t, got, "(1/2)")
}

func countRune(s string, r rune) int {
	n := 0
	for _, c := range s {
		if c == r {
			n++
		}
	}
	return n
}
