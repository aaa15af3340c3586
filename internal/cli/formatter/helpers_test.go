package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/atest/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestHumanDate(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "Today", HumanDate(now.Add(-2*time.Hour), now))
	assert.Equal(t, "Yesterday", HumanDate(now.AddDate(0, 0, -1), now))
	assert.Equal(t, "Sep 30, 2022", HumanDate(time.Date(2022, 9, 30, 0, 0, 0, 0, time.UTC), now))
}

func TestHumanTimestampFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"just now", now.Add(-10 * time.Second), "Just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-2 * time.Hour), "2h ago"},
		{"days", now.Add(-72 * time.Hour), "Feb 4, 2026"},
		{"future", now.Add(48 * time.Hour), "Feb 9, 2026"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HumanTimestampFrom(tt.input, now))
		})
	}
}

func TestStatusPill(t *testing.T) {
	assert.Contains(t, StatusPill(domain.StatusPerformed), "✔ Performed")
	assert.Contains(t, StatusPill(domain.StatusNotPerformed), "○ Not Performed")
	assert.Empty(t, StatusPill(""))
}

func TestFieldLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"name", "Name"},
		{"expected_result", "Expected Result"},
		{"executed_on", "Executed On"},
		{"a__b", "A  B"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FieldLabel(tt.in))
		})
	}
}

func TestTruncID(t *testing.T) {
	got := TruncID("a1b2c3d4-e5f6-7890-abcd-ef1234567890")
	assert.Contains(t, got, "a1b2c3d4")
	assert.NotContains(t, got, "e5f6")

	assert.Contains(t, TruncID("short"), "short")
}

func TestRenderKeyValues_AlignsAndContinuesMultiline(t *testing.T) {
	out := RenderKeyValues([][2]string{
		{"Name", "Login"},
		{"Test Input", "user: alice\npassword: x"},
	})

	assert.Contains(t, out, "Name        Login\n")
	assert.Contains(t, out, "Test Input  user: alice\n")
	assert.Contains(t, out, "            password: x\n")
}

func TestRenderTable(t *testing.T) {
	out := RenderTable([]string{"A", "LONGER"}, [][]string{{"wide cell", "x"}, {"y"}})

	assert.Contains(t, out, "A          LONGER\n")
	assert.Contains(t, out, "wide cell  x\n")
	assert.Contains(t, out, "y          \n")
	assert.Empty(t, RenderTable(nil, nil))
}
