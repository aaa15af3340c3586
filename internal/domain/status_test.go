package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPerformed_ContainerFollowsChildren(t *testing.T) {
	doc, nodes := buildPlan(t)
	a := nodes["A"]

	assert.True(t, IsPerformed(nodes["T1"]))
	assert.False(t, IsPerformed(nodes["T2"]))
	assert.False(t, IsPerformed(a))
	assert.Equal(t, StatusNotPerformed, StatusLabel(doc, a))

	require.NoError(t, nodes["T2"].Set(FieldPerformed, "true"))
	assert.True(t, IsPerformed(a))
	assert.Equal(t, StatusPerformed, StatusLabel(doc, a))
}

func TestIsPerformed_Recursive(t *testing.T) {
	doc, nodes := buildPlan(t)
	leaf := newTestCase(t, "deep")
	require.NoError(t, doc.AddChild(nodes["B1"], leaf))

	assert.False(t, IsPerformed(nodes["B"]))
	require.NoError(t, leaf.SetValue(FieldPerformed, true))
	assert.True(t, IsPerformed(nodes["B"]))
}

func TestIsPerformed_EmptyContainer(t *testing.T) {
	_, nodes := buildPlan(t)
	assert.True(t, IsPerformed(nodes["B1"]))
}

func TestStatusLabel_RootHasNone(t *testing.T) {
	doc, _ := buildPlan(t)
	assert.Equal(t, "", StatusLabel(doc, doc.Root()))
}

func TestSummarize(t *testing.T) {
	doc, nodes := buildPlan(t)

	p := Summarize(doc.Root())
	assert.Equal(t, Progress{Performed: 1, Total: 2}, p)
	assert.InDelta(t, 50.0, p.Pct(), 0.001)

	assert.Equal(t, Progress{Performed: 1, Total: 1}, Summarize(nodes["T1"]))
	assert.Equal(t, Progress{}, Summarize(nodes["B"]))
	assert.Equal(t, 0.0, Summarize(nodes["B"]).Pct())
}
