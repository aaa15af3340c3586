package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/atest/internal/domain"
	"github.com/alexanderramin/atest/internal/repository"
	"github.com/alexanderramin/atest/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDocument(t *testing.T) {
	doc := testutil.NewSamplePlan(t)

	out := FormatDocument("plan.xml*", doc)

	assert.Contains(t, out, "ROOT")
	assert.Contains(t, out, "plan.xml*")
	assert.Contains(t, out, "50%")
	assert.Contains(t, out, "(1/2)")
	assert.Contains(t, out, "Payment", "collapsed nodes are listed in full")
}

func TestFormatNodeInspect_TestCase(t *testing.T) {
	doc := testutil.NewSamplePlan(t)
	n, err := doc.NodeAt([]int{0, 0})
	require.NoError(t, err)

	out := FormatNodeInspect(doc, n)

	assert.Contains(t, out, "VALID PASSWORD")
	assert.Contains(t, out, "TestCase")
	assert.Contains(t, out, "0.0")
	assert.Contains(t, out, "✔ Performed")
	assert.Contains(t, out, "Executed On")
	assert.Contains(t, out, "2025-01-15")
	assert.Contains(t, out, "2. Submit valid credentials")
	assert.NotContains(t, out, "Children")
}

func TestFormatNodeInspect_RootHasNoStatus(t *testing.T) {
	doc := testutil.NewSamplePlan(t)

	out := FormatNodeInspect(doc, doc.Root())

	assert.Contains(t, out, "Category")
	assert.NotContains(t, out, "Status")
	assert.Contains(t, out, "Children")
	assert.Contains(t, out, "Test Input")
}

func TestFormatSchema(t *testing.T) {
	out, err := FormatSchema(domain.DefaultRegistry(), domain.VariantTestCase)
	require.NoError(t, err)

	assert.Contains(t, out, "atest.TestCase")
	assert.Contains(t, out, "leaf")
	assert.Contains(t, out, "executed_on")
	assert.Contains(t, out, "multiline")
	assert.Less(t, strings.Index(out, "performed"), strings.Index(out, "steps"), "priority order")

	_, err = FormatSchema(domain.DefaultRegistry(), "Widget")
	assert.ErrorIs(t, err, domain.ErrUnknownVariant)
}

func TestFormatRecent(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	out := FormatRecent([]*repository.RecentDocument{
		{Path: "/plans/a.xml", Format: "xml", OpenedAt: now.Add(-5 * time.Minute), OpenCount: 3},
		{Path: "/plans/b.yaml", Format: "yaml", OpenedAt: now.Add(-3 * time.Hour), OpenCount: 1},
	}, now)

	assert.Contains(t, out, "/plans/a.xml")
	assert.Contains(t, out, "5m ago")
	assert.Contains(t, out, "3h ago")
	assert.Less(t, strings.Index(out, "a.xml"), strings.Index(out, "b.yaml"))

	assert.Contains(t, FormatRecent(nil, now), "No recent documents")
}

func TestFormatMatches(t *testing.T) {
	doc := testutil.NewSamplePlan(t)
	login, err := doc.NodeAt([]int{0})
	require.NoError(t, err)
	wrong, err := doc.NodeAt([]int{0, 1})
	require.NoError(t, err)

	out := FormatMatches(doc, []*domain.Node{doc.Root(), login, wrong})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "PATH")
	assert.True(t, strings.HasPrefix(lines[2], "/ "))
	assert.NotContains(t, lines[2], "Performed", "root has no status")
	assert.Contains(t, lines[3], "Login")
	assert.Contains(t, lines[4], "0.1")
	assert.Contains(t, lines[4], "Not Performed")
	assert.Equal(t, "3 of 6 nodes", lines[5])

	assert.Equal(t, "No matching nodes.\n", FormatMatches(doc, nil))
}
