package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/atest/internal/domain"
)

// NodeOption customises a node built by the fixtures.
type NodeOption func(t *testing.T, n *domain.Node)

// WithField sets a field from its string form.
func WithField(name, raw string) NodeOption {
	return func(t *testing.T, n *domain.Node) {
		t.Helper()
		require.NoError(t, n.Set(name, raw))
	}
}

func WithPerformed() NodeOption {
	return WithField(domain.FieldPerformed, "true")
}

func WithExpanded() NodeOption {
	return func(_ *testing.T, n *domain.Node) {
		n.SetExpanded(true)
	}
}

// NewTestDocument returns an empty document whose root is a Category named "Root".
func NewTestDocument(t *testing.T) *domain.Document {
	t.Helper()
	doc, err := domain.NewDocument(domain.DefaultRegistry(), domain.VariantCategory, "")
	require.NoError(t, err)
	return doc
}

// AddCategory appends a category under parent.
func AddCategory(t *testing.T, doc *domain.Document, parent *domain.Node, name string, opts ...NodeOption) *domain.Node {
	t.Helper()
	return addNode(t, doc, parent, domain.VariantCategory, name, opts)
}

// AddTestCase appends a test case under parent.
func AddTestCase(t *testing.T, doc *domain.Document, parent *domain.Node, name string, opts ...NodeOption) *domain.Node {
	t.Helper()
	return addNode(t, doc, parent, domain.VariantTestCase, name, opts)
}

func addNode(t *testing.T, doc *domain.Document, parent *domain.Node, tag domain.Variant, name string, opts []NodeOption) *domain.Node {
	t.Helper()
	n, err := doc.Registry().New(tag)
	require.NoError(t, err)
	n.SetName(name)
	for _, opt := range opts {
		opt(t, n)
	}
	require.NoError(t, doc.AddChild(parent, n))
	return n
}

// NewSamplePlan builds a small plan used across packages:
//
//	Root
//	├─ Login (expanded)
//	│  ├─ Valid password   (performed, executed 2025-01-15)
//	│  └─ Wrong password
//	└─ Checkout
//	   └─ Payment
func NewSamplePlan(t *testing.T) *domain.Document {
	t.Helper()
	doc := NewTestDocument(t)
	login := AddCategory(t, doc, doc.Root(), "Login",
		WithExpanded(),
		WithField("test_input", "user: alice\npassword: <secret>"),
	)
	AddTestCase(t, doc, login, "Valid password",
		WithPerformed(),
		WithField("steps", "1. Open login page\n2. Submit valid credentials"),
		WithField("expected_result", "Dashboard is shown"),
		WithField("result", "ok & fast"),
		WithField("executed_on", "2025-01-15"),
	)
	AddTestCase(t, doc, login, "Wrong password",
		WithField("expected_result", "Error \"invalid credentials\""),
	)
	checkout := AddCategory(t, doc, doc.Root(), "Checkout")
	AddCategory(t, doc, checkout, "Payment")
	return doc
}
