package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexanderramin/atest/internal/domain"
	"github.com/alexanderramin/atest/internal/repository"
	"github.com/alexanderramin/atest/internal/service"
	"github.com/alexanderramin/atest/internal/testutil"
	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires a full App backed by an in-memory state database.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	reg := domain.DefaultRegistry()
	return &App{
		Docs: service.NewDocumentService(
			reg,
			repository.NewSQLiteRecentDocumentRepo(database),
			testutil.NewTestUoW(database),
			10,
		),
		Registry: reg,
	}
}

// seedPlan saves the sample plan to a temp file and returns its path.
func seedPlan(t *testing.T, app *App) string {
	t.Helper()
	sess := &service.Session{Doc: testutil.NewSamplePlan(t)}
	require.NoError(t, app.Docs.SaveAs(context.Background(), sess, filepath.Join(t.TempDir(), "plan")))
	return sess.Path
}

// reopen loads path from disk.
func reopen(t *testing.T, app *App, path string) *domain.Document {
	t.Helper()
	sess, err := app.Docs.Open(context.Background(), path)
	require.NoError(t, err)
	return sess.Doc
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestRootCmd_NonInteractivePrintsHelp(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "reparent")
}

func TestNewCmd_CreatesAndBecomesCurrent(t *testing.T) {
	app := testApp(t)
	path := filepath.Join(t.TempDir(), "release")

	out, err := executeCmd(t, app, "new", path, "--root", "Release 2.0")
	require.NoError(t, err)
	assert.Contains(t, out, "Created "+path+".xml")
	assert.FileExists(t, path+".xml")

	out, err = executeCmd(t, app, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "RELEASE 2.0")
	assert.Contains(t, out, "release.xml")
}

func TestShowCmd_NoDocument(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pass --file")
}

func TestShowCmd_RendersTree(t *testing.T) {
	app := testApp(t)
	path := seedPlan(t, app)

	out, err := executeCmd(t, app, "show", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "├─ ○ ▾ Login")
	assert.Contains(t, out, "│  ├─ ✔ Valid password")
	assert.Contains(t, out, "└─ ✔ ▸ Checkout")
	assert.Contains(t, out, "Payment")
	assert.Contains(t, out, "(1/2)")
}

func TestGetSetCmd(t *testing.T) {
	app := testApp(t)
	path := seedPlan(t, app)

	out, err := executeCmd(t, app, "get", "-f", path, "Valid password", "executed_on")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-15\n", out)

	out, err = executeCmd(t, app, "set", "-f", path, "0.0", "executed_on", "2025-02-01")
	require.NoError(t, err)
	assert.Contains(t, out, `Updated executed_on of "Valid password"`)

	n, err := reopen(t, app, path).NodeAt([]int{0, 0})
	require.NoError(t, err)
	v, err := n.GetString("executed_on")
	require.NoError(t, err)
	assert.Equal(t, "2025-02-01", v)
}

func TestSetCmd_RejectsBadValue(t *testing.T) {
	app := testApp(t)
	path := seedPlan(t, app)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = executeCmd(t, app, "set", "-f", path, "Wrong password", "performed", "yes")
	var pe *domain.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "performed", pe.Field)

	_, err = executeCmd(t, app, "set", "-f", path, "Login", "steps", "x")
	assert.ErrorIs(t, err, domain.ErrUnknownField)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after, "failed edits are not saved")
}

func TestAddCmd(t *testing.T) {
	app := testApp(t)
	path := seedPlan(t, app)

	out, err := executeCmd(t, app, "add", "-f", path, "Login", "--variant", "test-case", "--name", "Locked account")
	require.NoError(t, err)
	assert.Contains(t, out, `Added TestCase "Locked account" at 0.2`)

	out, err = executeCmd(t, app, "add", "-f", path, "/", "--variant", "Category")
	require.NoError(t, err)
	assert.Contains(t, out, `Added Category "New Category" at 2`)

	doc := reopen(t, app, path)
	n, err := doc.NodeAt([]int{0, 2})
	require.NoError(t, err)
	assert.Equal(t, "Locked account", n.Name())
	assert.Equal(t, domain.VariantTestCase, n.Variant())
}

func TestAddCmd_Errors(t *testing.T) {
	app := testApp(t)
	path := seedPlan(t, app)

	_, err := executeCmd(t, app, "add", "-f", path, "Valid password")
	assert.ErrorIs(t, err, domain.ErrInvalidTarget)

	_, err = executeCmd(t, app, "add", "-f", path, "Login", "--variant", "Widget")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown variant")

	_, err = executeCmd(t, app, "add", "-f", path, "Nowhere")
	assert.ErrorIs(t, err, domain.ErrInvalidTarget)
}

func TestRemoveCmd(t *testing.T) {
	app := testApp(t)
	path := seedPlan(t, app)

	_, err := executeCmd(t, app, "remove", "-f", path, "root")
	assert.ErrorIs(t, err, domain.ErrRootImmutable)

	out, err := executeCmd(t, app, "remove", "-f", path, "Checkout")
	require.NoError(t, err)
	assert.Contains(t, out, `Removed "Checkout" (2 nodes)`)
	assert.Equal(t, 4, reopen(t, app, path).Len())
}

func TestRemoveCmd_InteractiveAsksFirst(t *testing.T) {
	app := testApp(t)
	path := seedPlan(t, app)
	app.IsInteractive = func() bool { return true }
	asked := 0
	app.RunForm = func(*huh.Form) error {
		asked++
		return nil
	}

	out, err := executeCmd(t, app, "remove", "-f", path, "Checkout")
	require.NoError(t, err)
	assert.Equal(t, 1, asked)
	assert.Contains(t, out, "Cancelled.")
	assert.Equal(t, 6, reopen(t, app, path).Len())

	_, err = executeCmd(t, app, "remove", "-f", path, "Checkout", "--yes")
	require.NoError(t, err)
	assert.Equal(t, 1, asked)
	assert.Equal(t, 4, reopen(t, app, path).Len())
}

func TestMoveCmd(t *testing.T) {
	app := testApp(t)
	path := seedPlan(t, app)

	out, err := executeCmd(t, app, "move", "-f", path, "Wrong password", "--up")
	require.NoError(t, err)
	assert.Contains(t, out, "Moved to 0.0")

	out, err = executeCmd(t, app, "move", "-f", path, "0.0", "--by", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Moved to 0.1", "clamped to the last slot")

	_, err = executeCmd(t, app, "move", "-f", path, "0.0")
	assert.Error(t, err)
	_, err = executeCmd(t, app, "move", "-f", path, "0.0", "--up", "--down")
	assert.Error(t, err)
	_, err = executeCmd(t, app, "move", "-f", path, "/", "--down")
	assert.ErrorIs(t, err, domain.ErrRootImmutable)
}

func TestReparentCmd(t *testing.T) {
	app := testApp(t)
	path := seedPlan(t, app)

	_, err := executeCmd(t, app, "reparent", "-f", path, "Checkout", "Payment")
	assert.ErrorIs(t, err, domain.ErrCycleDetected)

	_, err = executeCmd(t, app, "reparent", "-f", path, "Checkout", "Valid password")
	assert.ErrorIs(t, err, domain.ErrInvalidTarget)

	out, err := executeCmd(t, app, "reparent", "-f", path, "Checkout", "Login")
	require.NoError(t, err)
	assert.Contains(t, out, "Moved to 0.2")

	doc := reopen(t, app, path)
	assert.Equal(t, 1, doc.Root().ChildCount())
	payment, err := doc.NodeAt([]int{0, 2, 0})
	require.NoError(t, err)
	assert.Equal(t, "Payment", payment.Name())
}

func TestExpandCollapseCmd(t *testing.T) {
	app := testApp(t)
	path := seedPlan(t, app)

	_, err := executeCmd(t, app, "collapse", "-f", path, "Login")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "expand", "-f", path, "Checkout")
	require.NoError(t, err)

	doc := reopen(t, app, path)
	login, _ := doc.NodeAt([]int{0})
	checkout, _ := doc.NodeAt([]int{1})
	assert.False(t, login.Expanded())
	assert.True(t, checkout.Expanded())

	_, err = executeCmd(t, app, "expand", "-f", path, "Valid password")
	assert.ErrorIs(t, err, domain.ErrInvalidTarget)
}

func TestFieldsCmd(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "fields")
	require.NoError(t, err)
	assert.Contains(t, out, "atest.Category")
	assert.Contains(t, out, "atest.TestCase")

	out, err = executeCmd(t, app, "fields", "testcase")
	require.NoError(t, err)
	assert.NotContains(t, out, "atest.Category")
	assert.Contains(t, out, "executed_on")

	_, err = executeCmd(t, app, "fields", "widget")
	assert.ErrorIs(t, err, domain.ErrUnknownVariant)
}

func TestInspectCmd(t *testing.T) {
	app := testApp(t)
	path := seedPlan(t, app)

	out, err := executeCmd(t, app, "inspect", "-f", path, "valid PASSWORD")
	require.NoError(t, err)
	assert.Contains(t, out, "VALID PASSWORD")
	assert.Contains(t, out, "2025-01-15")
	assert.Contains(t, out, "Performed")
}

func TestExportCmd_KeepsBinding(t *testing.T) {
	app := testApp(t)
	path := seedPlan(t, app)
	out := filepath.Join(t.TempDir(), "plan.yaml")

	_, err := executeCmd(t, app, "export", "-f", path, out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "type: atest.Category"))

	recent, err := app.Docs.Recent(context.Background())
	require.NoError(t, err)
	for _, r := range recent {
		assert.NotEqual(t, out, r.Path, "exports are not remembered")
	}
}

func TestRecentCmd(t *testing.T) {
	app := testApp(t)
	path := seedPlan(t, app)

	out, err := executeCmd(t, app, "recent")
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.Contains(t, out, "xml")

	out, err = executeCmd(t, app, "recent", "forget", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Forgot")

	out, err = executeCmd(t, app, "recent")
	require.NoError(t, err)
	assert.Contains(t, out, "No recent documents")

	_, err = executeCmd(t, app, "recent", "forget", path)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEditCmd(t *testing.T) {
	app := testApp(t)
	path := seedPlan(t, app)

	_, err := executeCmd(t, app, "edit", "-f", path, "Login")
	assert.ErrorIs(t, err, errNotInteractive)

	app.IsInteractive = func() bool { return true }
	app.RunForm = func(*huh.Form) error { return huh.ErrUserAborted }
	out, err := executeCmd(t, app, "edit", "-f", path, "Login")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled.")

	app.RunForm = func(*huh.Form) error { return nil }
	out, err = executeCmd(t, app, "edit", "-f", path, "Login")
	require.NoError(t, err)
	assert.Contains(t, out, "No changes.")
}

func TestBrowseCmd_NonInteractive(t *testing.T) {
	app := testApp(t)
	path := seedPlan(t, app)

	_, err := executeCmd(t, app, "browse", "-f", path)
	assert.ErrorIs(t, err, errNotInteractive)
}

func TestFindCmd(t *testing.T) {
	app := testApp(t)
	path := seedPlan(t, app)

	out, err := executeCmd(t, app, "find", "-f", path, "leaf && !performed")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrong password")
	assert.NotContains(t, out, "Valid password")
	assert.Contains(t, out, "1 of 6 nodes")

	out, err = executeCmd(t, app, "find", "-f", path, `name == "Shipping"`)
	require.NoError(t, err)
	assert.Contains(t, out, "No matching nodes.")

	_, err = executeCmd(t, app, "find", "-f", path, "depth +")
	assert.Error(t, err)
}
