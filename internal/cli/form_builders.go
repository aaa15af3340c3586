package cli

import (
	"fmt"

	"github.com/alexanderramin/atest/internal/cli/formatter"
	"github.com/alexanderramin/atest/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

func atestHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// nodeForm is a huh form generated from a node's schema. Each field edits
// a buffer; Apply writes the buffers back to the node.
type nodeForm struct {
	node  *domain.Node
	text  map[string]*string
	bools map[string]*bool
	Form  *huh.Form
}

func newNodeForm(n *domain.Node) *nodeForm {
	f := &nodeForm{
		node:  n,
		text:  make(map[string]*string),
		bools: make(map[string]*bool),
	}

	var fields []huh.Field
	for _, fd := range n.Fields() {
		fields = append(fields, f.fieldFor(fd))
	}
	f.Form = huh.NewForm(huh.NewGroup(fields...).Title(fmt.Sprintf("%s · %s", n.Variant(), n.Name()))).
		WithTheme(atestHuhTheme()).
		WithShowHelp(true)
	return f
}

func (f *nodeForm) fieldFor(fd domain.FieldDescriptor) huh.Field {
	label := formatter.FieldLabel(fd.Name)

	if fd.Type == domain.TypeBool {
		v, _ := f.node.Get(fd.Name)
		b, _ := v.(bool)
		f.bools[fd.Name] = &b
		return huh.NewConfirm().
			Title(label).
			Affirmative("Yes").
			Negative("No").
			Value(f.bools[fd.Name])
	}

	s, _ := f.node.GetString(fd.Name)
	f.text[fd.Name] = &s

	if fd.Type == domain.TypeString && fd.Hint == domain.HintMultiline {
		return huh.NewText().
			Title(label).
			Lines(4).
			Value(f.text[fd.Name])
	}
	in := huh.NewInput().
		Title(label).
		Value(f.text[fd.Name]).
		Validate(validatorFor(fd.Type))
	if p := placeholderFor(fd.Type); p != "" {
		in = in.Placeholder(p)
	}
	return in
}

// validatorFor rejects text that the field type cannot parse.
func validatorFor(t domain.ValueType) func(string) error {
	return func(s string) error {
		_, err := domain.ParseValue(t, s)
		if pe, ok := err.(*domain.ParseError); ok {
			return pe.Err
		}
		return err
	}
}

func placeholderFor(t domain.ValueType) string {
	switch t {
	case domain.TypeDate:
		return "YYYY-MM-DD, blank for none"
	case domain.TypeInt:
		return "0"
	case domain.TypeFloat:
		return "0.0"
	}
	return ""
}

// Apply parses every buffer first and only then stores the values, so a
// bad entry leaves the node untouched. It reports whether anything changed.
func (f *nodeForm) Apply() (bool, error) {
	type update struct {
		name  string
		value any
	}
	var updates []update
	for _, fd := range f.node.Fields() {
		current, _ := f.node.Get(fd.Name)
		var next any
		if b, ok := f.bools[fd.Name]; ok {
			next = *b
		} else {
			v, err := domain.ParseValue(fd.Type, *f.text[fd.Name])
			if err != nil {
				if pe, ok := err.(*domain.ParseError); ok {
					pe.Field = fd.Name
				}
				return false, err
			}
			next = v
		}
		if domain.FormatValue(fd.Type, next) != domain.FormatValue(fd.Type, current) {
			updates = append(updates, update{fd.Name, next})
		}
	}

	for _, u := range updates {
		if err := f.node.SetValue(u.name, u.value); err != nil {
			return false, err
		}
	}
	return len(updates) > 0, nil
}

// confirmForm is a yes/no question.
func confirmForm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(atestHuhTheme()).WithShowHelp(false)
}
