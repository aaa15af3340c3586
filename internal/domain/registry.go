package domain

import (
	"fmt"
	"regexp"
	"sort"
)

// Variant tags a concrete node kind. It selects the field schema and the
// serialization type marker, and never changes after a node is built.
type Variant string

const (
	VariantCategory Variant = "Category"
	VariantTestCase Variant = "TestCase"
)

// Field names shared by every variant.
const (
	FieldName      = "name"
	FieldPerformed = "performed"
)

// Attribute names the serializer reserves on every element.
const (
	AttrType     = "type"
	AttrExpanded = "expanded"
)

var fieldNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// VariantSpec declares a node variant: its tag, the fully-qualified marker
// written to documents, whether it may contain children, and its fields.
type VariantSpec struct {
	Tag         Variant
	Marker      string
	Container   bool
	DefaultName string
	Fields      []FieldDescriptor
}

// variantInfo is the registry's resolved form of a VariantSpec.
type variantInfo struct {
	spec   VariantSpec
	sorted []FieldDescriptor
	index  map[string]FieldDescriptor
}

func (v *variantInfo) field(name string) (FieldDescriptor, bool) {
	fd, ok := v.index[name]
	return fd, ok
}

// Registry is a closed, immutable table of node variants. It is the only
// place the editor and the serializer learn which fields a variant has and
// how to construct it.
type Registry struct {
	order    []Variant
	byTag    map[Variant]*variantInfo
	byMarker map[string]*variantInfo
}

// Category groups test cases and other categories.
var categorySpec = VariantSpec{
	Tag:         VariantCategory,
	Marker:      "atest.Category",
	Container:   true,
	DefaultName: "New Category",
	Fields: []FieldDescriptor{
		{Name: FieldName, Type: TypeString, Hint: HintPlain, Priority: 0},
		{Name: "test_input", Type: TypeString, Hint: HintMultiline, Priority: 10},
		{Name: "expected_result", Type: TypeString, Hint: HintMultiline, Priority: 20},
	},
}

// TestCase is a leaf describing one check to perform.
var testCaseSpec = VariantSpec{
	Tag:         VariantTestCase,
	Marker:      "atest.TestCase",
	Container:   false,
	DefaultName: "New Test Case",
	Fields: []FieldDescriptor{
		{Name: FieldName, Type: TypeString, Hint: HintPlain, Priority: 0},
		{Name: FieldPerformed, Type: TypeBool, Hint: HintPlain, Priority: 5},
		{Name: "steps", Type: TypeString, Hint: HintMultiline, Priority: 10},
		{Name: "expected_result", Type: TypeString, Hint: HintMultiline, Priority: 20},
		{Name: "result", Type: TypeString, Hint: HintMultiline, Priority: 30},
		{Name: "executed_on", Type: TypeDate, Hint: HintPlain, Priority: 40},
	},
}

var defaultRegistry = mustNewRegistry(categorySpec, testCaseSpec)

// DefaultRegistry returns the process-wide registry of built-in variants.
func DefaultRegistry() *Registry { return defaultRegistry }

func mustNewRegistry(specs ...VariantSpec) *Registry {
	r, err := NewRegistry(specs...)
	if err != nil {
		panic(err)
	}
	return r
}

// NewRegistry validates specs and builds a registry from them. Every variant
// must declare a string "name" field; "performed", when declared, must be bool.
func NewRegistry(specs ...VariantSpec) (*Registry, error) {
	r := &Registry{
		byTag:    make(map[Variant]*variantInfo, len(specs)),
		byMarker: make(map[string]*variantInfo, len(specs)),
	}
	for _, s := range specs {
		if s.Tag == "" || s.Marker == "" {
			return nil, fmt.Errorf("variant %q: tag and marker are required", s.Tag)
		}
		if _, dup := r.byTag[s.Tag]; dup {
			return nil, fmt.Errorf("variant %q: duplicate tag", s.Tag)
		}
		if _, dup := r.byMarker[s.Marker]; dup {
			return nil, fmt.Errorf("variant %q: duplicate marker %q", s.Tag, s.Marker)
		}
		info, err := resolveVariant(s)
		if err != nil {
			return nil, err
		}
		r.order = append(r.order, s.Tag)
		r.byTag[s.Tag] = info
		r.byMarker[s.Marker] = info
	}
	return r, nil
}

func resolveVariant(s VariantSpec) (*variantInfo, error) {
	fields := append([]FieldDescriptor(nil), s.Fields...)
	info := &variantInfo{index: make(map[string]FieldDescriptor, len(fields))}
	for _, fd := range fields {
		if !fieldNamePattern.MatchString(fd.Name) {
			return nil, fmt.Errorf("variant %q: invalid field name %q", s.Tag, fd.Name)
		}
		if fd.Name == AttrType || fd.Name == AttrExpanded {
			return nil, fmt.Errorf("variant %q: field name %q is reserved", s.Tag, fd.Name)
		}
		if _, dup := info.index[fd.Name]; dup {
			return nil, fmt.Errorf("variant %q: duplicate field %q", s.Tag, fd.Name)
		}
		if !knownType(fd.Type) {
			return nil, fmt.Errorf("variant %q: field %q: unsupported type %q", s.Tag, fd.Name, fd.Type)
		}
		if fd.Hint == "" {
			fd.Hint = HintPlain
		}
		info.index[fd.Name] = fd
	}
	if fd, ok := info.index[FieldName]; !ok || fd.Type != TypeString {
		return nil, fmt.Errorf("variant %q: a string %q field is required", s.Tag, FieldName)
	}
	if fd, ok := info.index[FieldPerformed]; ok && fd.Type != TypeBool {
		return nil, fmt.Errorf("variant %q: %q must be a bool field", s.Tag, FieldPerformed)
	}

	for i := range fields {
		fields[i] = info.index[fields[i].Name]
	}
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].Priority < fields[j].Priority
	})
	s.Fields = fields
	info.spec = s
	info.sorted = fields
	return info, nil
}

// Variants lists registered tags in registration order.
func (r *Registry) Variants() []Variant {
	return append([]Variant(nil), r.order...)
}

// Lookup returns the VariantSpec for tag with fields in display order.
func (r *Registry) Lookup(tag Variant) (VariantSpec, bool) {
	info, ok := r.byTag[tag]
	if !ok {
		return VariantSpec{}, false
	}
	spec := info.spec
	spec.Fields = append([]FieldDescriptor(nil), info.sorted...)
	return spec, true
}

// ByMarker resolves a serialized type marker to its variant tag.
func (r *Registry) ByMarker(marker string) (Variant, bool) {
	info, ok := r.byMarker[marker]
	if !ok {
		return "", false
	}
	return info.spec.Tag, true
}

// SchemaFor returns the fields of tag sorted by priority, then declaration order.
func (r *Registry) SchemaFor(tag Variant) ([]FieldDescriptor, error) {
	info, ok := r.byTag[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, tag)
	}
	return append([]FieldDescriptor(nil), info.sorted...), nil
}

// New constructs a detached node of the given variant with default field values.
func (r *Registry) New(tag Variant) (*Node, error) {
	info, ok := r.byTag[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, tag)
	}
	return newNode(info), nil
}
