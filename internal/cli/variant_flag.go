package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/atest/internal/domain"
	"github.com/spf13/pflag"
)

// variantFlag is a pflag.Value that only accepts registered variant tags.
// Matching is case-insensitive and ignores "-" and "_", so "test-case"
// selects TestCase.
type variantFlag struct {
	reg   *domain.Registry
	value domain.Variant
}

var _ pflag.Value = (*variantFlag)(nil)

func newVariantFlag(reg *domain.Registry, def domain.Variant) *variantFlag {
	return &variantFlag{reg: reg, value: def}
}

func (f *variantFlag) String() string { return string(f.value) }

func (f *variantFlag) Type() string { return "variant" }

func (f *variantFlag) Set(s string) error {
	v, err := parseVariant(f.reg, s)
	if err != nil {
		return err
	}
	f.value = v
	return nil
}

func (f *variantFlag) Variant() domain.Variant { return f.value }

func parseVariant(reg *domain.Registry, s string) (domain.Variant, error) {
	want := normalizeVariant(s)
	names := make([]string, 0, len(reg.Variants()))
	for _, v := range reg.Variants() {
		if normalizeVariant(string(v)) == want {
			return v, nil
		}
		names = append(names, string(v))
	}
	return "", fmt.Errorf("%w: %q (one of %s)", domain.ErrUnknownVariant, s, strings.Join(names, ", "))
}

func normalizeVariant(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
}
