package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	unlockv1alpha1 "github.com/bayleafwalker/unlockpath/api/v1alpha1"
	"github.com/bayleafwalker/unlockpath/internal/semver"
)

const manifestKind = "ProviderCatalog"

//go:embed data/engineers.yaml
var builtinManifest []byte

// Builtin returns the embedded engineer catalog.
func Builtin() (*Catalog, error) {
	return Parse(builtinManifest)
}

// LoadFile reads a ProviderCatalog manifest from path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a ProviderCatalog manifest in YAML or JSON form.
func Parse(data []byte) (*Catalog, error) {
	var obj unlockv1alpha1.ProviderCatalog
	if err := yaml.UnmarshalStrict(data, &obj); err != nil {
		return nil, fmt.Errorf("%w: decode manifest: %v", ErrInvalidCatalog, err)
	}
	if obj.Kind != "" && obj.Kind != manifestKind {
		return nil, fmt.Errorf("%w: expected kind %s, got %s", ErrInvalidCatalog, manifestKind, obj.Kind)
	}
	if obj.APIVersion != "" && obj.APIVersion != unlockv1alpha1.GroupVersion.String() {
		return nil, fmt.Errorf("%w: unsupported apiVersion %s", ErrInvalidCatalog, obj.APIVersion)
	}
	return FromSpec(obj.Spec)
}

// CheckVersion rejects c when its data version does not satisfy constraint.
// An empty constraint accepts every catalog.
func CheckVersion(c *Catalog, constraint string) error {
	if constraint == "" {
		return nil
	}
	cons, err := semver.ParseConstraint(constraint)
	if err != nil {
		return err
	}
	v, err := semver.ParseVersion(c.Version())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedVersion, err)
	}
	if !semver.Satisfies(v, cons) {
		return fmt.Errorf("%w: %s does not satisfy %q", ErrUnsupportedVersion, c.Version(), constraint)
	}
	return nil
}
