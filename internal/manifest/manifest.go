// Package manifest reads forc's own toolchain manifest and extracts the
// minimum compiler version the toolchain was built against.
//
// The toolchain manifest is a TOML document shipped in the installation
// root, minimally shaped as:
//
//	[package]
//	minimum-toolchain-version = "1.40.0"
//
// It is not a user project's Forc.toml.
package manifest

import (
	"fmt"
	"io"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"

	ferrors "github.com/swaylang/forc/internal/errors"
)

const (
	// PackageSection is the table holding toolchain metadata.
	PackageSection = "package"
	// VersionField is the key of the declared minimum compiler version.
	VersionField = "minimum-toolchain-version"
)

// Sentinels for errors.Is, one per failure mode.
var (
	ErrIO                    = ferrors.Sentinel(ferrors.ErrCodeManifestIO)
	ErrParse                 = ferrors.Sentinel(ferrors.ErrCodeManifestParse)
	ErrMissingPackageSection = ferrors.Sentinel(ferrors.ErrCodeMissingPackageSection)
	ErrMissingVersionField   = ferrors.Sentinel(ferrors.ErrCodeMissingVersionField)
	ErrInvalidVersionFormat  = ferrors.Sentinel(ferrors.ErrCodeInvalidVersionFormat)
)

// Document is a decoded toolchain manifest.
type Document struct {
	Path   string
	Tables map[string]any
}

// Load opens and decodes the manifest at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ferrors.New(ferrors.ErrCodeManifestIO,
			fmt.Sprintf("cannot open toolchain manifest %s", path), err).
			WithDetail("path", path).
			WithSuggestion("reinstall forc or set FORC_TOOLCHAIN_ROOT to its installation directory")
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, ferrors.New(ferrors.ErrCodeManifestIO,
			fmt.Sprintf("cannot read toolchain manifest %s", path), err).
			WithDetail("path", path)
	}

	return Parse(path, data)
}

// Parse decodes manifest contents. path is used for error context only.
func Parse(path string, data []byte) (*Document, error) {
	tables := make(map[string]any)
	if err := toml.Unmarshal(data, &tables); err != nil {
		return nil, ferrors.New(ferrors.ErrCodeManifestParse,
			fmt.Sprintf("toolchain manifest %s is not valid TOML", path), err).
			WithDetail("path", path)
	}
	return &Document{Path: path, Tables: tables}, nil
}

// DeclaredMinimum returns package.minimum-toolchain-version as a version.
func (d *Document) DeclaredMinimum() (*semver.Version, error) {
	pkg, ok := d.Tables[PackageSection].(map[string]any)
	if !ok {
		return nil, ferrors.New(ferrors.ErrCodeMissingPackageSection,
			fmt.Sprintf("toolchain manifest %s has no [%s] table", d.Path, PackageSection), nil).
			WithDetail("path", d.Path).
			WithDetail("field", PackageSection)
	}

	field := PackageSection + "." + VersionField
	raw, ok := pkg[VersionField].(string)
	if !ok {
		return nil, ferrors.New(ferrors.ErrCodeMissingVersionField,
			fmt.Sprintf("toolchain manifest %s does not declare %s as a string", d.Path, field), nil).
			WithDetail("path", d.Path).
			WithDetail("field", field)
	}

	// Strict: "1.40" or "v1.40.0" must not be completed to a full version
	v, err := semver.StrictNewVersion(raw)
	if err != nil {
		return nil, ferrors.New(ferrors.ErrCodeInvalidVersionFormat,
			fmt.Sprintf("%s = %q in %s is not a semantic version", field, raw, d.Path), err).
			WithDetail("path", d.Path).
			WithDetail("field", field).
			WithDetail("value", raw)
	}
	return v, nil
}

// LoadDeclaredMinimum loads the manifest at path and returns its declared
// minimum compiler version.
func LoadDeclaredMinimum(path string) (*semver.Version, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}
	return doc.DeclaredMinimum()
}
