// Package gradle renders a Descriptor as the Kotlin DSL
// module build script consumed by the Android Gradle plugin.
package gradle

import (
	_ "embed"
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf16"

	"github.com/frantjc/appdesc"
	"github.com/frantjc/appdesc/flutter"
)

const (
	BuildFileName = "build.gradle.kts"
)

var (
	//go:embed build.gradle.kts.tmpl
	buildFileTmpl string

	buildFile = template.Must(
		template.New(BuildFileName).
			Funcs(template.FuncMap{"quote": kotlinQuote}).
			Parse(buildFileTmpl),
	)
)

type namedSigningConfig struct {
	appdesc.SigningConfig
	Name string
}

type namedBuildType struct {
	appdesc.BuildType
	Name string
}

type buildFileData struct {
	*appdesc.Descriptor
	Namespace      string
	JavaVersion    string
	SigningConfigs []namedSigningConfig
	BuildTypes     []namedBuildType
	Flutter        string
}

// Render writes d to w as a build.gradle.kts. Key store paths are written as
// authored and the source root relative to the Descriptor's directory, which
// is where the build script is expected to live.
func Render(w io.Writer, d *appdesc.Descriptor) error {
	data := &buildFileData{
		Descriptor:  d,
		Namespace:   d.GetNamespace(),
		JavaVersion: strings.ReplaceAll(d.GetJavaVersion(), ".", "_"),
	}

	for _, name := range slices.Sorted(maps.Keys(d.SigningConfigs)) {
		data.SigningConfigs = append(data.SigningConfigs, namedSigningConfig{SigningConfig: d.SigningConfigs[name], Name: name})
	}

	for _, name := range slices.Sorted(maps.Keys(d.BuildTypes)) {
		data.BuildTypes = append(data.BuildTypes, namedBuildType{BuildType: d.BuildTypes[name], Name: name})
	}

	if d.SourceRoot != "" && flutter.IsProject(d.SourceRoot) {
		data.Flutter = filepath.ToSlash(d.Rel(d.SourceRoot))
	}

	return buildFile.Execute(w, data)
}

// kotlinQuote returns s as a Kotlin string literal. '$' is escaped so that
// values are never treated as string templates.
func kotlinQuote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '$':
			b.WriteString(`\$`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if unicode.IsPrint(r) {
				b.WriteRune(r)
			} else if r > 0xFFFF {
				hi, lo := utf16.EncodeRune(r)
				fmt.Fprintf(&b, `\u%04x\u%04x`, hi, lo)
			} else {
				fmt.Fprintf(&b, `\u%04x`, r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
