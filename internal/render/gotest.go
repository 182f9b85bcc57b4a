package render

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"io"
	"strconv"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"
)

var errNoSuites = errors.New("no suites to render")

var goTestTemplate = template.Must(template.New("gotest").Parse(`// Code generated by autocase. DO NOT EDIT.

package {{.Package}}

import "testing"
{{range .Suites}}{{if .Normal}}
func Test{{.Name}}_Normal(t *testing.T) {
{{range .Normal}}{{if .Comment}}// {{.Comment}}
{{end}}{{range .Lines}}{{.}}
{{end}}{{end}}}
{{end}}{{if .Errors}}
func Test{{.Name}}_Errors(t *testing.T) {
{{range .Errors}}{{if .Comment}}// {{.Comment}}
{{end}}{{range .Lines}}{{.}}
{{end}}{{end}}}
{{end}}{{end}}`))

type goFile struct {
	Package string
	Suites  []goSuite
}

type goSuite struct {
	Name   string
	Normal []goCase
	Errors []goCase
}

type goCase struct {
	Comment string
	Lines   []string
}

// GoTest writes a gofmt-ed Go test file exercising every record: a
// Test<Func>_Normal function checking returned values and a
// Test<Func>_Errors function expecting a panic or a non-nil error. All
// suites must belong to the same package.
func GoTest(w io.Writer, suites []Suite) error {
	if len(suites) == 0 {
		return errNoSuites
	}

	file := goFile{Package: suites[0].Package}
	if file.Package == "" {
		return fmt.Errorf("suite %s has no package", suites[0].Func)
	}
	for _, s := range suites {
		if s.Package != file.Package {
			return fmt.Errorf("suite %s is not in package %s", s.Target(), file.Package)
		}
		gs := goSuite{Name: testName(s.Func)}
		for _, r := range s.Normal() {
			gs.Normal = append(gs.Normal, goCase{Comment: r.Path, Lines: normalCase(s, r)})
		}
		for _, r := range s.Errors() {
			gs.Errors = append(gs.Errors, goCase{Comment: r.Path, Lines: errorCase(s, r)})
		}
		file.Suites = append(file.Suites, gs)
	}

	var buf bytes.Buffer
	if err := goTestTemplate.Execute(&buf, file); err != nil {
		return fmt.Errorf("render go test: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("format go test: %w", err)
	}
	_, err = w.Write(src)
	return err
}

func testName(fn string) string {
	r, size := utf8.DecodeRuneInString(fn)
	return string(unicode.ToUpper(r)) + fn[size:]
}

func call(s Suite, r Record) string {
	return s.Func + "(" + strconv.Itoa(r.Arg) + ")"
}

// verbatim escapes a literal for use inside a format string.
func verbatim(s string) string { return strings.ReplaceAll(s, "%", "%%") }

func literal(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%#v", v)
}

func normalCase(s Suite, r Record) []string {
	c := call(s, r)
	values := r.Outcome.Values
	switch len(values) {
	case 0:
		return []string{c}
	case 1:
		want := literal(values[0])
		return []string{
			"if got := " + c + "; got != " + want + " {",
			"t.Errorf(" + strconv.Quote(c+" = %#v, want "+verbatim(want)) + ", got)",
			"}",
		}
	}

	names := make([]string, len(values))
	for i := range values {
		names[i] = "got" + strconv.Itoa(i)
	}
	lines := []string{"{", strings.Join(names, ", ") + " := " + c}
	for i, v := range values {
		want := literal(v)
		lines = append(lines,
			"if "+names[i]+" != "+want+" {",
			"t.Errorf("+strconv.Quote(c+" result "+strconv.Itoa(i)+" = %#v, want "+verbatim(want))+", "+names[i]+")",
			"}",
		)
	}
	return append(lines, "}")
}

func errorCase(s Suite, r Record) []string {
	c := call(s, r)
	if r.Outcome.Panic {
		return []string{
			"func() {",
			"defer func() {",
			"if recover() == nil {",
			"t.Errorf(" + strconv.Quote(c+" did not panic") + ")",
			"}",
			"}()",
			c,
			"}()",
		}
	}

	lhs := "err"
	if n := len(s.Results); n > 1 {
		lhs = strings.Repeat("_, ", n-1) + "err"
	}
	return []string{
		"if " + lhs + " := " + c + "; err == nil {",
		"t.Errorf(" + strconv.Quote(c+" returned no error") + ")",
		"}",
	}
}
