package gendto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/awmpietro/autocase/internal/app"
	"github.com/awmpietro/autocase/internal/branch"
	"github.com/awmpietro/autocase/internal/render"
)

type GenerateRequest struct {
	Filename string   `json:"filename,omitempty"`
	Source   string   `json:"source"`
	Funcs    []string `json:"funcs,omitempty"`
	WithPath *bool    `json:"with_path,omitempty"`
	Format   string   `json:"format,omitempty"`
}

// Request converts the payload; withPath applies when the payload leaves
// with_path unset.
func (r GenerateRequest) Request(withPath bool) app.Request {
	if r.WithPath != nil {
		withPath = *r.WithPath
	}
	return app.Request{
		Filename: r.Filename,
		Source:   []byte(r.Source),
		Funcs:    r.Funcs,
		WithPath: withPath,
	}
}

type GenerateResponse struct {
	*app.Result
	GoTest string `json:"go_test,omitempty"`
}

// Encode renders a result in the requested format: "json" (default), "go"
// (json plus the generated test file) or "yaml".
func Encode(res *app.Result, format string) (string, []byte, error) {
	switch format {
	case "", "json":
		b, err := json.Marshal(GenerateResponse{Result: res})
		return "application/json", b, err
	case "go":
		out := GenerateResponse{Result: res}
		if len(res.Suites) > 0 {
			var buf bytes.Buffer
			if err := render.GoTest(&buf, res.Suites); err != nil {
				return "", nil, err
			}
			out.GoTest = buf.String()
		}
		b, err := json.Marshal(out)
		return "application/json", b, err
	case "yaml":
		var buf bytes.Buffer
		if err := render.YAML(&buf, res.Suites); err != nil {
			return "", nil, err
		}
		return "application/yaml", buf.Bytes(), nil
	}
	return "", nil, fmt.Errorf("unknown format %q", format)
}

func ErrorBody(msg string, err error) map[string]any {
	body := map[string]any{
		"error":   msg,
		"details": err.Error(),
	}
	var unsupported *branch.UnsupportedError
	if errors.As(err, &unsupported) {
		body["construct"] = unsupported.Construct
		if unsupported.Line > 0 {
			body["line"] = unsupported.Line
		}
	}
	return body
}
