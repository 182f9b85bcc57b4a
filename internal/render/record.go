package render

import (
	"github.com/awmpietro/autocase/internal/runner"
)

// Record is one generated case: the argument picked for a path and what the
// target did with it.
type Record struct {
	Arg     int            `json:"arg" yaml:"arg"`
	Outcome runner.Outcome `json:"outcome" yaml:"outcome"`
	Path    string         `json:"path,omitempty" yaml:"path,omitempty"`
}

// Suite groups the records of one target function.
type Suite struct {
	Package string   `json:"package" yaml:"package"`
	Func    string   `json:"func" yaml:"func"`
	Param   string   `json:"param" yaml:"param"`
	Results []string `json:"results,omitempty" yaml:"results,omitempty"`
	Pruned  int      `json:"pruned" yaml:"pruned"`
	Records []Record `json:"records" yaml:"records"`
}

func (s Suite) Target() string {
	if s.Package == "" {
		return s.Func
	}
	return s.Package + "." + s.Func
}

// Normal returns the records whose call returned.
func (s Suite) Normal() []Record {
	var out []Record
	for _, r := range s.Records {
		if !r.Outcome.Failed() {
			out = append(out, r)
		}
	}
	return out
}

// Errors returns the records whose call panicked or returned an error.
func (s Suite) Errors() []Record {
	var out []Record
	for _, r := range s.Records {
		if r.Outcome.Failed() {
			out = append(out, r)
		}
	}
	return out
}
