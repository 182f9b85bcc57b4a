package runner

import (
	"context"
	"fmt"
	"strings"
)

// Outcome is what one call of the target produced: its return values, or the
// failure it raised. Raised holds the failure message, which may be empty;
// Panic and Error tell which kind of failure it was.
type Outcome struct {
	Values []any  `json:"values,omitempty" yaml:"values,omitempty"`
	Raised string `json:"raised,omitempty" yaml:"raised,omitempty"`
	Panic  bool   `json:"panic,omitempty" yaml:"panic,omitempty"`
	Error  bool   `json:"error,omitempty" yaml:"error,omitempty"`
}

func (o Outcome) Failed() bool { return o.Panic || o.Error }

func (o Outcome) String() string {
	if o.Failed() {
		if o.Panic {
			return "panic(" + o.Raised + ")"
		}
		return "error " + o.Raised
	}
	parts := make([]string, len(o.Values))
	for i, v := range o.Values {
		parts[i] = fmt.Sprintf("%#v", v)
	}
	return strings.Join(parts, ", ")
}

// Runner executes the target for one argument. A failure raised by the
// target is part of the Outcome; an error means the run itself could not be
// carried out.
type Runner interface {
	Run(ctx context.Context, arg int) (Outcome, error)
}
