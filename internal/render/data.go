package render

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

func JSON(w io.Writer, suites []Suite) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(suites)
}

func YAML(w io.Writer, suites []Suite) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(suites); err != nil {
		return err
	}
	return enc.Close()
}
