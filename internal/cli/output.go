package cli

import (
	"encoding/json"
	"io"

	"github.com/aretw0/turing/pkg/domain"
)

// ResultLine is the last JSON line of a --json run.
type ResultLine struct {
	Status domain.Status     `json:"status"`
	Reason domain.HaltReason `json:"reason,omitempty"`
	Steps  uint64            `json:"steps"`
	State  domain.State      `json:"state"`
	Head   int64             `json:"head"`
	Error  string            `json:"error,omitempty"`
}

func writeResultJSON(w io.Writer, res domain.Result, err error) {
	line := ResultLine{
		Status: res.Status,
		Reason: res.Reason,
		Steps:  res.Steps,
		State:  res.State,
		Head:   res.Head,
	}
	if err != nil {
		line.Error = err.Error()
	}
	_ = json.NewEncoder(w).Encode(line)
}
