package runner

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/turing/pkg/domain"
)

// TextRenderer prints one line per configuration:
//
//	step=3 state=B head=1 tape=**_
func TextRenderer(w io.Writer) Renderer {
	if w == nil {
		w = os.Stdout
	}
	return func(cfg domain.Configuration) {
		fmt.Fprintf(w, "step=%d state=%s head=%d tape=%s\n", cfg.Step, cfg.State, cfg.Head, span(cfg))
	}
}

// ConfigurationLine is the JSON-Lines shape written by JSONRenderer.
type ConfigurationLine struct {
	Step  uint64        `json:"step"`
	State domain.State  `json:"state"`
	Head  int64         `json:"head"`
	Read  domain.Symbol `json:"read"`
	Cells []domain.Cell `json:"cells"`
}

// JSONRenderer writes one JSON object per configuration.
func JSONRenderer(w io.Writer) Renderer {
	if w == nil {
		w = os.Stdout
	}
	enc := json.NewEncoder(w)
	return func(cfg domain.Configuration) {
		line := ConfigurationLine{
			Step:  cfg.Step,
			State: cfg.State,
			Head:  cfg.Head,
			Read:  cfg.Symbol(),
			Cells: []domain.Cell{},
		}
		if low, high, ok := cfg.Tape.Bounds(); ok {
			line.Cells = cfg.Tape.Range(low, high)
		}
		_ = enc.Encode(line)
	}
}

// span renders the written part of the tape, widened to include the head.
func span(cfg domain.Configuration) string {
	low, high, ok := cfg.Tape.Bounds()
	if !ok {
		low, high = cfg.Head, cfg.Head
	}
	low, high = min(low, cfg.Head), max(high, cfg.Head)
	buf := make([]rune, 0, high-low+1)
	for p := low; p <= high; p++ {
		buf = append(buf, rune(cfg.Tape.Read(p)))
	}
	return string(buf)
}
