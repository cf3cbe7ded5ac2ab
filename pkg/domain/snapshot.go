package domain

// Snapshot is a serializable checkpoint of a run.
// Cells holds only non-blank positions.
type Snapshot struct {
	Initial State      `json:"initial_state"`
	State   State      `json:"state"`
	Head    int64      `json:"head"`
	Step    uint64     `json:"step"`
	Status  Status     `json:"status"`
	Reason  HaltReason `json:"reason,omitempty"`
	Cells   []Cell     `json:"cells"`
}
