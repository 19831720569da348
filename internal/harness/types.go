package harness

// TraceEvent is one executed step. Ids are rendered as labels: decimal for
// line targets, "ROW:COL" for grid targets.
type TraceEvent struct {
	Seq    int      `json:"seq"`
	Phase  string   `json:"phase"` // "setup" or "step"
	Op     string   `json:"op"`
	Input  string   `json:"input,omitempty"`
	Output []string `json:"output,omitempty"`
	Error  string   `json:"error,omitempty"`
	Round  int      `json:"round"`
	Pool   []string `json:"pool"`
}

// FinalEntry is the end state of one active id.
type FinalEntry struct {
	Label     string `json:"label"`
	Count     int    `json:"count"`
	LastRound int    `json:"last_round"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass is true when every step expectation and assertion held.
	Pass bool `json:"pass"`

	// EngineID is the deterministic ID of the engine under test.
	EngineID string `json:"engine_id"`

	Trace []TraceEvent `json:"trace"`

	// Final lists the active ids after the last step, ascending.
	Final []FinalEntry `json:"final"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Final:  []FinalEntry{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
