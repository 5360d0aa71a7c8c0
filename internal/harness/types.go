package harness

// Trace event types.
const (
	EventRender  = "render"
	EventInspect = "inspect"
	EventFetch   = "fetch"
	EventCount   = "count"
	EventDelete  = "delete"
)

// TraceEvent records one observable step of a scenario run.
type TraceEvent struct {
	Type     string           `json:"type"`
	Target   string           `json:"target,omitempty"`
	Dialect  string           `json:"dialect,omitempty"`
	Output   string           `json:"output,omitempty"`
	Args     []any            `json:"args,omitempty"`
	Table    string           `json:"table,omitempty"`
	Rows     []map[string]any `json:"rows,omitempty"`
	Count    *int64           `json:"count,omitempty"`
	Warnings []string         `json:"warnings,omitempty"`
	Seq      int64            `json:"seq"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every render expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace contains every render, inspection and database step in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	seq int64
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends an event, assigning it the next sequence number.
func (r *Result) AddTrace(event TraceEvent) {
	r.seq++
	event.Seq = r.seq
	r.Trace = append(r.Trace, event)
}
