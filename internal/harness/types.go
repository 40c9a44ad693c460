package harness

// Trace event types.
const (
	EventQuery    = "query"
	EventResponse = "response"
)

// TraceEvent records a range query or an HTTP response.
type TraceEvent struct {
	Seq  int64  `json:"seq"`
	Type string `json:"type"` // "query" or "response"

	// Query fields. Bounds are formatted with strconv 'g' so infinities survive JSON.
	DepthMin string `json:"depth_min,omitempty"`
	DepthMax string `json:"depth_max,omitempty"`
	Rows     *int   `json:"rows,omitempty"`
	Error    string `json:"error,omitempty"`

	// Response fields.
	Target      string `json:"target,omitempty"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Image       string `json:"image,omitempty"` // "WxH" of a decoded PNG body
	Body        string `json:"body,omitempty"`  // non-PNG bodies
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expectation and assertion matched.
	Pass bool `json:"pass"`

	// Trace contains queries and responses in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// LoadErr is the error from loading the CSV, if any.
	LoadErr error `json:"-"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
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

// Responses returns the response events in order.
func (r *Result) Responses() []TraceEvent {
	var out []TraceEvent
	for _, e := range r.Trace {
		if e.Type == EventResponse {
			out = append(out, e)
		}
	}
	return out
}
