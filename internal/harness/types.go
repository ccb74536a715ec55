package harness

// QueryResult is the observed outcome of one scenario query.
type QueryResult struct {
	Name string `json:"name"`

	// Branch is the planning branch, empty when the condition was rejected.
	Branch string `json:"branch,omitempty"`

	// Selections renders each selected partition with its bounds.
	Selections []string `json:"selections,omitempty"`

	// Predicate is the composed predicate in queryir.Format notation.
	Predicate string `json:"predicate,omitempty"`

	// Matches are "key@tt_from" labels of the hits, sorted.
	Matches []string `json:"matches"`

	// Score is the score shared by every hit.
	Score float64 `json:"score"`

	// Error is the condition error code when the query was rejected.
	Error string `json:"error,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expectation held and both backends agreed.
	Pass bool `json:"pass"`

	// Queries holds one entry per scenario query, in scenario order.
	Queries []QueryResult `json:"queries"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Queries: []QueryResult{},
		Errors:  []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
