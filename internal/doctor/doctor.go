package doctor

import "time"

// Check is one diagnostic.
type Check interface {
	// Name returns the unique identifier for this check.
	Name() string

	// Category groups checks in the report, e.g. "config" or "locale".
	Category() string

	Run() *CheckResult
}

// Runner executes diagnostic checks and aggregates their results.
type Runner struct {
	checks []Check
	now    func() time.Time
}

// NewRunner creates a new diagnostic runner.
func NewRunner(checks ...Check) *Runner {
	return &Runner{
		checks: checks,
		now:    time.Now,
	}
}

// AddCheck registers a diagnostic check with the runner.
func (r *Runner) AddCheck(c Check) {
	r.checks = append(r.checks, c)
}

// Checks returns the registered checks in run order.
func (r *Runner) Checks() []Check {
	return r.checks
}

// Run executes all registered checks in order and returns a report.
func (r *Runner) Run() *Report {
	report := &Report{
		Timestamp: r.now().UTC(),
		Results:   make([]*CheckResult, 0, len(r.checks)),
	}

	for _, check := range r.checks {
		result := check.Run()
		if result.Name == "" {
			result.Name = check.Name()
		}
		if result.Category == "" {
			result.Category = check.Category()
		}
		report.Results = append(report.Results, result)

		switch result.Status {
		case SeverityPass:
			report.Summary.Passed++
		case SeverityInfo:
			report.Summary.Info++
		case SeverityWarning:
			report.Summary.Warnings++
		case SeverityError:
			report.Summary.Errors++
		}
	}

	return report
}

// Report aggregates all check results with timing and summary.
type Report struct {
	Timestamp time.Time      `json:"timestamp"`
	Results   []*CheckResult `json:"results"`
	Summary   Summary        `json:"summary"`
}

// HasErrors returns true if any check has SeverityError.
func (r *Report) HasErrors() bool {
	return r.Summary.Errors > 0
}

// HasWarnings returns true if any check has SeverityWarning.
func (r *Report) HasWarnings() bool {
	return r.Summary.Warnings > 0
}
