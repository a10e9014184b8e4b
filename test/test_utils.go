// Package test holds helpers shared by package tests: per-case timing and a suite
// summary printed at the end of a test function.
package test

import (
	"fmt"
	"testing"
	"time"
)

// TestTimer is a utility for measuring test execution time
type TestTimer struct {
	start time.Time
	name  string
}

// NewTestTimer creates a new test timer
func NewTestTimer(name string) *TestTimer {
	return &TestTimer{start: time.Now(), name: name}
}

// Stop returns the elapsed time since the timer started.
func (t *TestTimer) Stop() time.Duration {
	return time.Since(t.start)
}

// TestResult represents the result of a test with timing information
type TestResult struct {
	Name     string
	Duration time.Duration
	Passed   bool
}

// TestSuiteResult collects the results of the cases run through Run.
type TestSuiteResult struct {
	SuiteName   string
	TotalTests  int
	PassedTests int
	FailedTests int
	TotalTime   time.Duration
	Results     []TestResult
}

// NewTestSuiteResult creates a new test suite result
func NewTestSuiteResult(suiteName string) *TestSuiteResult {
	return &TestSuiteResult{SuiteName: suiteName}
}

// AddResult adds a test result to the suite
func (s *TestSuiteResult) AddResult(r TestResult) {
	s.Results = append(s.Results, r)
	s.TotalTests++
	s.TotalTime += r.Duration
	if r.Passed {
		s.PassedTests++
	} else {
		s.FailedTests++
	}
}

// Run executes fn as a subtest, records its duration and outcome in the suite.
func (s *TestSuiteResult) Run(t *testing.T, name string, fn func(t *testing.T)) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		timer := NewTestTimer(name)
		defer func() {
			s.AddResult(TestResult{Name: name, Duration: timer.Stop(), Passed: !t.Failed()})
		}()
		fn(t)
	})
}

// PrintSummary logs a summary of the suite through t.
func (s *TestSuiteResult) PrintSummary(t *testing.T) {
	t.Helper()
	if s.TotalTests == 0 {
		return
	}
	t.Logf("📊 %s: %d passed, %d failed, total %v (%.2f%% success)",
		s.SuiteName, s.PassedTests, s.FailedTests, s.TotalTime,
		float64(s.PassedTests)/float64(s.TotalTests)*100)
	for _, r := range s.Results {
		status := "✅"
		if !r.Passed {
			status = "❌"
		}
		t.Log(fmt.Sprintf("   %s %s: %v", status, r.Name, r.Duration))
	}
}
