package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError describes one expectation that did not hold.
type AssertionError struct {
	Query    string
	Check    string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: %s: expected %s, got %s", e.Query, e.Check, e.Expected, e.Actual)
}

// checkExpectation compares an observed query result with its expectation
// and returns one message per mismatch.
func checkExpectation(q QueryStep, qr QueryResult) []string {
	var errs []string
	fail := func(check, expected, actual string) {
		errs = append(errs, (&AssertionError{
			Query:    q.Name,
			Check:    check,
			Expected: expected,
			Actual:   actual,
		}).Error())
	}

	exp := q.Expect
	if qr.Error != "" || exp.Error != "" {
		if qr.Error != exp.Error {
			fail("error", orNone(exp.Error), orNone(qr.Error))
		}
		return errs
	}

	if exp.Branch != "" && exp.Branch != qr.Branch {
		fail("branch", exp.Branch, qr.Branch)
	}

	if exp.Score != nil && len(qr.Matches) > 0 && *exp.Score != qr.Score {
		fail("score", fmt.Sprintf("%g", *exp.Score), fmt.Sprintf("%g", qr.Score))
	}

	if exp.Matches != nil {
		want := slices.Sorted(slices.Values(exp.Matches))
		got := slices.Sorted(slices.Values(qr.Matches))
		if !slices.Equal(want, got) {
			fail("matches", listOf(want), listOf(got))
		}
	}

	return errs
}

func orNone(s string) string {
	if s == "" {
		return "no error"
	}
	return s
}

func listOf(items []string) string {
	return "[" + strings.Join(items, ", ") + "]"
}
