package harness

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
)

// probabilityTolerance bounds floating-point drift in probability sums.
const probabilityTolerance = 1e-9

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions checks every assertion against the subject and returns
// the failure messages.
func EvaluateAssertions(sub *subject, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluate(sub, a); err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return failures
}

func evaluate(sub *subject, a Assertion) error {
	switch a.Type {
	case AssertCounts:
		return assertCounts(sub, a)
	case AssertPool:
		return assertPool(sub, a)
	case AssertNeverDrawn:
		return assertNeverDrawn(sub, a)
	case AssertMaxGap:
		if gap := sub.eng.MaxDrawCountGap(); gap > *a.Value {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("gap <= %d", *a.Value),
				Actual:   strconv.Itoa(gap),
			}
		}
	case AssertRound:
		return assertEqualInt(a.Type, *a.Value, sub.eng.CurrentRound())
	case AssertTotalDraws:
		return assertEqualInt(a.Type, *a.Value, sub.eng.TotalDraws())
	case AssertProbabilitySum:
		return assertProbabilitySum(sub)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

func assertCounts(sub *subject, a Assertion) error {
	want := make(map[string]int, len(a.Counts)+len(a.CellCounts))
	for id, c := range a.Counts {
		want[strconv.Itoa(id)] = c
	}
	maps.Copy(want, a.CellCounts)

	var mismatches []string
	for _, label := range slices.Sorted(maps.Keys(want)) {
		got, err := sub.count(label)
		if err != nil {
			return err
		}
		if got != want[label] {
			mismatches = append(mismatches, fmt.Sprintf("%s: want %d, got %d", label, want[label], got))
		}
	}
	if len(mismatches) > 0 {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("counts %v", want),
			Actual:   strings.Join(mismatches, "; "),
		}
	}
	return nil
}

func assertPool(sub *subject, a Assertion) error {
	want := sub.expected(a.IDs, a.Cells)
	got := sub.pool()
	if !slices.Equal(want, got) {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%v", want),
			Actual:   fmt.Sprintf("%v", got),
		}
	}
	return nil
}

func assertNeverDrawn(sub *subject, a Assertion) error {
	var drawn []string
	for _, label := range sub.expected(a.IDs, a.Cells) {
		c, err := sub.count(label)
		if err != nil {
			return err
		}
		if c != 0 {
			drawn = append(drawn, fmt.Sprintf("%s drawn %d times", label, c))
		}
	}
	if len(drawn) > 0 {
		return &AssertionError{
			Type:     a.Type,
			Expected: "no draws",
			Actual:   strings.Join(drawn, "; "),
		}
	}
	return nil
}

func assertProbabilitySum(sub *subject) error {
	sum := 0.0
	for _, p := range sub.eng.Probabilities() {
		sum += p
	}

	want := 1.0
	if len(sub.eng.Pool()) == 0 {
		want = 0
	}
	if math.Abs(sum-want) > probabilityTolerance {
		return &AssertionError{
			Type:     AssertProbabilitySum,
			Expected: strconv.FormatFloat(want, 'g', -1, 64),
			Actual:   strconv.FormatFloat(sum, 'g', -1, 64),
		}
	}
	return nil
}

func assertEqualInt(kind string, want, got int) error {
	if want != got {
		return &AssertionError{Type: kind, Expected: strconv.Itoa(want), Actual: strconv.Itoa(got)}
	}
	return nil
}
