package resolve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/laggycomputer/grebe/classify"
)

// DropDuplicate is the resolver-level drop reason: a pair whose raw bytes
// never reach a physical write because a bin-collision policy superseded
// or absorbed them (KeepFirst's later arrivals, KeepLast/KeepLongest*'s
// replaced predecessor, QualityVote's folded-in contributors).
const DropDuplicate classify.DropReason = "duplicate"

// Metrics is the single counter struct for one run, formatted with a
// stable key order so tests can assert on the struct directly instead of
// parsing prose.
type Metrics struct {
	RecordsTotal          int
	RecordsWritten        int
	UnpairedForward       int
	UnpairedReverse       int
	GoodRecords           int
	RecordsHeldUntilFlush int
	DropReasons           map[classify.DropReason]int
}

// NewMetrics returns a zeroed Metrics.
func NewMetrics() *Metrics {
	return &Metrics{DropReasons: make(map[classify.DropReason]int)}
}

func (m *Metrics) addDrop(reason classify.DropReason) {
	m.DropReasons[reason]++
}

// Conserved reports whether the conservation identity of property 1 holds:
// records_total = records_written + unpaired.0 + unpaired.1 +
// Σ drop_reasons + records_held_until_flush.
func (m *Metrics) Conserved() bool {
	sum := m.RecordsWritten + m.UnpairedForward + m.UnpairedReverse + m.RecordsHeldUntilFlush
	for _, n := range m.DropReasons {
		sum += n
	}
	return sum == m.RecordsTotal
}

// Summary renders the end-of-run stderr report: counts of dropped pairs
// by reason, filtered/written totals, and unpaired counts. Exact prose is
// not contractual; the counts are.
func (m *Metrics) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "records_total=%d records_written=%d good_records=%d\n", m.RecordsTotal, m.RecordsWritten, m.GoodRecords)
	fmt.Fprintf(&b, "unpaired_forward=%d unpaired_reverse=%d\n", m.UnpairedForward, m.UnpairedReverse)

	reasons := make([]string, 0, len(m.DropReasons))
	for r := range m.DropReasons {
		reasons = append(reasons, string(r))
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		fmt.Fprintf(&b, "dropped[%s]=%d\n", r, m.DropReasons[classify.DropReason(r)])
	}
	return b.String()
}
