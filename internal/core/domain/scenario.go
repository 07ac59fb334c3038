package domain

// ScenarioResult is one row of a what-if comparison table.
// Rows keep the order of the input scenario list.
type ScenarioResult struct {
	// Scenario is the query variation that was retrieved.
	Scenario string

	// KeywordCount is the number of extracted terms.
	KeywordCount int

	// RowsReturned is the size of the retrieval result set.
	RowsReturned int

	// AvgScore is the average match score, 0 when no rows returned.
	AvgScore float64

	// LatencyMS is the wall-clock latency of this scenario's retrieval call.
	LatencyMS int64

	// Keywords is the comma-joined extracted term list.
	Keywords string

	// Err is set when this scenario's retrieval failed. Failures are
	// isolated per scenario; other rows are unaffected.
	Err string
}

// Failed reports whether this scenario's retrieval errored.
func (r ScenarioResult) Failed() bool {
	return r.Err != ""
}

// BestByAvgScore returns the index of the successful row with the highest
// average score. Ties are broken by first occurrence. Returns -1 when no
// row succeeded.
func BestByAvgScore(rows []ScenarioResult) int {
	best := -1
	for i, r := range rows {
		if r.Failed() {
			continue
		}
		if best == -1 || r.AvgScore > rows[best].AvgScore {
			best = i
		}
	}
	return best
}
