package entity

// CheckResult итог одного правила
type CheckResult struct {
	RuleID   int64          `json:"check_id"`
	RuleName string         `json:"check_name"`
	Passed   bool           `json:"passed"`
	Message  string         `json:"message"`
	Details  map[string]any `json:"details"`
}

// AggregateCheckResult итог всех правил одной инспекции.
// OverallPass истинно тогда и только тогда, когда прошли все правила;
// пустой набор правил считается пройденным.
type AggregateCheckResult struct {
	OverallPass bool          `json:"overall_pass"`
	Results     []CheckResult `json:"individual_results"`
	Total       int           `json:"total_checks"`
	PassedCount int           `json:"passed_checks"`
	FailedCount int           `json:"failed_checks"`
}

// Aggregate сводит результаты правил в общий вердикт
func Aggregate(results []CheckResult) AggregateCheckResult {
	agg := AggregateCheckResult{
		OverallPass: true,
		Results:     results,
		Total:       len(results),
	}
	if agg.Results == nil {
		agg.Results = []CheckResult{}
	}

	for _, r := range results {
		if r.Passed {
			agg.PassedCount++
		} else {
			agg.FailedCount++
			agg.OverallPass = false
		}
	}

	return agg
}
