package yahooModel

// SparkResponse mirrors the Yahoo v7 spark answer, trimmed to the fields we
// read. Close entries are pointers because Yahoo emits null for dates where a
// symbol has no bar.
type SparkResponse struct {
	Spark struct {
		Result []SparkResult `json:"result"`
		Error  any           `json:"error"`
	} `json:"spark"`
}

type SparkResult struct {
	Symbol   string `json:"symbol"`
	Response []struct {
		Timestamp []int64    `json:"timestamp"`
		Close     []*float64 `json:"close"`
	} `json:"response"`
}
