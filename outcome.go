package obras

// SkipReason explains why a listing row produced no output record.
type SkipReason string

// Skip reasons.
const (
	SkipNone         SkipReason = ""
	SkipNoIdentifier SkipReason = "no-identifier"
	SkipFetchFailed  SkipReason = "fetch-failed"
	SkipParseFailed  SkipReason = "parse-failed"
)

// Outcome is the result of processing one listing row: either a Record or
// a Skip reason with the error that caused it.
type Outcome struct {
	Index   int
	Summary ProjectSummary
	URL     string

	Record *OutputRecord

	Skip SkipReason
	Err  error
}

// OK reports whether the row produced a record.
func (o *Outcome) OK() bool {
	return o.Record != nil
}
