package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrMethod  = "method"
	AttrPath    = "path"
	AttrStatus  = "status"
	AttrSource  = "source"
	AttrSection = "section"
	AttrChart   = "chart"
	AttrFormat  = "format"
	AttrOutcome = "outcome"
)

const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

func outcome(err error) string {
	if err != nil {
		return outcomeError
	}
	return outcomeOK
}
