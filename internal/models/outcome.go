package models

// Reason classifies the outcome of one node fetch attempt.
type Reason string

// Fetch outcome reason codes.
const (
	ReasonOK        Reason = "ok"
	ReasonNotFound  Reason = "not_found"
	ReasonMalformed Reason = "malformed"
	ReasonTooShort  Reason = "too_short"
)

// FetchOutcome carries the result of one node fetch attempt. Article is set
// only when Reason is ReasonOK; Detail holds a human-readable note for the
// other reasons (status code, offending title, measured length).
type FetchOutcome struct {
	NodeID  int      `json:"nodeId"`
	Reason  Reason   `json:"reason"`
	Detail  string   `json:"detail,omitempty"`
	Article *Article `json:"article,omitempty"`
}

// OK reports whether the fetch produced a usable article.
func (o *FetchOutcome) OK() bool {
	return o.Reason == ReasonOK
}
