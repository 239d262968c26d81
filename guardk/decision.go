package guardk

// Decision is the outcome of classifying a request
type Decision int8

const (
	// Allow lets the request through
	Allow Decision = iota + 1
	// Deny cancels the request
	Deny
)

// DecisionMap for printing
var DecisionMap = map[Decision]string{
	Allow: "allow",
	Deny:  "deny",
}

func (d Decision) String() string {
	if s, ok := DecisionMap[d]; ok {
		return s
	}
	return "invalid"
}

// Cancel reports the host's cancel flag for this decision
func (d Decision) Cancel() bool {
	return d == Deny
}

// Classifier decides what to do with a url
type Classifier func(url string) Decision
