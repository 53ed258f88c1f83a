package core

// Ticket is the identity artifact produced by a successful authentication.
// The principal is opaque to this package; schemes decide what goes in it.
type Ticket struct {
	// Scheme is the name of the scheme that issued the ticket.
	Scheme string

	// Principal is the authenticated identity (claims, user record, etc.).
	Principal any

	// Properties carries scheme specific state such as expiry or return URLs.
	Properties map[string]string
}

// NewTicket builds a ticket for the given principal and scheme.
func NewTicket(principal any, scheme string) *Ticket {
	return &Ticket{
		Scheme:     scheme,
		Principal:  principal,
		Properties: make(map[string]string),
	}
}

// Outcome tags the variant held by a Result.
type Outcome int

const (
	// OutcomeNone means the scheme found nothing to authenticate.
	OutcomeNone Outcome = iota

	// OutcomeSuccess means a ticket was produced.
	OutcomeSuccess

	// OutcomeFailure means credentials were present but rejected.
	OutcomeFailure
)

// String returns the outcome name used in logs and metric labels.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	default:
		return "none"
	}
}

// Result is the immutable outcome of one authentication attempt.
// The zero value is equivalent to NoResult.
type Result struct {
	outcome Outcome
	ticket  *Ticket
	failure error
}

// Success returns a Result carrying the given ticket.
func Success(ticket *Ticket) Result {
	return Result{outcome: OutcomeSuccess, ticket: ticket}
}

// Fail returns a Result describing why authentication was rejected.
func Fail(reason error) Result {
	return Result{outcome: OutcomeFailure, failure: reason}
}

// NoResult returns a Result for requests that carried no credentials for the scheme.
func NoResult() Result {
	return Result{outcome: OutcomeNone}
}

// Outcome reports which variant the Result holds.
func (r Result) Outcome() Outcome { return r.outcome }

// Succeeded reports whether the Result carries a ticket.
func (r Result) Succeeded() bool { return r.outcome == OutcomeSuccess }

// Failed reports whether authentication was rejected.
func (r Result) Failed() bool { return r.outcome == OutcomeFailure }

// None reports whether nothing was authenticated.
func (r Result) None() bool { return r.outcome == OutcomeNone }

// Ticket returns the ticket of a successful Result, or nil.
func (r Result) Ticket() *Ticket { return r.ticket }

// Failure returns the rejection reason of a failed Result, or nil.
func (r Result) Failure() error { return r.failure }
