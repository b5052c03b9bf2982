package port

// Authorizer gates corpus mutation. How credentials are stored and
// sessions are managed is deliberately outside the pipeline; the
// orchestrator only asks yes or no.
type Authorizer interface {
	Authorize(token string) error
}
