// Package resilience wraps outbound calls with retry, circuit breaking and
// concurrency limits.
//
// The gateway client retries transient transport failures and fails fast
// once the remote service looks unhealthy:
//
//	cb := resilience.NewCircuitBreaker(resilience.DefaultBreakerConfig("gateway"))
//	resp, err := resilience.Retry(ctx, retryCfg, func() (*Response, error) {
//	    var r *Response
//	    err := cb.Execute(func() (e error) { r, e = send(); return })
//	    return r, err
//	})
//
// The archive service bounds concurrent transcriptions with a Bulkhead.
package resilience
