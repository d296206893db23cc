package rest

import "github.com/kbukum/fluency/httpclient"

// IsNotFound reports a 404 response.
func IsNotFound(err error) bool { return httpclient.IsNotFound(err) }

// IsServerError reports a 5xx response.
func IsServerError(err error) bool { return httpclient.IsServerError(err) }

// IsRetryable reports whether err could succeed on retry.
func IsRetryable(err error) bool { return httpclient.IsRetryable(err) }
