// Package httpclient is the outbound HTTP client used to reach the
// transcription service and the faster-whisper sidecar.
//
// A Client resolves request paths against a base URL, encodes JSON and
// multipart bodies, applies default headers and auth, propagates the trace
// context, and classifies failures into *Error values. Retry and circuit
// breaking come from the resilience package and are enabled per Config:
//
//	c, err := httpclient.New(httpclient.Config{
//	    BaseURL: "http://localhost:8000",
//	    Retry:   httpclient.DefaultRetryConfig(),
//	})
//	resp, err := c.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/upload",
//	    Body:   &httpclient.MultipartBody{Files: []httpclient.FileField{{FieldName: "file", FileName: name, Data: audio}}},
//	})
//
// The rest subpackage layers typed JSON helpers on top.
package httpclient
