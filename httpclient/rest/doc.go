// Package rest adds typed JSON helpers on top of httpclient.
//
//	c, _ := rest.New(httpclient.Config{BaseURL: baseURL})
//	resp, err := rest.Post[Ack](ctx, c, "/update-json/"+url.PathEscape(name), doc)
package rest
