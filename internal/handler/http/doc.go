// Package http implements the HTTP transport of the decklist API.
//
// It wires the chi router, the middleware chain (recovery, trace ids,
// access logging, hardening headers, CORS, compression, bearer token
// extraction and per-IP rate limiting of the auth endpoints) and the
// endpoint handlers that delegate to the service layer. Service errors are
// converted to status codes and {"error": ...} bodies in errors_mapper.go.
package http
