// Package clientip resolves the address of the caller of an HTTP request.
//
// Behind a reverse proxy, enable trustProxy so CF-Connecting-IP,
// X-Forwarded-For and X-Real-IP are honored; otherwise only RemoteAddr is
// used, since those headers are client controlled. The address feeds
// request logs and per-client rate limiting.
package clientip
