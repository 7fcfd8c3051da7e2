// Package httputil provides the JSON response and request helpers shared by
// the linegraph HTTP API.
//
// # Errors
//
// [WriteError] maps coded errors from pkg/errors onto HTTP status codes and
// writes them in one envelope:
//
//	{"code": "INVALID_INDEX", "message": "start vertex 9 out of range [0, 4)", "request_id": "..."}
//
// INVALID_* codes become 400, NOT_FOUND and FILE_NOT_FOUND become 404,
// UNSUPPORTED becomes 415, and everything else is a 500 whose message is
// replaced so internal details never leak.
//
// # Request IDs
//
// The request ID middleware stores its ID with [WithRequestID]; handlers and
// [WriteError] read it back with [RequestID].
package httputil
