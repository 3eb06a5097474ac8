// Package http implements the AirComix wire protocol over a chi router.
//
// The protocol is fixed by the third-party mobile client and is plain text
// throughout:
//
//	GET /            -> base name of the manga root directory
//	GET /welcome.102 -> server capability lines (allowDownload, allowImageProcess)
//	GET /health      -> health lines; 503 when the collection is unreachable
//	GET /manga/*     -> unified resolver: directory and archive listings as
//	                    newline-separated entry names, images as byte streams
//
// Listing responses are serialized byte-for-byte as the client expects: one
// UTF-8 name per line, no trailing newline, no JSON, no extra whitespace,
// entries in the resolver's order.
//
// Error mapping: comixd.ErrNotFound -> 404; comixd.ErrInvalidPath and
// comixd.ErrAccessDenied -> 403 (the body never reveals which, to avoid
// probing the filesystem layout); comixd.ErrArchive and everything else
// -> 500. Bodies are terse; detail is only appended in debug mode.
//
// Middleware: request-scoped logging with generated request IDs, optional
// HTTP Basic authentication (password-only, /health exempt), and CORS for
// debug deployments.
package http
