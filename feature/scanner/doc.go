// Package scanner exposes scan sessions over HTTP.
//
// A client mounts a session, feeds it decoded codes and draft fields, and
// saves. Each request maps to one session event; events the current phase
// does not accept are answered with 409 and the unchanged session. Lookups
// and commits run in the background: the response is 202 while they are in
// flight, or the final state when ?wait=true is given.
//
// # HTTP Endpoints
//
//   - POST /scan/sessions : Create a session.
//   - GET /scan/sessions/:id : Session state (?wait=true blocks until no work is in flight).
//   - DELETE /scan/sessions/:id : Close a session.
//   - POST /scan/sessions/:id/decode : Submit a decoded code.
//   - PUT /scan/sessions/:id/draft : Set note, author or media.
//   - POST /scan/sessions/:id/media : Upload an image (multipart "file").
//   - POST /scan/sessions/:id/edit : Edit the matched record.
//   - POST /scan/sessions/:id/save : Commit the draft.
//   - POST /scan/sessions/:id/rescan : Abandon and return to idle.
package scanner
