// Package session implements the scan-to-commit state machine.
//
// A session moves through five phases:
//
//	Idle -> Resolving -> Viewing  -> Idle          (rescan)
//	                  -> Drafting -> Saving -> Idle (commit)
//
// Transition is a pure function from (State, Event) to (State, Effect).
// Session wraps it with a runner that executes lookup and commit effects on
// background goroutines and feeds their completions back as events, so every
// await point is an observable phase. Committed records are applied to the
// shared listing cache.
//
// Decodes arriving outside Idle are dropped, which debounces a camera that
// keeps reporting the same code. A failed commit returns to Drafting with the
// draft intact; a failed lookup returns to Idle and is never treated as
// "not found".
package session
