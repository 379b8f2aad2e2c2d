// Package priva implements the battle tracker behind a priva: a small
// invite-only competition of up to ten players who are split into two
// teams battle after battle.
//
// A Priva is a state machine over a roster, a battle ledger and an event
// log. Every mutating operation validates its input completely, applies
// its change and appends exactly one Entry to the log; Undo pops the last
// entry and applies its inverse.
//
// Instances are not safe for concurrent use. Callers sharing one across
// goroutines must serialise access themselves (the service package keeps
// a mutex per instance).
package priva
