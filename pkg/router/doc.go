// Package router dispatches named modelling operations onto the bound
// vendor adapter. It validates argument shape, enforces the adapter's
// capability set, serializes access to the non-reentrant vendor automation
// channel, and normalizes every outcome into a {result, error} envelope
// carrying the fixed error taxonomy.
package router
