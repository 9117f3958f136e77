// Package reconcile compares a plan against the experience it was cloned
// from. HasDiverged answers whether the two have drifted apart;
// ComputeChangeset and ApplyChangeset build and apply a selective three-way
// sync. Every function here is pure: inputs are caller-owned snapshots and
// are never mutated, and no I/O happens inside the package.
package reconcile
