// Package orchestrate drives a chain of forked repositories through the
// forgeseal client: deploying workflow files, sealing secrets onto the
// active fork, rotating to the next account when billing minutes run
// out, and reporting account health.
//
// The package owns no credentials of its own; it is handed one
// forgeseal.Client per account and the persisted chain state, and every
// operation takes a context.
package orchestrate
