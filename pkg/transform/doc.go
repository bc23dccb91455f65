// Package transform applies edits to document trees as atomic transactions.
//
// A [Transaction] is a labelled list of primitive [Step] values (insert,
// delete, set attribute, insert text, join). The [Mediator] is the single
// entry point for mutation: it lets each [Plugin] filter the proposed
// transaction, applies the steps to a private copy of the tree, lets each
// plugin repair the result, and validates it against the schema registry.
// The input tree is never modified, so a rejected transaction leaves the
// caller's document exactly as it was.
//
// [History] records one before/after pair per committed transaction, which is
// what makes a multi-node edit a single undo step.
package transform
