// Package layout implements multi-column layout on top of the document model:
// the commands a toolbar invokes ([InsertColumns], [SetColumnVerticalAlign],
// [RemoveColumn], plus the generic editing commands that interact with
// columns) and the [Plugin] that keeps every column tree well-formed.
//
// # Invariants
//
// The plugin enforces four rules on every transaction, derived only from the
// tree it is given:
//
//  1. A content deletion that leaves a columns node with no columns removes
//     the columns node from its parent.
//  2. Joining a block backward across a column boundary is dropped; columns
//     are isolated editing regions.
//  3. An explicit column removal that would remove the last column fails
//     with INVARIANT_VIOLATION ("minimum column count").
//  4. A column without verticalAlign gets "top" before commit.
//
// Rules 1 and 3 are told apart by the [MetaColumnRemoval] transaction flag,
// which only [RemoveColumn] sets.
//
// # Commands
//
// Commands implement [Command]. They build a transaction against the current
// tree and cursor; the editor session runs it through the mediator. A command
// that does not apply at the cursor returns a nil transaction, which callers
// report as "not applicable" rather than as an error.
package layout
