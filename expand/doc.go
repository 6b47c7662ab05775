// Package expand implements the guard expansion engine: a deterministic,
// stateless rewrite of one marker invocation into explicit control flow.
//
// # Model
//
// An [Invocation] is the structural record of one use site: its form
// (binding or expression), the target expression, the escape statement, and
// an optional fallback block. A [Context] records the lexical position of
// the site: the enclosing function signature, enclosing loops and switches,
// visible labels, and the identifiers already in scope.
//
// [Expand] maps one Invocation to a [Result] holding the generated
// statements:
//
//	name, ok := target.Get()
//	if !ok {
//		{ fallback block, when supplied }
//		escape statement
//	}
//
// The target expression appears exactly once in the output, so it is
// evaluated exactly once regardless of form, presence, or fallback. Fresh
// identifiers (the ok flag, the expression-form temporary) are chosen
// against the Context so generated names never capture or shadow names the
// surrounding code uses.
//
// The escape statement always follows the fallback block: a fallback that
// completes normally does not suppress the escape. A fallback that wants a
// different exit must itself transfer control.
//
// # Failure
//
// Every failure is an expansion-time [Diagnostic] located at the invocation:
// [TypeMismatch] when the target is not statically optional,
// [InvalidControlTransfer] when the escape is not legal at the site, and
// [MalformedInvocation] for argument or position misuse. There is no partial
// expansion; a diagnostic aborts the rewrite of the whole file.
package expand
