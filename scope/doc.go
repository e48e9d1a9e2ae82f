// Package scope binds a supervised launching context to an execution
// resource. Every task launched through a Scope is tracked until it
// finishes, its error or panic is captured locally and handed to the
// caller's completion callback, and a failing task never cancels the
// scope or its siblings. A Limiter placed between the scope and the
// resource caps how many tasks run at once, admitting the rest in FIFO
// order.
package scope
