// Package resource defines the execution resources tasks are dispatched to.
// A resource decides where a function runs; it knows nothing about results,
// limits or fault isolation, which are layered on top by package scope.
package resource
