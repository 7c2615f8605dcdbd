// Package orchestration runs sequence tasks. A task consumes an immutable
// plan.Plan, materializes the requested index window with a generator,
// filters it in parallel chunks and reports Progress events followed by one
// Result event on a Stream the caller drains.
//
// The task moves through Validating, Generating, Filtering and Completed.
// Misconfigured plans (no seed, no range, inverted range) are not errors:
// they complete with an empty Result, exactly like a plan with nothing to do.
package orchestration
