// Package service contains the application-specific use cases of the
// scheduler. It orchestrates domain objects, the review policy engine,
// and the store interfaces to fulfill the review, folder, streak, and
// stats features.
//
// Services receive dependencies through constructor injection and apply
// transactional boundaries (via store.Transactor) when an operation
// spans multiple repositories, such as submitting a review, which
// updates the card, appends a review log, advances the streak, and may
// complete a folder atomically.
//
// Domain and store errors are translated into service error types here;
// the API layer maps those to HTTP status codes without ever inspecting
// store internals.
package service
