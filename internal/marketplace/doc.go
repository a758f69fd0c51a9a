// Package marketplace talks to the crowdsourcing marketplace. It defines the
// operations the publish and review workflows consume and implements them on
// top of the Amazon Mechanical Turk API, guarded by a circuit breaker so a
// failed call stops the session instead of being retried.
package marketplace
