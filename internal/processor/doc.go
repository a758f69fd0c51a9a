// Package processor contains the core workflow logic of turktranslate. It
// orchestrates publishing phrases to the marketplace, reviewing the worker
// assignments, and recording both in the journal. This package serves as
// the main coordinator between all other components.
package processor
