// Package phrase defines the source phrase records that are sent out for
// translation. It reads phrase files, validates entity annotations before
// anything is published, and compares worker answers against the entities
// of the source phrase.
package phrase
