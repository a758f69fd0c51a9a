// Package archive keeps previous task and answer files instead of
// overwriting them.
package archive
