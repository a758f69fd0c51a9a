// Package task holds the records exchanged between the publish and review
// steps: task descriptors mapping phrases to remote tasks, and the answers
// accepted during review, together with their file naming and JSON storage.
package task
