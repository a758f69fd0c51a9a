// Package journal keeps a local SQLite record of publish and review runs:
// every created task and every review decision, so that past work can be
// listed without asking the marketplace.
package journal
