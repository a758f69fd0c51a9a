// Package reviewer collects worker answers for published tasks. For each
// task it reads the submitted responses, extracts the translated sentence,
// lets a Decider accept or reject new submissions and finalizes the
// decision on the marketplace.
package reviewer
