package internal

// Version is the current turktranslate release.
const Version = "0.3.1"
