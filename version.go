package menuflow

// Version is the library version, surfaced by the CLI.
const Version = "0.4.1"
