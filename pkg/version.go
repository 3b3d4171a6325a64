package journey

// Version is the current client release.
const Version = "0.3.0"
