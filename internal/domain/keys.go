package domain

// KeyPrefix namespaces every Redis key the service writes.
// Overridden from config at startup.
var KeyPrefix = "crashlens:"
