package domain

// KeyPrefix is the global prefix for every key the service writes.
const KeyPrefix = "querybar:"
