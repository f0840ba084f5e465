package domain

// KeyPrefix namespaces every key bibdex writes to the key-value store.
const KeyPrefix = "bibdex:"
