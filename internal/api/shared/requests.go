package shared

// MaxBodyBytes caps the size of JSON request bodies.
const MaxBodyBytes = 1 << 20
