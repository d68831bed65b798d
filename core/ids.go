package core

// RowID is a dense, internal identifier for a record of the input table.
// It is strictly 32-bit, allowing for max 4 billion rows per run.
// Used for all hot-path structures (groupify entries, snapshots, row sets).
type RowID uint32

// ValueID is a dense, per-column identifier for an attribute value.
// ID 0 is reserved for the suppression sentinel in every column.
type ValueID uint32

// SuppressedValue is the reserved ValueID that decodes to the configured
// suppression string.
const SuppressedValue = ValueID(0)
