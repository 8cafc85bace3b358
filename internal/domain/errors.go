package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest is returned when a LaunchRequest fails validation before
// any network call is made.
var ErrInvalidRequest = errors.New("invalid launch request")

// NetworkError is a transport-level failure reaching any of the external
// endpoints. It is retry-eligible at the caller's discretion.
type NetworkError struct {
	Op  string // which call failed, e.g. "fetch image", "upload metadata"
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// UploadError is a non-success response from the metadata-hosting endpoint.
// Status preserves the server's status text for diagnostics.
type UploadError struct {
	Status string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("metadata upload failed: %s", e.Status)
}

// SchemaError reports a remote response missing a required field. Raised on
// receipt so the gap surfaces at the boundary instead of as a downstream
// nil dereference.
type SchemaError struct {
	Endpoint string
	Field    string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s response missing required field %q", e.Endpoint, e.Field)
}

// BuildError is a non-success response from the transaction-build endpoint.
// Body carries the server's diagnostic text verbatim.
type BuildError struct {
	StatusCode int
	Body       string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("transaction build failed: status %d: %s", e.StatusCode, e.Body)
}

// DeserializationError reports malformed unsigned transaction bytes.
// Fatal: retrying with the same bytes cannot succeed.
type DeserializationError struct {
	Reason string
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("deserialize transaction: %s", e.Reason)
}

// CheckpointError is a failure to fetch a fresh blockhash from the ledger
// node. Transient: eligible for caller-level retry.
type CheckpointError struct {
	Err error
}

func (e *CheckpointError) Error() string {
	return fmt.Sprintf("fetch checkpoint: %v", e.Err)
}

func (e *CheckpointError) Unwrap() error { return e.Err }

// ExecutionError reports a transaction that was included on-chain but whose
// program execution failed. Broadcast succeeded; the parameters did not.
// Not retried: the caller must inspect Detail and adjust.
type ExecutionError struct {
	Signature string
	Detail    string
	Logs      []string // program logs when the node supplied them
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("transaction %s failed on-chain: %s", e.Signature, e.Detail)
}

// ConfirmationTimeoutError means the checkpoint's validity window expired
// before the node reported inclusion. The on-chain outcome is unknown: the
// transaction may still confirm. Callers must reconcile by signature before
// assuming failure.
type ConfirmationTimeoutError struct {
	Signature            string
	LastValidBlockHeight uint64
}

func (e *ConfirmationTimeoutError) Error() string {
	return fmt.Sprintf("confirmation for %s not seen before block height %d; outcome unknown",
		e.Signature, e.LastValidBlockHeight)
}
