package storebridge

// LoadingStatus is the host-owned lifecycle of a slice's latest asynchronous
// operation. The host drives pending -> loading -> {success | fail}; the
// bridge only projects it.
type LoadingStatus string

const (
	// StatusPending is the state before any operation has been requested.
	StatusPending LoadingStatus = "pending"

	// StatusLoading means an operation is in flight.
	StatusLoading LoadingStatus = "loading"

	// StatusSuccess means the latest operation completed.
	StatusSuccess LoadingStatus = "success"

	// StatusFail means the latest operation failed. Failure causes stay inside
	// the host.
	StatusFail LoadingStatus = "fail"
)

// Valid reports whether s is one of the four known statuses.
func (s LoadingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusLoading, StatusSuccess, StatusFail:
		return true
	}
	return false
}

// OrPending returns s, or StatusPending if s is empty or unknown.
func (s LoadingStatus) OrPending() LoadingStatus {
	if !s.Valid() {
		return StatusPending
	}
	return s
}

// IsLoading reports whether an operation is in flight.
func (s LoadingStatus) IsLoading() bool {
	return s == StatusLoading
}

// Settled reports whether the latest operation has finished.
func (s LoadingStatus) Settled() bool {
	return s == StatusSuccess || s == StatusFail
}
