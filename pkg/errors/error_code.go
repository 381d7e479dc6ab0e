package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeMissingParameter     ErrorCode = 102
	ErrCodeInvalidFraction      ErrorCode = 103
	ErrCodeInvalidKFold         ErrorCode = 104
	ErrCodeInvalidWindow        ErrorCode = 105
	ErrCodeInvalidVersion       ErrorCode = 106

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeUnknownColumn         ErrorCode = 203
	ErrCodeRowOutOfRange         ErrorCode = 204

	// Splitter errors (300-399)
	ErrCodeUnsupportedStrategy ErrorCode = 300
	ErrCodeSplitterNotBound    ErrorCode = 301

	// Plan errors (400-499)
	ErrCodePlanParseFailed     ErrorCode = 400
	ErrCodePlanInvalid         ErrorCode = 401
	ErrCodePlanVersionMismatch ErrorCode = 402
)
