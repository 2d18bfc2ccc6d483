package calculator

import "fmt"

// ErrorKind classifies a rejected split request.
type ErrorKind string

const (
	KindSplitSumMismatch      ErrorKind = "SPLIT_SUM_MISMATCH"
	KindPercentageSumMismatch ErrorKind = "PERCENTAGE_SUM_MISMATCH"
	KindNoParticipants        ErrorKind = "NO_PARTICIPANTS"
	KindNegativeAmount        ErrorKind = "NEGATIVE_AMOUNT"
	KindDuplicateParticipant  ErrorKind = "DUPLICATE_PARTICIPANT"
	KindUnknownSplitType      ErrorKind = "UNKNOWN_SPLIT_TYPE"
	KindNegativeShare         ErrorKind = "NEGATIVE_SHARE"
	KindAmountOutOfRange      ErrorKind = "AMOUNT_OUT_OF_RANGE"
)

// ValidationError reports input the split calculator refuses to process.
// There is never a partial result alongside it.
type ValidationError struct {
	Kind    ErrorKind
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches any ValidationError of the same kind, so callers can write
// errors.Is(err, calculator.ErrSplitSumMismatch).
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Kind == e.Kind
}

var (
	ErrSplitSumMismatch      = &ValidationError{Kind: KindSplitSumMismatch}
	ErrPercentageSumMismatch = &ValidationError{Kind: KindPercentageSumMismatch}
	ErrNoParticipants        = &ValidationError{Kind: KindNoParticipants}
	ErrNegativeAmount        = &ValidationError{Kind: KindNegativeAmount}
	ErrDuplicateParticipant  = &ValidationError{Kind: KindDuplicateParticipant}
	ErrUnknownSplitType      = &ValidationError{Kind: KindUnknownSplitType}
	ErrNegativeShare         = &ValidationError{Kind: KindNegativeShare}
	ErrAmountOutOfRange      = &ValidationError{Kind: KindAmountOutOfRange}
)

func newValidationError(kind ErrorKind, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
