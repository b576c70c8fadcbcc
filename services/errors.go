package services

import "net/http"

// Kind is the machine-readable class of an AppError.
type Kind string

const (
	KindInvalidRequest     Kind = "INVALID_REQUEST"
	KindOutsideWindow      Kind = "OUTSIDE_WINDOW"
	KindDuplicateCheckIn   Kind = "DUPLICATE_CHECK_IN"
	KindInvalidToken       Kind = "INVALID_TOKEN"
	KindForbidden          Kind = "FORBIDDEN"
	KindNotFound           Kind = "NOT_FOUND"
	KindConflict           Kind = "CONFLICT"
	KindInsufficientPoints Kind = "INSUFFICIENT_POINTS"
	KindInvalidTransition  Kind = "INVALID_TRANSITION"
	KindProcessingFailed   Kind = "PROCESSING_FAILED"
)

// AppError is the structured failure returned across the service boundary.
// Message is safe to show to clients; Err keeps the internal cause for logs.
type AppError struct {
	Kind    Kind
	Status  int
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// Is matches any AppError of the same kind, so errors.Is(err, ErrOutsideWindow) works
// for wrapped or re-created values.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Kind == e.Kind
}

// Retryable reports whether the caller may retry with the same input.
func (e *AppError) Retryable() bool {
	return e.Kind == KindProcessingFailed
}

var (
	ErrInvalidRequest   = &AppError{Kind: KindInvalidRequest, Status: http.StatusBadRequest, Code: 40070, Message: "qr code is required"}
	ErrOutsideWindow    = &AppError{Kind: KindOutsideWindow, Status: http.StatusBadRequest, Code: 40071, Message: "check-in is only available during the morning window"}
	ErrDuplicateCheckIn = &AppError{Kind: KindDuplicateCheckIn, Status: http.StatusConflict, Code: 40972, Message: "already checked in today"}
	ErrInvalidToken     = &AppError{Kind: KindInvalidToken, Status: http.StatusBadRequest, Code: 40073, Message: "qr code is invalid or expired"}
	ErrForbidden        = &AppError{Kind: KindForbidden, Status: http.StatusForbidden, Code: 40370, Message: "not allowed to view this user"}
	ErrUserNotFound     = &AppError{Kind: KindNotFound, Status: http.StatusNotFound, Code: 40470, Message: "user not found"}

	ErrRewardNotFound     = &AppError{Kind: KindNotFound, Status: http.StatusNotFound, Code: 40480, Message: "reward not found"}
	ErrRewardUnavailable  = &AppError{Kind: KindConflict, Status: http.StatusConflict, Code: 40980, Message: "reward is not available"}
	ErrInsufficientPoints = &AppError{Kind: KindInsufficientPoints, Status: http.StatusBadRequest, Code: 40081, Message: "not enough points"}
	ErrRedemptionNotFound = &AppError{Kind: KindNotFound, Status: http.StatusNotFound, Code: 40482, Message: "redemption not found"}
	ErrInvalidTransition  = &AppError{Kind: KindInvalidTransition, Status: http.StatusConflict, Code: 40983, Message: "redemption cannot move to that status"}
	ErrInvalidReward      = &AppError{Kind: KindInvalidRequest, Status: http.StatusBadRequest, Code: 40084, Message: "reward needs a name and a positive points cost"}

	ErrCompanyNotFound = &AppError{Kind: KindNotFound, Status: http.StatusNotFound, Code: 40490, Message: "company not found"}
	ErrInvalidQRWindow = &AppError{Kind: KindInvalidRequest, Status: http.StatusBadRequest, Code: 40091, Message: "valid_until must be after valid_from"}
	ErrInvalidBonus    = &AppError{Kind: KindInvalidRequest, Status: http.StatusBadRequest, Code: 40092, Message: "bonus points must be non-zero and a reason is required"}
)

// processingFailed hides err behind a generic, retryable failure.
func processingFailed(err error) *AppError {
	return &AppError{
		Kind:    KindProcessingFailed,
		Status:  http.StatusInternalServerError,
		Code:    50070,
		Message: "failed to process request",
		Err:     err,
	}
}
