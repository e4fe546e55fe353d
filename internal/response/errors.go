package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrPermissionDenied ErrCode = "PERMISSION_DENIED"
	ErrNotExamOwner     ErrCode = "NOT_EXAM_OWNER"
	ErrExamNotEligible  ErrCode = "EXAM_NOT_ELIGIBLE"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound      ErrCode = "NOT_FOUND"
	ErrConflict      ErrCode = "CONFLICT"
	ErrUsernameTaken ErrCode = "USERNAME_TAKEN"

	// ─── Exam progression ──────────────────────────────────────────────
	ErrExamAlreadyTaken        ErrCode = "EXAM_ALREADY_TAKEN"
	ErrPreconditionFailed      ErrCode = "PRECONDITION_FAILED"
	ErrQuestionAlreadyAnswered ErrCode = "QUESTION_ALREADY_ANSWERED"
	ErrNoQuestions             ErrCode = "NO_QUESTIONS"
	ErrNoQuestionRemaining     ErrCode = "NO_QUESTION_REMAINING"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid username or password."
	case ErrSessionInvalidated:
		return "Your session has ended. Please log in again."
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid or expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrPermissionDenied:
		return "You do not have permission to access this resource."
	case ErrNotExamOwner:
		return "You are not the owner of this exam."
	case ErrExamNotEligible:
		return "This exam is not available to you."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."
	case ErrUsernameTaken:
		return "A user with that username already exists."

	// ─── Exam progression ──────────────────────────────────────────────
	case ErrExamAlreadyTaken:
		return "You have already taken this exam."
	case ErrPreconditionFailed:
		return "The request cannot be applied in the current state."
	case ErrQuestionAlreadyAnswered:
		return "This question has already been answered."
	case ErrNoQuestions:
		return "This exam has no questions."
	case ErrNoQuestionRemaining:
		return "There is no question left to answer."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}
