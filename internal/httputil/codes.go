package httputil

// Machine-readable error codes returned alongside error messages.
const (
	CodeInvalidRequestBody = "invalid_request_body"
	CodeValidationFailed   = "validation_failed"
	CodeUsernameTaken      = "username_taken"
	CodeInvalidCredentials = "invalid_credentials"
	CodeMissingAuth        = "auth_required"
	CodeInvalidToken       = "invalid_token"
	CodeInvalidTaskID      = "invalid_task_id"
	CodeTaskNotFound       = "task_not_found"
	CodeInternalError      = "internal_error"
)
