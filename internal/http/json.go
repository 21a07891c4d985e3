package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"

	apperrors "github.com/target/trash-classifier/internal/errors"
)

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// ErrorParams groups parameters for WriteError to adhere to the ≤3 params guideline.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes a JSON error response using ErrorParams.
// AppError messages are user-facing; anything else is reported by status text only.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	msg := apperrors.UserMessage(p.Err, http.StatusText(p.Code))
	WriteJSON(w, p.Code, map[string]string{"error": p.ErrCode, "message": msg})
}

// StatusFor maps an error to the HTTP status used for both HTML and JSON responses.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case apperrors.IsIllegalTransition(err):
		return http.StatusConflict
	case apperrors.IsInternal(err), apperrors.GetCode(err) == "":
		return http.StatusInternalServerError
	default:
		// Validation, credentials, decode and generation failures are shown as banners.
		return http.StatusOK
	}
}

// errorCode returns the AppError code or "internal".
func errorCode(err error) string {
	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}
	return string(apperrors.ErrCodeInternal)
}
