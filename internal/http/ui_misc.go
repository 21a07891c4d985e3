package httpx

import (
	"errors"
	"net/http"
)

// NotFound renders an HTML 404 page for browsers and a JSON error otherwise.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) || h.T == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     errors.New("not found"),
		})
		return
	}
	h.renderErrorView(w, r, ErrorView{
		Layout:  h.layout(r),
		Code:    http.StatusNotFound,
		Heading: "Page Not Found",
		Message: "The page you're looking for doesn't exist.",
	})
}
