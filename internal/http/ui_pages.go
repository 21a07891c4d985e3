package httpx

import (
	"net/http"

	"github.com/target/trash-classifier/internal/service"
)

// Index renders whichever page the session is on. It never changes state.
func (h *UIHandlers) Index(w http.ResponseWriter, r *http.Request) {
	s, ok := GetSessionFromContext(r.Context())
	if !ok {
		h.renderServerError(w, r, nil)
		return
	}
	h.render(w, r, h.newView(r, s))
}

// SelectRole handles the three home page buttons.
func (h *UIHandlers) SelectRole(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionIDOrFail(w, r)
	if !ok {
		return
	}
	choice := service.RoleChoice(r.FormValue(FieldRole))
	res, err := h.Controller.SelectRole(r.Context(), id, choice)
	h.respond(w, r, outcome{Result: res, Err: err})
}

// Login checks the submitted credentials against the role chosen on the home page.
func (h *UIHandlers) Login(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionIDOrFail(w, r)
	if !ok {
		return
	}
	username := r.FormValue(FieldUsername)
	res, err := h.Controller.Login(r.Context(), id, username, r.FormValue(FieldPassword))
	o := outcome{Result: res, Err: err}
	if err != nil {
		// Keep the username, never the password.
		o.Form = FormValues{Username: username}
	}
	h.respond(w, r, o)
}

// ReturnHome navigates back to the role selection.
func (h *UIHandlers) ReturnHome(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionIDOrFail(w, r)
	if !ok {
		return
	}
	res, err := h.Controller.ReturnHome(r.Context(), id)
	h.respond(w, r, outcome{Result: res, Err: err})
}
