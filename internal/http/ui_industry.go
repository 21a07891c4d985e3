package httpx

import (
	"net/http"

	"github.com/target/trash-classifier/internal/domain/waste"
	"github.com/target/trash-classifier/internal/service"
)

const suggestionsTitle = "AI Suggestions"

// EventEntryAdded is triggered on the client after a waste entry is recorded.
const EventEntryAdded = "entry-added"

// SubmitEntry validates and records one waste entry.
func (h *UIHandlers) SubmitEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionIDOrFail(w, r)
	if !ok {
		return
	}
	in := service.EntryInput{
		WasteType: r.FormValue(FieldWasteType),
		Unit:      r.FormValue(FieldUnit),
		Amount:    r.FormValue(FieldAmount),
	}
	res, err := h.Controller.SubmitEntry(r.Context(), id, in)
	o := outcome{Result: res, Err: err}
	if err != nil {
		o.Form = FormValues{WasteType: in.WasteType, Unit: unitOrDefault(in.Unit), Amount: in.Amount}
	} else {
		SetHXTrigger(w, EventEntryAdded, map[string]any{"count": len(res.Session.Entries)})
	}
	h.respond(w, r, o)
}

// GenerateSuggestions asks the model for product ideas from the recorded entries.
func (h *UIHandlers) GenerateSuggestions(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionIDOrFail(w, r)
	if !ok {
		return
	}
	prompt := r.FormValue(FieldPrompt)
	res, err := h.Controller.GenerateSuggestions(r.Context(), id, prompt)
	h.respond(w, r, outcome{
		Result:      res,
		Err:         err,
		Form:        FormValues{Prompt: prompt},
		OutputTitle: suggestionsTitle,
	})
}

// suggestionsView is the data for the waste-suggestions fragment.
type suggestionsView struct {
	Query       string
	Suggestions []string
}

// WasteSuggestions renders the live list of reference types matching the typed text.
func (h *UIHandlers) WasteSuggestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get(FieldWasteType)
	view := suggestionsView{Query: q, Suggestions: h.Controller.Suggestions(q)}
	if err := h.T.RenderFragment(w, "waste-suggestions", view); err != nil {
		http.Error(w, "Unable to render suggestions.", http.StatusInternalServerError)
	}
}

// amountInputView is the data for the amount-input fragment.
type amountInputView struct {
	Unit   waste.AmountUnit
	Amount string
}

// AmountInput swaps the numeric control for the selected unit.
func (h *UIHandlers) AmountInput(w http.ResponseWriter, r *http.Request) {
	view := amountInputView{Unit: unitOrDefault(r.URL.Query().Get(FieldUnit))}
	if err := h.T.RenderFragment(w, "amount-input", view); err != nil {
		http.Error(w, "Unable to render amount input.", http.StatusInternalServerError)
	}
}

func unitOrDefault(raw string) waste.AmountUnit {
	if u, err := waste.ParseAmountUnit(raw); err == nil {
		return u
	}
	return waste.UnitKilograms
}

// entryJSON is the wire form of one entry.
type entryJSON struct {
	WasteType  string  `json:"waste_type"`
	Amount     float64 `json:"amount"`
	AmountUnit string  `json:"amount_unit"`
	AmountType string  `json:"amount_type"`
}

// EntriesJSON returns the session's entries for scripting. Only the Industry dashboard has them.
func (h *UIHandlers) EntriesJSON(w http.ResponseWriter, r *http.Request) {
	id := SessionID(r.Context())
	entries, err := h.Controller.Entries(r.Context(), id)
	if err != nil {
		code := StatusFor(err)
		if code == http.StatusOK {
			code = http.StatusBadRequest
		}
		WriteError(w, ErrorParams{Code: code, ErrCode: errorCode(err), Err: err})
		return
	}
	out := make([]entryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryJSON{
			WasteType:  e.WasteType,
			Amount:     e.Amount,
			AmountUnit: string(e.Unit),
			AmountType: e.Unit.Label(),
		})
	}
	WriteJSON(w, http.StatusOK, map[string]any{"entries": out, "count": len(out)})
}
