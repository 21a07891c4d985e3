package httpx

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/target/trash-classifier/internal/errors"
)

const classificationTitle = "Classification Result"

// maxMultipartMemory is the in-memory part of a parsed upload; the rest spills to disk.
const maxMultipartMemory = 8 << 20

// ClassifyImage reads the uploaded image and asks the model what it is made of.
// A missing file is reported by the decoder as a validation problem.
func (h *UIHandlers) ClassifyImage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionIDOrFail(w, r)
	if !ok {
		return
	}

	data, err := h.readUpload(r)
	if err != nil {
		h.respond(w, r, outcome{Err: err})
		return
	}

	res, err := h.Controller.ClassifyImage(r.Context(), id, data)
	h.respond(w, r, outcome{Result: res, Err: err, OutputTitle: classificationTitle})
}

// readUpload returns the bytes of the image field, or nil when no file was sent.
func (h *UIHandlers) readUpload(r *http.Request) ([]byte, error) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperrors.ValidationField(FieldImage,
				fmt.Sprintf("The image is too large. The limit is %d MB.", tooLarge.Limit>>20))
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "The upload could not be read.")
		}
	}

	file, _, err := r.FormFile(FieldImage)
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return nil, nil
	case err != nil:
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "The upload could not be read.")
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "The upload could not be read.")
	}
	return data, nil
}

// ClassifyText sends the entered text to the model as the whole prompt.
func (h *UIHandlers) ClassifyText(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionIDOrFail(w, r)
	if !ok {
		return
	}
	text := r.FormValue(FieldText)
	res, err := h.Controller.ClassifyText(r.Context(), id, text)
	h.respond(w, r, outcome{
		Result:      res,
		Err:         err,
		Form:        FormValues{Text: text},
		OutputTitle: classificationTitle,
	})
}
