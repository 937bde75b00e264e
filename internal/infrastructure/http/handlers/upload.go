package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"mime"
	"net/http"

	"github.com/fitpantry/coach/pkg/errors"
)

type upload struct {
	Text     string
	Data     []byte
	MIMEType string
}

// readUpload accepts multipart ("file" plus optional "text"), JSON {"text"} or a raw media body
func (h *CoachHandlers) readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(h.maxUpload); err != nil {
			return nil, uploadError(err)
		}
		up := &upload{Text: r.FormValue("text")}
		file, header, err := r.FormFile("file")
		if stderrors.Is(err, http.ErrMissingFile) {
			return up, nil
		}
		if err != nil {
			return nil, errors.NewBadRequestError("Invalid file upload").WithCause(err)
		}
		defer file.Close()

		if up.Data, err = io.ReadAll(file); err != nil {
			return nil, uploadError(err)
		}
		up.MIMEType = detectMIME(header.Header.Get("Content-Type"), up.Data)
		return up, nil

	case "application/json":
		var body struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !stderrors.Is(err, io.EOF) {
			return nil, errors.NewBadRequestError("Invalid JSON body").WithCause(err)
		}
		return &upload{Text: body.Text}, nil

	case "text/plain":
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, uploadError(err)
		}
		return &upload{Text: string(data)}, nil

	default:
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, uploadError(err)
		}
		return &upload{Data: data, MIMEType: detectMIME(mediaType, data)}, nil
	}
}

func detectMIME(declared string, data []byte) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if len(data) == 0 {
		return ""
	}
	detected, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return detected
}

func uploadError(err error) error {
	var maxErr *http.MaxBytesError
	if stderrors.As(err, &maxErr) {
		return errors.NewBadRequestError("Upload exceeds the size limit").WithMetadata("limit_bytes", maxErr.Limit)
	}
	return errors.NewBadRequestError("Invalid upload").WithCause(err)
}
