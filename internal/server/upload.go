package server

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// imageField is the multipart form field carrying the upload.
const imageField = "image"

// multipartOverhead is the slack allowed on top of the file limit for
// boundaries, part headers and small form fields.
const multipartOverhead int64 = 1 << 20

const msgUnexpectedField = "Unexpected field."

// readTracker remembers the first non-EOF error from the request side so a
// failed copy can be blamed on the client or on the disk.
type readTracker struct {
	r   io.Reader
	err error
}

func (t *readTracker) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && err != io.EOF && t.err == nil {
		t.err = err
	}
	return n, err
}

// uploadHandler handles POST requests carrying one multipart file part
// named "image". Credentials are checked first, then the declared content
// type, then the size limit while streaming to disk. The response is
// always a JSON envelope.
func (s *Server) uploadHandler() http.Handler {
	return s.auth.requireBasicAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rid := RequestIDFromContext(r.Context())

		name, n, apiErr := s.storeUpload(w, r)
		if apiErr != nil {
			s.reportFailure(rid, apiErr)
			writeError(w, apiErr, s.auth.realm())
			return
		}

		s.metrics.RecordUpload(n, time.Since(start))
		s.log.Info("image stored", map[string]interface{}{
			"rid":   rid,
			"file":  name,
			"bytes": n,
		})

		writeSuccess(w, s.publicURL+"/"+name)
	}), s.log, s.metrics)
}

// storeUpload runs the validation pipeline and writes the image. Any
// failure stops the pipeline immediately.
func (s *Server) storeUpload(w http.ResponseWriter, r *http.Request) (string, int64, *apiError) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+multipartOverhead)

	mr, err := r.MultipartReader()
	if err != nil {
		return "", 0, validationError(http.StatusBadRequest, msgBadMultipart)
	}

	part, apiErr := nextImagePart(mr)
	if apiErr != nil {
		return "", 0, apiErr
	}
	defer func() { _ = part.Close() }()

	ext, apiErr := validateImageType(part.Header.Get("Content-Type"))
	if apiErr != nil {
		return "", 0, apiErr
	}

	name := uuid.NewString() + "." + ext

	src := &readTracker{r: part}
	n, err := s.store.Save(name, src, s.maxUploadBytes)
	if err != nil {
		if src.err != nil {
			return "", n, classifyReadError(src.err)
		}
		if errors.Is(err, ErrFileTooLarge) {
			return "", n, tooLargeError(err)
		}
		return "", n, internalError(err)
	}

	return name, n, nil
}

// nextImagePart advances to the image file part. Plain form fields are
// skipped; a file under any other field name is refused.
func nextImagePart(mr *multipart.Reader) (*multipart.Part, *apiError) {
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return nil, validationError(http.StatusBadRequest, msgMissingImage)
		}
		if err != nil {
			return nil, classifyReadError(err)
		}

		if part.FileName() == "" {
			_ = part.Close()
			continue
		}
		if part.FormName() != imageField {
			_ = part.Close()
			return nil, validationError(http.StatusBadRequest, msgUnexpectedField)
		}
		return part, nil
	}
}

// classifyReadError maps a failure reading the request body.
func classifyReadError(err error) *apiError {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return tooLargeError(err)
	}
	e := validationError(http.StatusBadRequest, msgBadMultipart)
	e.err = err
	return e
}

// reportFailure logs and counts a failed upload.
func (s *Server) reportFailure(rid string, e *apiError) {
	fields := map[string]interface{}{
		"rid":    rid,
		"reason": e.reason(),
		"status": e.statusCode(),
	}

	if e.kind == kindInternal {
		s.metrics.RecordUploadError()
		s.log.Error("upload failed", fields, e.err)
		return
	}

	s.metrics.RecordRejection(e.reason())
	if e.err != nil {
		fields["cause"] = e.err.Error()
	}
	s.log.Warn("upload rejected", fields)
}
