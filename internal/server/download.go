package server

import (
	"errors"
	"io/fs"
	"net/http"
)

// staticHandler handles GET /{name} requests for stored images. No
// authentication, no directory listing; the content type follows the
// file extension.
func (s *Server) staticHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, info, err := s.store.Open(r.PathValue("name"))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				http.NotFound(w, r)
				return
			}
			s.log.Error("open stored file", map[string]interface{}{
				"rid":  RequestIDFromContext(r.Context()),
				"path": r.URL.Path,
			}, err)
			http.Error(w, "server error", http.StatusInternalServerError)
			return
		}
		defer func() { _ = f.Close() }()

		http.ServeContent(w, r, info.Name(), info.ModTime(), f)
		s.metrics.RecordServe(info.Size())
	}
}
