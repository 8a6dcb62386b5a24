// validation.go - Content-type allow-list for uploaded images
package server

import (
	"mime"
	"net/http"
	"strings"
)

// acceptedImageTypes maps every accepted MIME type to the extension used
// for the stored file. The client-supplied filename never influences it.
var acceptedImageTypes = map[string]string{
	"image/jpeg": "jpeg",
	"image/png":  "png",
}

// extensionFor returns the stored-file extension for a declared content
// type. Parameters are ignored and the media type is case-folded.
func extensionFor(contentType string) (string, bool) {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return "", false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}

	ext, ok := acceptedImageTypes[mediaType]
	return ext, ok
}

// validateImageType checks the client-declared content type of the image
// part. The bytes are not sniffed. A rejection ends the request.
func validateImageType(contentType string) (string, *apiError) {
	ext, ok := extensionFor(contentType)
	if !ok {
		return "", validationError(http.StatusBadRequest, msgMimetypeNotAllowed)
	}
	return ext, nil
}
