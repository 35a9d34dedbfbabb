// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"bytes"
	"errors"
	"net"
	"net/http"
	"strings"
)

// BrowserUserAgent is sent to publisher sites that refuse non-browser clients.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// pdfSignature is the first five bytes of every PDF file.
var pdfSignature = []byte("%PDF-")

// HasPDFSignature reports whether data starts with the PDF magic bytes.
func HasPDFSignature(data []byte) bool {
	return bytes.HasPrefix(data, pdfSignature)
}

// IsPDFContentType reports whether a Content-Type header declares a PDF.
// The comparison is a case-insensitive prefix match so parameters such as
// "; charset=binary" are tolerated.
func IsPDFContentType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "application/pdf")
}

// IsTimeout reports whether err is a client or network timeout.
func IsTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// StatusCause names the failure class of a non-200 status so logs tell
// "not found" apart from "blocked" and "temporarily unavailable".
func StatusCause(code int) string {
	switch code {
	case http.StatusNotFound:
		return "not found"
	case http.StatusForbidden:
		return "blocked"
	case http.StatusServiceUnavailable:
		return "temporarily unavailable"
	case http.StatusTooManyRequests:
		return "rate limited"
	default:
		return http.StatusText(code)
	}
}
