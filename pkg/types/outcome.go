// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Method names the acquisition strategy that produced a PDF.
type Method string

const (
	MethodNone       Method = ""
	MethodArchive    Method = "archive"
	MethodOpenAccess Method = "open-access"
	MethodDirectURL  Method = "direct-url"
	MethodReader     Method = "reader"
)

// Outcome is the result of one acquisition attempt. A zero Outcome means
// no strategy produced a file.
type Outcome struct {
	// Path is the written PDF, or "" on failure.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Method is the strategy that wrote Path.
	Method Method `json:"method,omitempty" yaml:"method,omitempty"`
}

// Success reports whether a file was produced.
func (o Outcome) Success() bool {
	return o.Path != ""
}
