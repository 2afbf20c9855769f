package runner

import (
	"net/http"
	"strings"
)

// Verb is the lower-case HTTP verb a case uses.
type Verb string

const (
	VerbGet    Verb = "get"
	VerbPost   Verb = "post"
	VerbDelete Verb = "delete"
)

func (v Verb) method() (string, bool) {
	switch Verb(strings.ToLower(string(v))) {
	case VerbGet:
		return http.MethodGet, true
	case VerbPost:
		return http.MethodPost, true
	case VerbDelete:
		return http.MethodDelete, true
	default:
		return "", false
	}
}

// Comparison asks for some element of a JSON array response to carry
// Field equal to Value.
type Comparison struct {
	Field string
	Value string
}

// Request describes exactly one HTTP call and what it should produce.
type Request struct {
	Endpoint       string
	Verb           Verb
	ExpectedStatus int
	Headers        map[string]string
	Form           map[string]string
	Compare        *Comparison
}

// BearerHeader builds the Authorization header for a token.
func BearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}
