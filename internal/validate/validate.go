// Package validate checks request payloads before they reach the services.
//
// FIRST-ERROR-ONLY POLICY:
// Each payload is checked against an ordered chain of rules, and evaluation
// STOPS at the first failing rule — the caller gets that one rule's message
// and nothing else. This is an observable behavior of the API being
// reproduced (clients receive a single message, not an aggregate), so the
// chain is evaluated strictly in declaration order.
//
// Rules return apperror.ValidationFailed, which the HTTP layer maps to 400
// with the offending field's message.
package validate

import (
	"net/mail"
	"strings"

	"github.com/amferraz/blog-api/internal/apperror"
)

// Field length bounds. The original API only bounds the password from
// below; the upper bounds here keep a single request from storing
// megabytes of title.
const (
	MinPasswordLength = 6
	MaxNameLength     = 100
	MaxTitleLength    = 200
	MaxTextLength     = 50000
)

// rule is one step in a validation chain. ok is evaluated lazily so a
// chain can be declared up front and still short-circuit.
type rule struct {
	field   string
	message string
	ok      func() bool
}

// firstError evaluates rules in order and returns the first failure.
// Returns nil when every rule passes.
func firstError(rules []rule) error {
	for _, r := range rules {
		if !r.ok() {
			return apperror.ValidationFailed(r.field, r.message)
		}
	}
	return nil
}

// Registration validates a registration payload: name required, email
// required and well-formed, password required with a minimum length.
//
// Rule ORDER matters: if the email is malformed, the password rules are
// never evaluated (first-error-only).
func Registration(name, email, password string) error {
	return firstError([]rule{
		{"nome", "nome é obrigatório", func() bool {
			return strings.TrimSpace(name) != ""
		}},
		{"nome", "nome deve ter no máximo 100 caracteres", func() bool {
			return len(name) <= MaxNameLength
		}},
		{"email", "email é obrigatório", func() bool {
			return email != ""
		}},
		{"email", "informe um email válido", func() bool {
			return isEmail(email)
		}},
		{"senha", "senha é obrigatória", func() bool {
			return password != ""
		}},
		{"senha", "senha deve ter no mínimo 6 caracteres", func() bool {
			return len(password) >= MinPasswordLength
		}},
	})
}

// Post validates a post payload: title and text are both required.
func Post(title, text string) error {
	return firstError([]rule{
		{"titulo", "titulo é obrigatório", func() bool {
			return strings.TrimSpace(title) != ""
		}},
		{"titulo", "titulo deve ter no máximo 200 caracteres", func() bool {
			return len(title) <= MaxTitleLength
		}},
		{"texto", "texto é obrigatório", func() bool {
			return strings.TrimSpace(text) != ""
		}},
		{"texto", "texto deve ter no máximo 50000 caracteres", func() bool {
			return len(text) <= MaxTextLength
		}},
	})
}

// isEmail reports whether s is a bare, well-formed email address.
//
// net/mail implements RFC 5322 address parsing, which also accepts the
// display-name form ("Ana <ana@example.com>"). We require the parsed
// address to round-trip to the input, which rejects that form — the API
// stores bare addresses only.
func isEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
