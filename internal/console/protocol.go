package console

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lowapp/nodesim/internal/identity"
	"github.com/lowapp/nodesim/internal/logging"
	"github.com/lowapp/nodesim/internal/nodeconfig"
)

// Response status words
const (
	StatusOK  = "ok"
	StatusErr = "err"
)

// Error codes carried in err responses
const (
	CodeUnknownKey     = "unknown-key"
	CodeMalformedValue = "malformed-value"
	CodeBadRequest     = "bad-request"
	CodeIO             = "io"
)

// Handler executes console requests against one node's record store.
// Concurrent sessions share a handler; serialization happens in the store.
type Handler struct {
	store *nodeconfig.Store
	id    identity.Identity
}

// NewHandler creates a handler bound to a record store and node identity
func NewHandler(store *nodeconfig.Store, id identity.Identity) *Handler {
	return &Handler{store: store, id: id}
}

// Handle executes a single request line and returns the response line.
// It always returns a well-formed response: requests the handler cannot
// parse produce "err bad-request" rather than a Go error, so a session
// survives operator typos.
func (h *Handler) Handle(line string) string {
	line = strings.TrimSpace(line)
	if line == "" {
		return errResponse(CodeBadRequest, "empty request")
	}

	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch verb {
	case "get":
		return h.handleGet(rest)
	case "set":
		return h.handleSet(rest)
	case "keys":
		if rest != "" {
			return errResponse(CodeBadRequest, "keys takes no argument")
		}
		return okResponse(strings.Join(nodeconfig.Keys(), " "))
	case "id":
		if rest != "" {
			return errResponse(CodeBadRequest, "id takes no argument")
		}
		return okResponse(h.id.String())
	case "save":
		if rest != "" {
			return errResponse(CodeBadRequest, "save takes no argument")
		}
		return h.handleSave()
	default:
		return errResponse(CodeBadRequest, fmt.Sprintf("unknown request %q", verb))
	}
}

func (h *Handler) handleGet(key string) string {
	if key == "" {
		return errResponse(CodeBadRequest, "get requires a field key")
	}
	value, err := h.store.Get(key)
	if err != nil {
		return fieldErrResponse(err)
	}
	return okResponse(value)
}

func (h *Handler) handleSet(assignment string) string {
	if assignment == "" {
		return errResponse(CodeBadRequest, "set requires a key:value assignment")
	}
	change, err := nodeconfig.ParseChange(assignment)
	if err != nil {
		return errResponse(CodeBadRequest, err.Error())
	}
	if err := h.store.Set(change.Key, change.Value); err != nil {
		return fieldErrResponse(err)
	}
	logging.LogFieldChange(change.Key, change.Value)
	return okResponse("")
}

func (h *Handler) handleSave() string {
	if err := h.store.Save(); err != nil {
		return errResponse(CodeIO, err.Error())
	}
	return okResponse(h.store.Path())
}

// okResponse renders an ok response, with or without a payload
func okResponse(payload string) string {
	if payload == "" {
		return StatusOK
	}
	return StatusOK + " " + payload
}

// errResponse renders an err response with a code and detail text
func errResponse(code, detail string) string {
	return StatusErr + " " + code + " " + detail
}

// fieldErrResponse maps record accessor errors onto wire error codes.
// The detail is the error's message alone: the code already names the
// category, so repeating the type prefix would just stutter.
func fieldErrResponse(err error) string {
	var cfgErr *nodeconfig.ConfigError
	if errors.As(err, &cfgErr) {
		switch cfgErr.Type {
		case nodeconfig.ErrTypeUnknownKey:
			return errResponse(CodeUnknownKey, cfgErr.Message)
		case nodeconfig.ErrTypeMalformedValue:
			return errResponse(CodeMalformedValue, cfgErr.Message)
		}
	}
	return errResponse(CodeBadRequest, err.Error())
}

// ParseResponse splits a response line into its payload.
// For ok responses it returns the payload (empty for a bare "ok") and a nil
// error. For err responses it returns a *RequestError carrying the code and
// detail. Anything else is a protocol violation.
func ParseResponse(line string) (string, error) {
	status, rest, _ := strings.Cut(strings.TrimRight(line, "\r\n"), " ")
	switch status {
	case StatusOK:
		return rest, nil
	case StatusErr:
		code, detail, _ := strings.Cut(rest, " ")
		if code == "" {
			return "", fmt.Errorf("malformed error response %q", line)
		}
		return "", &RequestError{Code: code, Detail: detail}
	default:
		return "", fmt.Errorf("malformed response %q", line)
	}
}

// RequestError is an err response from a node console, as seen by a client.
type RequestError struct {
	Code   string // Wire error code (e.g. "unknown-key")
	Detail string // Human-readable detail from the node
}

// Error implements the error interface
func (e *RequestError) Error() string {
	if e.Detail == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

// IsRequestError checks whether err is a console err response with the
// given code. An empty code matches any console error.
func IsRequestError(err error, code string) bool {
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		return false
	}
	return code == "" || reqErr.Code == code
}
