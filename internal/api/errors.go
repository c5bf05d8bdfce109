package api

import (
	"encoding/json"
	"fmt"
)

// FieldError is one entry of a structured validation detail, as the server
// reports it: {loc, msg, type}. loc mixes strings and array indexes.
type FieldError struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// APIError is the typed failure for any non-success HTTP status.
type APIError struct {
	Status int
	Detail string
	Fields []FieldError
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// FieldMessage returns the message for a named field, if the server
// reported field-level errors.
func (e *APIError) FieldMessage(name string) (string, bool) {
	for _, fe := range e.Fields {
		for _, loc := range fe.Loc {
			if s, ok := loc.(string); ok && s == name {
				return fe.Msg, true
			}
		}
	}
	return "", false
}

// parseAPIError decodes the server's error body, expected shape
// {detail: string | [{loc,msg,type}]}. An unparseable body falls back to a
// generic message carrying the status.
func parseAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status}

	var env struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env.Detail) == 0 {
		e.Detail = fmt.Sprintf("request failed with status %d", status)
		return e
	}

	var s string
	if err := json.Unmarshal(env.Detail, &s); err == nil {
		e.Detail = s
		return e
	}

	var fields []FieldError
	if err := json.Unmarshal(env.Detail, &fields); err == nil && len(fields) > 0 {
		e.Fields = fields
		e.Detail = fields[0].Msg
		return e
	}

	e.Detail = fmt.Sprintf("request failed with status %d", status)
	return e
}
