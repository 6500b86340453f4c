package ufapi

import (
	"bytes"
	"encoding/json"
)

// PayloadKind discriminates the two response shapes the backend serves.
type PayloadKind int

const (
	// PayloadObject is a single record-shaped JSON object.
	PayloadObject PayloadKind = iota
	// PayloadArray is a JSON array of record-shaped objects.
	PayloadArray
)

// Entry is one record-shaped element of a payload. Date is nil when the
// element carried no date field; Value stays raw so normalization decides how
// to read it. Other fields the backend sends are ignored.
type Entry struct {
	Date  *string         `json:"date"`
	Value json.RawMessage `json:"value"`
}

// Payload is the decoded body of a successful response: a tagged union of the
// accepted shapes. Kind is the tag; Entries holds exactly one element for
// PayloadObject.
type Payload struct {
	Kind    PayloadKind
	Entries []Entry
}

// MalformedResponseError reports a 2xx body that is not one of the payload
// shapes the API produces.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return "ufapi: malformed response payload: " + e.Reason
}

// DecodePayload decodes a 2xx response body. A body that is neither a JSON
// object nor an array of objects is a malformed response, never an empty
// result.
func DecodePayload(data []byte) (*Payload, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &MalformedResponseError{Reason: "empty body"}
	}
	switch trimmed[0] {
	case '{':
		var e Entry
		if err := json.Unmarshal(trimmed, &e); err != nil {
			return nil, &MalformedResponseError{Reason: err.Error()}
		}
		return &Payload{Kind: PayloadObject, Entries: []Entry{e}}, nil
	case '[':
		var entries []Entry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, &MalformedResponseError{Reason: err.Error()}
		}
		return &Payload{Kind: PayloadArray, Entries: entries}, nil
	default:
		return nil, &MalformedResponseError{Reason: "body is neither an object nor an array"}
	}
}
