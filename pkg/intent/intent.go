package intent

import "strings"

// ResponseType classifies how the assistant wants a turn answered.
type ResponseType string

const (
	ResponseText  ResponseType = "text"
	ResponseData  ResponseType = "data"
	ResponseError ResponseType = "error"
)

// Record is the typed intent extracted from one assistant reply.
type Record struct {
	IsFinancial        bool
	ResponseType       ResponseType
	Symbols            []string
	ComparisonRequired bool
	Message            string
}

// WantsData reports whether the record asks for a market-data lookup.
func (r Record) WantsData() bool {
	return r.ResponseType == ResponseData
}

// Compares reports whether a side-by-side comparison should be rendered.
func (r Record) Compares() bool {
	return r.ComparisonRequired && len(r.Symbols) > 1
}

// FromError builds the record used when the language model could not be reached.
func FromError(err error) Record {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return Record{
		ResponseType: ResponseError,
		Symbols:      []string{},
		Message:      msg,
	}
}

func parseResponseType(raw string) ResponseType {
	return ResponseType(strings.ToLower(raw))
}
