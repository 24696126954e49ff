package market

import "errors"

// ErrNoData is returned when the provider answers without any bars for a symbol.
var ErrNoData = errors.New("No data found for the provided symbol.")

// FetchError reports why a symbol could not be fetched. Its message is meant to
// be shown to end users, so it carries only the underlying reason; the symbol
// is kept as a field for callers that format their own text.
type FetchError struct {
	Provider string
	Symbol   string
	Err      error
}

func (e *FetchError) Error() string {
	if e == nil || e.Err == nil {
		return "unknown market data error"
	}
	return e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
