package intent

import "strings"

// MetadataMarker opens the machine-readable block of an assistant reply.
const MetadataMarker = "METADATA:"

const (
	keyIsFinancial  = "IS_FINANCIAL:"
	keyResponseType = "RESPONSE_TYPE:"
	keySymbols      = "SYMBOLS:"
	keyComparison   = "COMPARISON:"
)

// Extract parses a raw assistant reply into a Record.
//
// Lines before the METADATA: marker form the human-readable message. After the
// marker only the recognised keys are read, in any order; everything else is
// dropped. Missing keys keep their defaults, so a reply without a marker is a
// plain text answer.
func Extract(text string) Record {
	rec := Record{
		ResponseType: ResponseText,
		Symbols:      []string{},
	}

	var message []string
	inMetadata := false
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !inMetadata {
			if trimmed == MetadataMarker {
				inMetadata = true
				continue
			}
			message = append(message, line)
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, keyIsFinancial):
			rec.IsFinancial = parseFlag(valueOf(trimmed))
		case strings.HasPrefix(trimmed, keyResponseType):
			rec.ResponseType = parseResponseType(valueOf(trimmed))
		case strings.HasPrefix(trimmed, keySymbols):
			rec.Symbols = parseSymbols(valueOf(trimmed))
		case strings.HasPrefix(trimmed, keyComparison):
			rec.ComparisonRequired = parseFlag(valueOf(trimmed))
		}
	}

	rec.Message = strings.TrimSpace(strings.Join(message, "\n"))
	return rec
}

// valueOf returns everything after the first colon, trimmed.
func valueOf(line string) string {
	_, value, _ := strings.Cut(line, ":")
	return strings.TrimSpace(value)
}

func parseFlag(value string) bool {
	return strings.ToLower(value) == "true"
}

func parseSymbols(value string) []string {
	value = strings.TrimPrefix(value, "[")
	value = strings.TrimSuffix(value, "]")

	symbols := []string{}
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		symbols = append(symbols, part)
	}
	return symbols
}
