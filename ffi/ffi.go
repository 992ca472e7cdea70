// Package ffi defines the Go-side function table a foreign-language
// bridge would call across the process boundary: opaque handles, a status
// code enum, and a result-buffer shape carrying positioned errors. No
// cgo/wasm marshaling is implemented here; that is the bridge's job.
package ffi

import "github.com/sqlstudio/sqlcore/internal/scanner"

// Handle is an opaque script identity the host holds across calls; it
// never encodes a pointer directly.
type Handle uint64

// Status enumerates the result codes every boundary operation returns.
type Status int

const (
	OK Status = iota
	ScannerInputInvalid
	ParserInputInvalid
	ParserInputNotScanned
	AnalyzerInputNotParsed
	AnalyzerInputInvalid
	CatalogDescriptorPoolUnknown
	ContextIDZero
	ContextIDDuplicate
	HandleUnknown
)

func (s Status) String() string {
	switch s {
	case OK:
		return "OK"
	case ScannerInputInvalid:
		return "SCANNER_INPUT_INVALID"
	case ParserInputInvalid:
		return "PARSER_INPUT_INVALID"
	case ParserInputNotScanned:
		return "PARSER_INPUT_NOT_SCANNED"
	case AnalyzerInputNotParsed:
		return "ANALYZER_INPUT_NOT_PARSED"
	case AnalyzerInputInvalid:
		return "ANALYZER_INPUT_INVALID"
	case CatalogDescriptorPoolUnknown:
		return "CATALOG_DESCRIPTOR_POOL_UNKNOWN"
	case ContextIDZero:
		return "CONTEXT_ID_ZERO"
	case ContextIDDuplicate:
		return "CONTEXT_ID_DUPLICATE"
	case HandleUnknown:
		return "HANDLE_UNKNOWN"
	default:
		return "UNKNOWN_STATUS"
	}
}

// ResultBuffer is the shape every script operation returns across the
// boundary: a status code, an opaque serialized payload, and the
// positioned errors collected during the stage that produced it. There
// are no deleter/owner fields, since there is no cross-language ownership
// transfer on this side of the boundary.
type ResultBuffer struct {
	Status Status
	Data   []byte
	Errors []scanner.PositionedError
}

// Err builds a ResultBuffer carrying no data and the given status plus
// errors, the shape every non-OK stage result takes.
func Err(status Status, errors []scanner.PositionedError) ResultBuffer {
	return ResultBuffer{Status: status, Errors: errors}
}

// Ok builds a successful ResultBuffer wrapping a serialized payload.
func Ok(data []byte) ResultBuffer {
	return ResultBuffer{Status: OK, Data: data}
}
