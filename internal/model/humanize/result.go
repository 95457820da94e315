package humanize

import "fmt"

// Kind classifies how a humanize request resolved.
type Kind int

const (
	// Success is a 2xx response whose body was decoded.
	Success Kind = iota
	// HTTPError is a completed exchange with a non-2xx status.
	HTTPError
	// TransportError means the request never completed.
	TransportError
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case HTTPError:
		return "http_error"
	case TransportError:
		return "transport_error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Result is the typed outcome of one humanize call.
type Result struct {
	Kind       Kind
	Text       string
	StatusCode int
	Err        error
}

// Succeeded builds a Success result.
func Succeeded(text string) Result {
	return Result{Kind: Success, Text: text}
}

// Failed builds an HTTPError result for the given status.
func Failed(status int) Result {
	return Result{Kind: HTTPError, StatusCode: status}
}

// Unreachable builds a TransportError result.
func Unreachable(err error) Result {
	return Result{Kind: TransportError, Err: err}
}
