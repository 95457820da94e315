package form

import (
	"errors"
	"unicode/utf16"

	"github.com/zhouzirui/exonizer/internal/model/humanize"
)

const (
	// CharacterLimit is the maximum input length, in UTF-16 code units.
	CharacterLimit = 250
	// NearLimitThreshold is the remaining count at which the warning shows.
	NearLimitThreshold = 50
	// TransportAlertMessage is shown when a request could not complete.
	TransportAlertMessage = "An unexpected error occurred. Please try again later."
)

// ErrSubmitDisabled is returned when submit is triggered while loading or
// with an empty input.
var ErrSubmitDisabled = errors.New("submit disabled")

// State is the transient per-page-view form state.
type State struct {
	InputText  string
	OutputText string
	IsLoading  bool
	HasError   bool
	// Alert holds a pending blocking alert until the front end acknowledges it.
	Alert string
}

// Length counts UTF-16 code units, so a character outside the BMP counts
// as two. Browsers report string length the same way.
func Length(s string) int {
	n := 0
	for _, r := range s {
		if l := len(utf16.Encode([]rune{r})); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

// Input applies a keystroke. The candidate replaces the input only when it
// fits the limit; otherwise nothing changes and false is returned.
func (s *State) Input(candidate string) bool {
	if Length(candidate) > CharacterLimit {
		return false
	}
	s.InputText = candidate
	return true
}

// CanSubmit reports whether the submit trigger is enabled.
func (s State) CanSubmit() bool {
	return !s.IsLoading && s.InputText != ""
}

// BeginSubmit moves the form to LOADING and returns the text to send.
func (s *State) BeginSubmit() (string, error) {
	if !s.CanSubmit() {
		return "", ErrSubmitDisabled
	}
	s.IsLoading = true
	s.HasError = false
	return s.InputText, nil
}

// Resolve applies the outcome of the in-flight request and returns the form
// to IDLE.
func (s *State) Resolve(result humanize.Result) {
	defer func() { s.IsLoading = false }()

	switch result.Kind {
	case humanize.Success:
		s.OutputText = result.Text
	case humanize.HTTPError:
		s.HasError = true
	case humanize.TransportError:
		s.Alert = TransportAlertMessage
	}
}

// TakeAlert returns the pending alert and clears it.
func (s *State) TakeAlert() string {
	alert := s.Alert
	s.Alert = ""
	return alert
}

// Copy returns the output verbatim for the clipboard.
func (s State) Copy() string {
	return s.OutputText
}
