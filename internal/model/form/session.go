package form

import "time"

// Snapshot is a copy of one session's state plus its derived view, as
// exchanged with front ends.
type Snapshot struct {
	ID         string    `json:"id"`
	InputText  string    `json:"inputText"`
	OutputText string    `json:"outputText"`
	IsLoading  bool      `json:"isLoading"`
	HasError   bool      `json:"hasError"`
	Alert      string    `json:"alert,omitempty"`
	View       View      `json:"view"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewSnapshot captures state for the session id.
func NewSnapshot(id string, state State, createdAt, updatedAt time.Time) Snapshot {
	return Snapshot{
		ID:         id,
		InputText:  state.InputText,
		OutputText: state.OutputText,
		IsLoading:  state.IsLoading,
		HasError:   state.HasError,
		Alert:      state.Alert,
		View:       state.View(),
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}
}
