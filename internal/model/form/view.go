package form

// View is the derived display state, recomputed from State on demand.
type View struct {
	Remaining    int  `json:"remaining"`
	NearLimit    bool `json:"nearLimit"`
	AtLimit      bool `json:"atLimit"`
	CanSubmit    bool `json:"canSubmit"`
	OutputLength int  `json:"outputLength"`
}

// View derives the counters and banner flags.
func (s State) View() View {
	remaining := CharacterLimit - Length(s.InputText)
	return View{
		Remaining:    remaining,
		NearLimit:    remaining > 0 && remaining <= NearLimitThreshold,
		AtLimit:      remaining == 0,
		CanSubmit:    s.CanSubmit(),
		OutputLength: Length(s.OutputText),
	}
}
