package editor

// Events receives the editor's results.
type Events interface {
	// Confirmed delivers the encoded output of a successful confirm.
	Confirmed(data []byte, mimeType string)
	// Closed reports that the editor was cancelled.
	Closed()
	// Error reports a load or background-removal failure.
	Error(message string)
}

// EventFuncs adapts plain functions to [Events]. Nil fields are skipped.
type EventFuncs struct {
	OnConfirmed func(data []byte, mimeType string)
	OnClosed    func()
	OnError     func(message string)
}

func (f EventFuncs) Confirmed(data []byte, mimeType string) {
	if f.OnConfirmed != nil {
		f.OnConfirmed(data, mimeType)
	}
}

func (f EventFuncs) Closed() {
	if f.OnClosed != nil {
		f.OnClosed()
	}
}

func (f EventFuncs) Error(message string) {
	if f.OnError != nil {
		f.OnError(message)
	}
}

// NopEvents drops every event.
var NopEvents Events = EventFuncs{}
