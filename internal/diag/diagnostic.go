package diag

type Note struct {
	Msg string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	// Subject is the qualified name of the hint, reference, class, or
	// callable the diagnostic is about. May be empty.
	Subject string
	Notes   []Note
}
