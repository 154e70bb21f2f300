package remote

// Error is a network or backend failure surfaced by an adapter. The
// message is passed through verbatim where the backend provides one.
type Error struct {
	Op      string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Op + ": remote store error"
	}
	return e.Op + ": " + e.Message
}
