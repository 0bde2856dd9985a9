package service

// ArgumentError reports command-line arguments that are individually valid
// but inconsistent, such as `update` without a status. It is raised before
// any network access.
type ArgumentError struct {
	Msg string
}

func (e *ArgumentError) Error() string {
	return "Argument error: " + e.Msg
}
