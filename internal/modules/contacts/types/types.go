package types

type Contact struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Number    string `json:"number"`
	Icon      string `json:"icon"`
	SortOrder int    `json:"sortOrder"`
}

// State is one step of a contacts load: Loading, then Success or Failure.
type State interface {
	isState()
}

type Loading struct {
	Message string
}

type Success struct {
	Contacts []Contact
}

type Failure struct {
	Message string
	Err     error
}

func (Loading) isState() {}
func (Success) isState() {}
func (Failure) isState() {}
