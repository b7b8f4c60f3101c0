package payment

type Method string

const (
	MethodCard   Method = "CARD"
	MethodCash   Method = "CASH"
	MethodOnline Method = "ONLINE"
)

func (m Method) String() string { return string(m) }

func (m Method) IsValid() bool {
	switch m {
	case MethodCard, MethodCash, MethodOnline:
		return true
	default:
		return false
	}
}

// RequiresGateway reports whether capture goes through the external provider.
func (m Method) RequiresGateway() bool {
	return m == MethodCard || m == MethodOnline
}

const (
	MaxCreatedByLength = 50
	MaxNotesLength     = 500
)
