package calc

// Kind implements enums for tokens
type Kind int

const (
	UNKNOWN Kind = iota

	Number   // numeric literal
	Operator // operator or parenthesis symbol
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "Number"
	case Operator:
		return "Operator"
	}
	return "UNKNOWN"
}
