package spots

type SpotType string

const (
	TypeCovered SpotType = "covered"
	TypeOpen    SpotType = "open"
	TypeGarage  SpotType = "garage"
	TypeStreet  SpotType = "street"
)

// IsValid checks if the spot type is a known value
func (t SpotType) IsValid() bool {
	switch t {
	case TypeCovered, TypeOpen, TypeGarage, TypeStreet:
		return true
	}
	return false
}

// String returns the string representation of SpotType
func (t SpotType) String() string {
	return string(t)
}
