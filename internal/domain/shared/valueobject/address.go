package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// BrazilianStates lists the valid UF codes
var BrazilianStates = []string{
	"AC", "AL", "AP", "AM", "BA", "CE", "DF", "ES", "GO", "MA", "MT", "MS", "MG", "PA",
	"PB", "PR", "PE", "PI", "RJ", "RN", "RS", "RO", "RR", "SC", "SP", "SE", "TO",
}

// Address is an immutable postal address. Street and city are required once any
// field is set; an all-blank address is the empty address.
type Address struct {
	street     string
	number     string
	complement string
	district   string
	city       string
	state      string
	postalCode string
}

// AddressOption is a functional option for configuring Address
type AddressOption func(*Address)

// WithNumber sets the street number
func WithNumber(number string) AddressOption {
	return func(a *Address) {
		a.number = strings.TrimSpace(number)
	}
}

// WithComplement sets the complement (apartment, block)
func WithComplement(complement string) AddressOption {
	return func(a *Address) {
		a.complement = strings.TrimSpace(complement)
	}
}

// WithDistrict sets the district (bairro)
func WithDistrict(district string) AddressOption {
	return func(a *Address) {
		a.district = strings.TrimSpace(district)
	}
}

// WithPostalCode sets the CEP; punctuation is stripped
func WithPostalCode(postalCode string) AddressOption {
	return func(a *Address) {
		a.postalCode = OnlyDigits(postalCode)
	}
}

// NewAddress creates an address. state must be a UF code when present.
func NewAddress(street, city, state string, opts ...AddressOption) (Address, error) {
	addr := Address{
		street: strings.TrimSpace(street),
		city:   strings.TrimSpace(city),
		state:  strings.ToUpper(strings.TrimSpace(state)),
	}
	for _, opt := range opts {
		opt(&addr)
	}
	if addr.IsEmpty() {
		return Address{}, nil
	}

	if addr.street == "" {
		return Address{}, fmt.Errorf("street cannot be empty")
	}
	if len(addr.street) > 200 {
		return Address{}, fmt.Errorf("street cannot exceed 200 characters")
	}
	if addr.city == "" {
		return Address{}, fmt.Errorf("city cannot be empty")
	}
	if len(addr.city) > 100 {
		return Address{}, fmt.Errorf("city cannot exceed 100 characters")
	}
	if addr.state != "" && !IsValidState(addr.state) {
		return Address{}, fmt.Errorf("invalid state %q", addr.state)
	}
	if addr.postalCode != "" && len(addr.postalCode) != 8 {
		return Address{}, fmt.Errorf("postal code must have 8 digits")
	}
	return addr, nil
}

// IsValidState reports whether uf is a Brazilian state code
func IsValidState(uf string) bool {
	uf = strings.ToUpper(uf)
	for _, s := range BrazilianStates {
		if s == uf {
			return true
		}
	}
	return false
}

// Street returns the street
func (a Address) Street() string { return a.street }

// Number returns the street number
func (a Address) Number() string { return a.number }

// Complement returns the complement
func (a Address) Complement() string { return a.complement }

// District returns the district
func (a Address) District() string { return a.district }

// City returns the city
func (a Address) City() string { return a.city }

// State returns the UF code
func (a Address) State() string { return a.state }

// PostalCode returns the CEP digits
func (a Address) PostalCode() string { return a.postalCode }

// IsEmpty returns true if every field is blank
func (a Address) IsEmpty() bool {
	return a == Address{}
}

// FormattedPostalCode returns the CEP as 00000-000
func (a Address) FormattedPostalCode() string {
	if len(a.postalCode) != 8 {
		return a.postalCode
	}
	return a.postalCode[:5] + "-" + a.postalCode[5:]
}

// String formats the address on one line:
// "Rua X, 10 - Apto 1 - Centro, Cidade/UF, 00000-000"
func (a Address) String() string {
	if a.IsEmpty() {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(a.street)
	if a.number != "" {
		sb.WriteString(", " + a.number)
	}
	if a.complement != "" {
		sb.WriteString(" - " + a.complement)
	}
	if a.district != "" {
		sb.WriteString(" - " + a.district)
	}
	sb.WriteString(", " + a.city)
	if a.state != "" {
		sb.WriteString("/" + a.state)
	}
	if a.postalCode != "" {
		sb.WriteString(", " + a.FormattedPostalCode())
	}
	return sb.String()
}

// addressJSON is used for JSON marshaling/unmarshaling
type addressJSON struct {
	Street     string `json:"street"`
	Number     string `json:"number,omitempty"`
	Complement string `json:"complement,omitempty"`
	District   string `json:"district,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		Street:     a.street,
		Number:     a.number,
		Complement: a.complement,
		District:   a.district,
		City:       a.city,
		State:      a.state,
		PostalCode: a.postalCode,
	})
}

// UnmarshalJSON implements json.Unmarshaler through NewAddress so the same rules apply
func (a *Address) UnmarshalJSON(data []byte) error {
	var v addressJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	addr, err := NewAddress(v.Street, v.City, v.State,
		WithNumber(v.Number), WithComplement(v.Complement), WithDistrict(v.District), WithPostalCode(v.PostalCode))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// Value implements driver.Valuer; the address is stored as a JSON column
func (a Address) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = Address{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}

	if len(data) == 0 || string(data) == "null" {
		*a = Address{}
		return nil
	}
	return json.Unmarshal(data, a)
}
