package valueobject

import (
	"fmt"
	"strings"
)

// DocumentKind tells a personal taxpayer number (CPF) from a company one (CNPJ)
type DocumentKind string

const (
	DocumentCPF  DocumentKind = "CPF"
	DocumentCNPJ DocumentKind = "CNPJ"
)

// Document is a validated CPF or CNPJ holding only digits
type Document struct {
	kind   DocumentKind
	digits string
}

// OnlyDigits strips every non-digit rune
func OnlyDigits(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// NewCPF parses and validates a CPF, accepting punctuation
func NewCPF(value string) (Document, error) {
	digits := OnlyDigits(value)
	if len(digits) != 11 {
		return Document{}, fmt.Errorf("CPF must have 11 digits")
	}
	if allSame(digits) || !checkDigits(digits, 9, cpfWeights) {
		return Document{}, fmt.Errorf("invalid CPF")
	}
	return Document{kind: DocumentCPF, digits: digits}, nil
}

// NewCNPJ parses and validates a CNPJ, accepting punctuation
func NewCNPJ(value string) (Document, error) {
	digits := OnlyDigits(value)
	if len(digits) != 14 {
		return Document{}, fmt.Errorf("CNPJ must have 14 digits")
	}
	if allSame(digits) || !checkDigits(digits, 12, cnpjWeights) {
		return Document{}, fmt.Errorf("invalid CNPJ")
	}
	return Document{kind: DocumentCNPJ, digits: digits}, nil
}

// ParseDocument picks CPF or CNPJ by the number of digits
func ParseDocument(value string) (Document, error) {
	switch len(OnlyDigits(value)) {
	case 11:
		return NewCPF(value)
	case 14:
		return NewCNPJ(value)
	default:
		return Document{}, fmt.Errorf("document must be a CPF (11 digits) or a CNPJ (14 digits)")
	}
}

// RestoreDocument rebuilds a stored document without re-running the checksum
func RestoreDocument(digits string) Document {
	switch len(digits) {
	case 11:
		return Document{kind: DocumentCPF, digits: digits}
	case 14:
		return Document{kind: DocumentCNPJ, digits: digits}
	default:
		return Document{}
	}
}

// Kind returns CPF or CNPJ
func (d Document) Kind() DocumentKind { return d.kind }

// Digits returns the unformatted number
func (d Document) Digits() string { return d.digits }

// IsEmpty reports whether the document is unset
func (d Document) IsEmpty() bool { return d.digits == "" }

// String formats the document as 000.000.000-00 or 00.000.000/0000-00
func (d Document) String() string {
	switch d.kind {
	case DocumentCPF:
		s := d.digits
		return s[:3] + "." + s[3:6] + "." + s[6:9] + "-" + s[9:]
	case DocumentCNPJ:
		s := d.digits
		return s[:2] + "." + s[2:5] + "." + s[5:8] + "/" + s[8:12] + "-" + s[12:]
	}
	return ""
}

var (
	cpfWeights  = []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// checkDigits verifies the two mod-11 check digits after the first base digits.
// weights holds the weights for the second check digit; the first uses weights[1:].
func checkDigits(digits string, base int, weights []int) bool {
	for pos := base; pos < base+2; pos++ {
		w := weights[len(weights)-pos:]
		sum := 0
		for i := 0; i < pos; i++ {
			sum += int(digits[i]-'0') * w[i]
		}
		check := sum % 11
		if check < 2 {
			check = 0
		} else {
			check = 11 - check
		}
		if int(digits[pos]-'0') != check {
			return false
		}
	}
	return true
}

func allSame(digits string) bool {
	return strings.Count(digits, digits[:1]) == len(digits)
}
