package app

import (
	"crypto/rand"
	"fmt"
)

const (
	accountNumberLength = 10
	clabeLength         = 18
)

// NewAccountNumber generates a 10-digit savings account number from
// cryptographically random digits.
func NewAccountNumber() (string, error) {
	digits, err := randomDigits(accountNumberLength)
	if err != nil {
		return "", err
	}
	return string(digits), nil
}

// NewCLABE generates an 18-digit CLABE: 17 random digits plus the standard
// weighted mod-10 control digit (weights 3, 7, 1 repeating).
func NewCLABE() (string, error) {
	digits, err := randomDigits(clabeLength - 1)
	if err != nil {
		return "", err
	}
	return string(digits) + string('0'+clabeControlDigit(digits)), nil
}

// clabeControlDigit computes the CLABE check digit over the first 17 digits.
func clabeControlDigit(digits []byte) byte {
	weights := [3]int{3, 7, 1}
	sum := 0
	for i, d := range digits {
		sum += (int(d-'0') * weights[i%3]) % 10
	}
	return byte((10 - sum%10) % 10)
}

// ValidCLABE reports whether s is an 18-digit string with a correct control digit.
func ValidCLABE(s string) bool {
	if len(s) != clabeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return clabeControlDigit([]byte(s[:clabeLength-1])) == s[clabeLength-1]-'0'
}

func randomDigits(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to read random bytes: %w", err)
	}
	for i := range buf {
		buf[i] = '0' + buf[i]%10
	}
	return buf, nil
}
