package common

import (
	"math/rand"
	"strings"
	"time"
	"unicode"
)

const codeDigits = "0123456789"

// GenerateReferralCode builds a referral code from the holder's first
// name: up to four leading letters uppercased, padded with "REF" when the
// name is too short, followed by four random digits.
func GenerateReferralCode(firstName string) string {
	var prefix strings.Builder
	for _, r := range firstName {
		if unicode.IsLetter(r) {
			prefix.WriteRune(unicode.ToUpper(r))
		}
		if prefix.Len() >= 4 {
			break
		}
	}
	for prefix.Len() < 4 {
		prefix.WriteString("REF")
	}

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = codeDigits[r.Intn(len(codeDigits))]
	}
	return prefix.String()[:4] + string(suffix)
}

// GenerateReference returns a 10-character alphanumeric reference used
// for storage object names.
func GenerateReference() string {
	const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	result := make([]byte, 10)
	for i := range result {
		result[i] = characters[r.Intn(len(characters))]
	}
	return string(result)
}
