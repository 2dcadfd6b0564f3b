package game

import "crypto/rand"

// Room codes are short and human-typeable: 6 characters drawn uniformly
// from uppercase letters and digits (36^6 combinations). Codes are unique
// among live rooms only; a destroyed room's code may be handed out again.
const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6
)

// GenerateCode draws room codes until taken reports the code as free.
// The caller must hold whatever lock makes taken authoritative, so that
// the collision check and the registration happen atomically.
func GenerateCode(taken func(string) bool) string {
	for {
		code := randomCode()
		if !taken(code) {
			return code
		}
	}
}

func randomCode() string {
	// Bytes in the truncated tail of the range are rejected so every
	// character of the alphabet is drawn with equal probability.
	const max = byte(255 - (256 % len(codeAlphabet)))

	out := make([]byte, 0, codeLength)
	buf := make([]byte, codeLength*2)

	for {
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}

		for _, b := range buf {
			if b > max {
				continue
			}
			out = append(out, codeAlphabet[int(b)%len(codeAlphabet)])
			if len(out) == codeLength {
				return string(out)
			}
		}
	}
}
