package test

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

const asciiLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// RandomASCIIString returns a pseudo-random ASCII string within the provided bounds.
// When maxLen equals minLen the resulting string always has that exact length.
func RandomASCIIString(minLen, maxLen int) string {
	if minLen <= 0 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	length := minLen
	if maxLen > minLen {
		length += int(randomIntn(maxLen - minLen + 1))
	}
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = asciiLetters[randomIntn(len(asciiLetters))]
	}
	return string(buf)
}

// RandomHexID returns a 24 character hex string shaped like a document id.
func RandomHexID() string {
	const hexDigits = "0123456789abcdef"
	buf := make([]byte, 24)
	for i := range buf {
		buf[i] = hexDigits[randomIntn(len(hexDigits))]
	}
	return string(buf)
}

// RandomPhone returns a ten digit phone number.
func RandomPhone() string {
	return fmt.Sprintf("9%09d", randomIntn(1_000_000_000))
}

// RandomISIN returns an identifier shaped like an Indian fund ISIN.
func RandomISIN() string {
	return fmt.Sprintf("INF%09d", randomIntn(1_000_000_000))
}

func randomIntn(n int) int {
	rngMu.Lock()
	defer rngMu.Unlock()
	return rng.Intn(n)
}
