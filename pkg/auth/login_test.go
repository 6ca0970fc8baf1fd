/*
File: login_test.go
Description: Token shape validation tests.
*/

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateToken(t *testing.T) {
	assert.NoError(t, ValidateToken("XBL3.0 x=1234567890;eyJhbGciOi"))

	cases := map[string]string{
		"empty":              "",
		"wrong scheme":       "Bearer eyJhbGciOi",
		"missing separator":  "XBL3.0 x=1234567890eyJhbGciOi",
		"missing user hash":  "XBL3.0 x=;eyJhbGciOi",
		"missing token part": "XBL3.0 x=1234567890;",
	}
	for name, raw := range cases {
		assert.Error(t, ValidateToken(raw), name)
	}
}
