package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs sort lexicographically by creation
// time, which keeps otp code_id sort keys in issuance order under one email.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
