// Package util holds the content fingerprints shared by the artifact writer
// and the CLI.
package util

import (
	"crypto/md5"
	"encoding/hex"

	"github.com/google/uuid"
)

// Namespace scopes every content UUID minted here.
var Namespace = uuid.MustParse("7d9a3f2e-5b1c-4c8e-9f0a-2e6d4b8c1a53")

// Md5ThenHex is a quick hasher over the concatenation of parts
func Md5ThenHex(parts ...[]byte) string {
	hasher := md5.New()
	for _, p := range parts {
		hasher.Write(p)
	}
	return hex.EncodeToString(hasher.Sum(nil))
}

// ContentUUID names raw bytes: equal content always yields the same id.
func ContentUUID(raw []byte) uuid.UUID {
	return uuid.NewMD5(Namespace, raw)
}
