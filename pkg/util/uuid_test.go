package util

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMd5ThenHex(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", Md5ThenHex())
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", Md5ThenHex([]byte("abc")))
	// parts hash as one stream
	assert.Equal(t, Md5ThenHex([]byte("abc")), Md5ThenHex([]byte("a"), []byte("bc")))
}

func TestContentUUID(t *testing.T) {
	a := ContentUUID([]byte("plane"))
	assert.Equal(t, a, ContentUUID([]byte("plane")))
	assert.NotEqual(t, a, ContentUUID([]byte("planes")))
	assert.Equal(t, uuid.Version(3), a.Version())
	assert.Equal(t, uuid.RFC4122, a.Variant())
}
