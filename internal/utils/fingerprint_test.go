package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	Income float64 `json:"income"`
	Age    float64 `json:"age"`
}

func TestFingerprint(t *testing.T) {
	a, err := Fingerprint("s3cret", profile{Income: 960000, Age: 34})
	require.NoError(t, err)
	assert.Len(t, a, 64)

	same, err := Fingerprint("s3cret", profile{Income: 960000, Age: 34})
	require.NoError(t, err)
	assert.Equal(t, a, same)

	otherValue, err := Fingerprint("s3cret", profile{Income: 960001, Age: 34})
	require.NoError(t, err)
	assert.NotEqual(t, a, otherValue)

	otherKey, err := Fingerprint("different", profile{Income: 960000, Age: 34})
	require.NoError(t, err)
	assert.NotEqual(t, a, otherKey)
}

func TestFingerprint_Errors(t *testing.T) {
	_, err := Fingerprint("", profile{})
	assert.Error(t, err)

	_, err = Fingerprint("k", make(chan int))
	assert.Error(t, err)
}
