package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Parámetros bajos para no quemar CPU en tests.
var testParams = Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}

func TestHashAndVerify(t *testing.T) {
	phc, err := Hash(testParams, "s3cret")
	require.NoError(t, err)
	assert.True(t, len(phc) > 0)
	assert.Contains(t, phc, "$argon2id$v=19$")

	assert.True(t, Verify("s3cret", phc))
	assert.False(t, Verify("wrong", phc))
	assert.False(t, Verify("", phc))
}

func TestHashIsSalted(t *testing.T) {
	a, err := Hash(testParams, "s3cret")
	require.NoError(t, err)
	b, err := Hash(testParams, "s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.True(t, Verify("s3cret", a))
	assert.True(t, Verify("s3cret", b))
}

func TestHashRejectsEmptySecret(t *testing.T) {
	_, err := Hash(testParams, "")
	assert.Error(t, err)
}

func TestVerifyMalformedPHC(t *testing.T) {
	cases := []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=8192,t=1,p=1$onlyfourparts",
		"$bcrypt$v=19$m=8192,t=1,p=1$c2FsdA$ZGs",
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdA$ZGs",
		"$argon2id$v=19$bogus$c2FsdA$ZGs",
		"$argon2id$v=19$m=8192,t=1,p=1$!!!$ZGs",
		"$argon2id$v=19$m=8192,t=1,p=1$c2FsdA$!!!",
	}
	for _, phc := range cases {
		assert.False(t, Verify("s3cret", phc), "phc=%q", phc)
	}
}
