package styx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMetaSchemaDecodesCleanly(t *testing.T) {
	sf, err := LoadMetaSchema()
	require.NoError(t, err)
	_, ok := sf.Root()
	assert.True(t, ok)
	_, ok = sf.Resolve("Schema")
	assert.True(t, ok)
}

func TestSelfValidateReportsZeroErrors(t *testing.T) {
	res, err := SelfValidate()
	require.NoError(t, err)
	assert.Empty(t, res.Errors, "meta-schema must validate against itself with zero errors")
}
