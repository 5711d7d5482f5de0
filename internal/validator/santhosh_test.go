package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchemaID = "http://example.com/schema.json"

func TestNewSanthoshCompiler(t *testing.T) {
	t.Parallel()
	c := NewSanthoshCompiler()
	assert.NotNil(t, c)
}

func TestSanthoshCompiler_Compile(t *testing.T) {
	t.Parallel()

	t.Run("successful compile", func(t *testing.T) {
		t.Parallel()
		c := NewSanthoshCompiler()
		data := map[string]interface{}{
			"$id":  testSchemaID,
			"type": "object",
		}

		require.NoError(t, c.AddSchema(testSchemaID, data))
		v, err := c.Compile(testSchemaID)
		require.NoError(t, err)
		assert.NotNil(t, v)
	})

	t.Run("compile missing schema", func(t *testing.T) {
		t.Parallel()
		c := NewSanthoshCompiler()

		v, err := c.Compile("http://example.com/missing.json")
		require.Error(t, err)
		assert.Nil(t, v)
	})

	t.Run("compile invalid schema", func(t *testing.T) {
		t.Parallel()
		c := NewSanthoshCompiler()
		id := "http://example.com/invalid.json"
		data := map[string]interface{}{
			"type": 123, // type must be string or array
		}

		_ = c.AddSchema(id, data)
		v, err := c.Compile(id)
		require.Error(t, err)
		assert.Nil(t, v)
	})
}

func TestCompileJSON(t *testing.T) {
	t.Parallel()

	schemaJSON := `{
		"type": "object",
		"properties": {"paths": {"type": "array", "items": {"type": "string"}}},
		"additionalProperties": false
	}`

	t.Run("valid and invalid documents", func(t *testing.T) {
		t.Parallel()
		v, err := CompileJSON(NewSanthoshCompiler(), testSchemaID, schemaJSON)
		require.NoError(t, err)

		require.NoError(t, v.Validate(map[string]interface{}{
			"paths": []interface{}{"src/"},
		}))
		require.Error(t, v.Validate(map[string]interface{}{
			"paths": "src/",
		}))
		require.Error(t, v.Validate(map[string]interface{}{
			"unknown": []interface{}{},
		}))
	})

	t.Run("malformed schema json", func(t *testing.T) {
		t.Parallel()
		_, err := CompileJSON(NewSanthoshCompiler(), testSchemaID, `{"type":`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is not valid JSON")
	})
}
