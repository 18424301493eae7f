package validation_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoapi/internal/adapter/http/validation"
	"todoapi/internal/core/model/request"
)

func TestValidate_CreateMode(t *testing.T) {
	cases := []struct {
		name    string
		payload any
		valid   bool
		field   string
	}{
		{"title only", map[string]any{"title": "New Todo"}, true, ""},
		{"all fields", map[string]any{"title": "New Todo", "completed": true, "metadata": map[string]any{"a": 1.0}}, true, ""},
		{"missing title", map[string]any{"metadata": map[string]any{}}, false, ""},
		{"title wrong type", map[string]any{"title": 42.0}, false, "title"},
		{"completed wrong type", map[string]any{"title": "x", "completed": "yes"}, false, "completed"},
		{"metadata wrong type", map[string]any{"title": "x", "metadata": []any{}}, false, "metadata"},
		{"not an object", []any{"title"}, false, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validation.Validate(tc.payload, validation.CreateMode)

			if tc.valid {
				assert.NoError(t, err)
				return
			}

			var ve *validation.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tc.field, ve.Field)
			assert.NotEmpty(t, ve.Message)
		})
	}
}

func TestValidate_UpdateMode(t *testing.T) {
	err := validation.Validate(map[string]any{"completed": false}, validation.UpdateMode)
	assert.NoError(t, err)

	err = validation.Validate(map[string]any{"title": "Updated"}, validation.UpdateMode)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "completed")

	err = validation.Validate(map[string]any{"completed": "true"}, validation.UpdateMode)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "completed")
}

func TestValidate_MissingTitleNamesProperty(t *testing.T) {
	err := validation.Validate(map[string]any{}, validation.CreateMode)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")
}

func TestValidate_UnknownMode(t *testing.T) {
	err := validation.Validate(map[string]any{}, validation.Mode("patch"))

	assert.Error(t, err)
}

func TestDecode_CreateRequest(t *testing.T) {
	params, err := validation.Decode[request.CreateTodoRequest](
		[]byte(`{"title":"New Todo","completed":true,"metadata":{"tags":["a"]}}`),
		validation.CreateMode,
	)

	require.NoError(t, err)
	assert.Equal(t, "New Todo", *params.Title)
	assert.True(t, *params.Completed)
	assert.Equal(t, map[string]any{"tags": []any{"a"}}, params.Metadata)
}

func TestDecode_BindsExactKeysOnly(t *testing.T) {
	params, err := validation.Decode[request.UpdateTodoRequest](
		[]byte(`{"completed":false,"TITLE":"hijacked","Completed":true,"Metadata":"x"}`),
		validation.UpdateMode,
	)

	require.NoError(t, err)
	assert.Nil(t, params.Title)
	assert.False(t, *params.Completed)
	assert.Nil(t, params.Metadata)
}

func TestDecode_KeepsMetadataNumbersExact(t *testing.T) {
	params, err := validation.Decode[request.CreateTodoRequest](
		[]byte(`{"title":"a","metadata":{"external_id":9007199254740993}}`),
		validation.CreateMode,
	)

	require.NoError(t, err)
	assert.Equal(t, json.Number("9007199254740993"), params.Metadata["external_id"])
	assert.Equal(t, int64(9007199254740993), params.ToDomain().Metadata["external_id"])
}

func TestDecode_EmptyTitleRejected(t *testing.T) {
	_, err := validation.Decode[request.CreateTodoRequest]([]byte(`{"title":""}`), validation.CreateMode)

	var ve *validation.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "title", ve.Field)
	assert.Equal(t, "'title' must not be empty", ve.Message)
}

func TestDecode_UpdateRequest(t *testing.T) {
	params, err := validation.Decode[request.UpdateTodoRequest]([]byte(`{"completed":false}`), validation.UpdateMode)

	require.NoError(t, err)
	assert.False(t, *params.Completed)
	assert.Nil(t, params.Title)
	assert.Nil(t, params.Metadata)

	patch := params.ToPatch("123")
	assert.Equal(t, "123", patch.ID)
	assert.False(t, patch.HasMetadata)
}

func TestDecode_UpdateRequestMissingCompleted(t *testing.T) {
	_, err := validation.Decode[request.UpdateTodoRequest]([]byte(`{"title":"X"}`), validation.UpdateMode)

	assert.Error(t, err)
}

func TestDecode_InvalidJSON(t *testing.T) {
	_, err := validation.Decode[request.CreateTodoRequest]([]byte(`{"title":`), validation.CreateMode)

	var ve *validation.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "request body must be a valid JSON object", ve.Message)
}

func TestDecode_EmptyBody(t *testing.T) {
	_, err := validation.Decode[request.CreateTodoRequest](nil, validation.CreateMode)

	assert.Error(t, err)
}
