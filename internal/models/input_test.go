package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenreInput(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"comma string", `{"genre":"Action, Sci-Fi"}`, []string{"Action", "Sci-Fi"}},
		{"empty segments dropped", `{"genre":"Action,, ,Drama,"}`, []string{"Action", "Drama"}},
		{"list kept in order", `{"genre":["Drama","Action"]}`, []string{"Drama", "Action"}},
		{"duplicates removed", `{"genre":["Action","Action","Drama"]}`, []string{"Action", "Drama"}},
		{"empty string", `{"genre":""}`, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var in ContentInput
			require.NoError(t, json.Unmarshal([]byte(tc.in), &in))
			require.NotNil(t, in.Genre)
			assert.Equal(t, tc.want, []string(*in.Genre))
		})
	}

	t.Run("null is absent", func(t *testing.T) {
		var in ContentInput
		require.NoError(t, json.Unmarshal([]byte(`{"genre":null}`), &in))
		assert.Nil(t, in.Genre)
	})

	t.Run("number is rejected", func(t *testing.T) {
		var in ContentInput
		assert.Error(t, json.Unmarshal([]byte(`{"genre":5}`), &in))
	})
}

func TestFlexInt(t *testing.T) {
	var in ContentInput
	require.NoError(t, json.Unmarshal([]byte(`{"year":"2024"}`), &in))
	assert.Equal(t, 2024, *in.Year.Ptr())

	in = ContentInput{}
	require.NoError(t, json.Unmarshal([]byte(`{"year":1999}`), &in))
	assert.Equal(t, 1999, *in.Year.Ptr())

	in = ContentInput{}
	require.NoError(t, json.Unmarshal([]byte(`{"year":""}`), &in))
	require.NotNil(t, in.Year)
	assert.Nil(t, in.Year.Ptr())

	in = ContentInput{}
	assert.Error(t, json.Unmarshal([]byte(`{"year":"soon"}`), &in))
	assert.Error(t, json.Unmarshal([]byte(`{"year":20.5}`), &in))
}
