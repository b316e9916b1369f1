package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeResult_Runs(t *testing.T) {
	doc := `{
	  "status": "finished",
	  "totalTests": 7,
	  "runs": [
	    {
	      "spec": {"name": "login.spec.js", "relative": "cypress/e2e/login.spec.js"},
	      "stats": {
	        "suites": 1, "tests": 4, "passes": 3, "pending": 0, "skipped": 0, "failures": 1,
	        "duration": 2150.5,
	        "wallClockStartedAt": "2024-05-01T10:00:00.000Z",
	        "wallClockEndedAt": "2024-05-01T10:00:02.150Z",
	        "wallClockDuration": 2150
	      }
	    },
	    {
	      "spec": {"name": "checkout.cy.ts"},
	      "stats": {"tests": 3, "passes": 3, "nested": {"a": 1}}
	    }
	  ]
	}`

	res, err := DecodeResult(strings.NewReader(doc))
	require.NoError(t, err)
	assert.False(t, res.Failed())
	require.Len(t, res.Runs, 2)

	login := res.Runs[0]
	assert.Equal(t, "cypress/e2e/login.spec.js", login.Spec)
	assert.Equal(t, "login", login.Subject)
	assert.Equal(t, 4.0, login.Stats["tests"])
	assert.Equal(t, 2150.5, login.Stats["duration"])
	assert.Equal(t, 2150.0, login.Stats["wallClockDuration"])
	assert.NotContains(t, login.Stats, "wallClockStartedAt")

	checkout := res.Runs[1]
	assert.Equal(t, "checkout", checkout.Subject)
	assert.NotContains(t, checkout.Stats, "nested")
}

func TestDecodeResult_EngineFailureMarker(t *testing.T) {
	res, err := DecodeResult(strings.NewReader(`{"failures": 1, "message": "Cypress could not verify that this server is running"}`))
	require.NoError(t, err)
	assert.True(t, res.Failed())
	assert.Empty(t, res.Runs)
}

func TestDecodeResult_ZeroFailuresMarkerStillFails(t *testing.T) {
	// Presence of the marker is what counts, not its value.
	res, err := DecodeResult(strings.NewReader(`{"failures": 0, "runs": []}`))
	require.NoError(t, err)
	assert.True(t, res.Failed())
}

func TestDecodeResult_FailuresMarkerOfAnyValue(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{name: "null", doc: `{"failures": null}`, want: "null"},
		{name: "bool", doc: `{"failures": true, "message": "could not start"}`, want: "true"},
		{name: "float", doc: `{"failures": 1.0}`, want: "1.0"},
		{name: "object", doc: `{"failures": {"reason": "xvfb"}, "message": {"code": 3}}`, want: `{"reason": "xvfb"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := DecodeResult(strings.NewReader(tt.doc))
			require.NoError(t, err)
			assert.True(t, res.Failed())
			assert.Equal(t, tt.want, string(res.Failures))
		})
	}
}

func TestDecodeResult_NonStringMessageKeptRaw(t *testing.T) {
	res, err := DecodeResult(strings.NewReader(`{"failures": 1, "message": {"code": 3}}`))
	require.NoError(t, err)
	assert.Equal(t, `{"code": 3}`, res.Message)
}

func TestDecodeResult_NoMarkerIsNotFailed(t *testing.T) {
	res, err := DecodeResult(strings.NewReader(`{"runs": []}`))
	require.NoError(t, err)
	assert.False(t, res.Failed())
	assert.Nil(t, res.Failures)
}

func TestDecodeResult_NumericStringsAreNotStats(t *testing.T) {
	res, err := DecodeResult(strings.NewReader(`{"runs":[{"spec":{"name":"a.spec.js"},"stats":{"tests":"12","passes":-1}}]}`))
	require.NoError(t, err)
	require.Len(t, res.Runs, 1)
	assert.NotContains(t, res.Runs[0].Stats, "tests")
	assert.Equal(t, -1.0, res.Runs[0].Stats["passes"])
}

func TestDecodeResult_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "invalid_json", doc: `{"runs": [`},
		{name: "missing_spec_name", doc: `{"runs": [{"spec": {}, "stats": {}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeResult(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestSubject(t *testing.T) {
	tests := map[string]string{
		"login.spec.js":                  "login",
		"cypress/e2e/checkout.cy.ts":     "checkout",
		"README":                         "README",
		".hidden.spec.js":                ".hidden.spec.js",
		"nested/dir/multi.part.spec.tsx": "multi",
	}
	for in, want := range tests {
		assert.Equal(t, want, Subject(in), "Subject(%q)", in)
	}
}
