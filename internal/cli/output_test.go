package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayushgw/graphql-basics/internal/engine"
	"github.com/ayushgw/graphql-basics/internal/model"
)

func decodeResponse(t *testing.T, data []byte) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal(data, &resp), string(data))
	return resp
}

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, f.Success(map[string]int{"users": 3}))

	resp := decodeResponse(t, buf.Bytes())
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, map[string]any{"users": float64(3)}, resp.Data)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, f.Success("3 users loaded"))
	assert.Equal(t, "3 users loaded\n", buf.String())
}

func TestErrorCode(t *testing.T) {
	notFound := engine.NotFoundError(model.KindUser, "u1")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"domain error", notFound, "NOT_FOUND"},
		{"wrapped domain error", WrapExitError(ExitFailure, "failed to apply seed", fmt.Errorf("users[1]: %w", engine.ConflictError("a@x.com"))), "CONFLICT"},
		{"command error", NewExitError(ExitCommandError, "failed to load config"), CodeCommand},
		{"failure", NewExitError(ExitFailure, "scenario walkthrough failed"), CodeFailure},
		{"plain error", errors.New("boom"), CodeFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCode(tt.err))
		})
	}
}

func TestOutputFormatter_JSONErrorCarriesDomainCode(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	cause := WrapExitError(ExitFailure, "cannot stream comments of p9",
		engine.ValidationError(model.KindPost, "p9", "post does not exist"))
	err := f.Error(cause)
	assert.Same(t, cause, err)

	resp := decodeResponse(t, buf.Bytes())
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "post does not exist")
	assert.Equal(t, map[string]any{"kind": "post", "id": "p9"}, resp.Error.Details)
}

func TestOutputFormatter_JSONErrorWithoutDomainCause(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	err := f.Error(WrapExitError(ExitCommandError, "failed to load scenario", errors.New("no such file")))
	require.Error(t, err)

	resp := decodeResponse(t, buf.Bytes())
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeCommand, resp.Error.Code)
	assert.Equal(t, "failed to load scenario: no such file", resp.Error.Message)
	assert.Nil(t, resp.Error.Details)
}

func TestOutputFormatter_ErrorTextModeIsSilent(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	cause := engine.NotFoundError(model.KindComment, "c1")
	assert.Same(t, cause, f.Error(cause))
	assert.Empty(t, buf.String())
}

func TestOutputFormatter_ErrorNil(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	assert.NoError(t, f.Error(nil))
	assert.Empty(t, buf.String())
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad flags")))
	assert.Equal(t, ExitFailure, GetExitCode(fmt.Errorf("wrapped: %w", NewExitError(ExitFailure, "x"))))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}

func TestRunJSONReportsRejectedPost(t *testing.T) {
	out, err := executeRun(t, &RootOptions{Format: "json"}, time.Second,
		"--seed", demoSeed, "--post", "gotham")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeResponse(t, []byte(out))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "post is not published")
}

func TestRunJSONReportsSeedConflict(t *testing.T) {
	out, err := executeRun(t, &RootOptions{Format: "json"}, time.Second,
		"--seed", "../seed/testdata/duplicate_email.yaml")
	require.Error(t, err)

	resp := decodeResponse(t, []byte(out))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "CONFLICT", resp.Error.Code)
}

func TestTraceJSONReportsMissingScenario(t *testing.T) {
	out, err := executeTrace(t, "json", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decodeResponse(t, []byte(out))
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeCommand, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "failed to load scenario")
}

func TestConfigJSONReportsInvalidFile(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewConfigCommand(&RootOptions{Format: "json", ConfigPath: "../config/testdata/bad_buffer.json"})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decodeResponse(t, buf.Bytes())
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeCommand, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "failed to load config")
}
