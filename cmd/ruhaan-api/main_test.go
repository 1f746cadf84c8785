package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskPrintsResult(t *testing.T) {
	t.Setenv("RUHAAN_LLM_PROVIDER", "mock")
	t.Setenv("RUHAAN_STORAGE_BACKEND", "memory")
	t.Setenv("RUHAAN_HISTORY_BACKEND", "memory")

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"ask", "add", "task:", "Write", "report"})

	require.NoError(t, cmd.Execute(), errOut.String())

	var got askOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got), out.String())
	assert.Equal(t, "command", got.Type)
	assert.Equal(t, "quick_task", got.Tool)
	assert.Equal(t, "en-IN", got.LanguageCode)
	assert.Contains(t, got.Reply, "Write report")
}

func TestAskRequiresText(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"ask"})

	assert.Error(t, cmd.Execute())
}
