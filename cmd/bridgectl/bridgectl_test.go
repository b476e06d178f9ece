package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferFlags(t *testing.T) {
	cmd := newTransferCmd()

	for _, name := range []string{"from", "to", "amount"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}

	cmd.SetArgs([]string{"--to", "addr_test1qpxyz"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount")
}

func TestProbeRequiresAddress(t *testing.T) {
	cmd := newProbeCmd()
	cmd.SetArgs([]string{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, map[string]int64{"sats": 60000}))
	assert.Equal(t, "{\n  \"sats\": 60000\n}\n", buf.String())
}
