package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/errors"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/log"
)

func writeCSV(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("Email No.,the,to,ect,and,Prediction\n")
	for i := 0; i < 24; i++ {
		label := i % 2
		fmt.Fprintf(&b, "Email %d,%d,%d,%d,%d,%d\n", i+1, label*3, i%4, (i+label)%3, 1-label, label)
	}
	path := filepath.Join(t.TempDir(), "emails.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func restoreLogging(t *testing.T) {
	t.Helper()
	prev := log.GetLogger()
	t.Cleanup(func() {
		log.SetLogger(prev)
		errors.SetZerologWarnFunc(nil)
	})
}

func TestRootCommandRuns(t *testing.T) {
	restoreLogging(t)
	t.Setenv("EMAILCLF_TUNING_ENABLED", "false")

	var stdout, stderr bytes.Buffer
	root := NewRootCommand(&stdout, &stderr)
	root.SetArgs([]string{"--data", writeCSV(t), "--log-level", "info"})
	require.NoError(t, root.Execute())

	out := stdout.String()
	assert.Contains(t, out, "Class distribution:")
	assert.Contains(t, out, "\nDecisionTree Performance:\n")
	assert.NotContains(t, out, "Best Random Forest")
	assert.NotContains(t, out, "Dataset loaded", "logs stay off stdout")
	assert.Contains(t, stderr.String(), "Model evaluated")
}

func TestRootCommandConfigFile(t *testing.T) {
	restoreLogging(t)
	cfgPath := filepath.Join(t.TempDir(), "emailclf.yaml")
	content := fmt.Sprintf("data:\n  path: %s\n  headRows: 2\ntuning:\n  enabled: false\nlog:\n  level: error\n", writeCSV(t))
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	var stdout, stderr bytes.Buffer
	root := NewRootCommand(&stdout, &stderr)
	root.SetArgs([]string{"--config", cfgPath})
	require.NoError(t, root.Execute())

	assert.Contains(t, stdout.String(), "First 2 rows of the dataset:")
	assert.Empty(t, stderr.String())
}

func TestRootCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing data file", []string{"--data", "does-not-exist.csv"}},
		{"bad log level", []string{"--log-level", "loud"}},
		{"missing config file", []string{"--config", "absent.yaml"}},
		{"unexpected argument", []string{"extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restoreLogging(t)
			var stdout, stderr bytes.Buffer
			root := NewRootCommand(&stdout, &stderr)
			root.SetArgs(tt.args)
			assert.Error(t, root.Execute())
		})
	}
}
