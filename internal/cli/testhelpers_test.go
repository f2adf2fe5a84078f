package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	specsDir     = "../../testdata/specs"
	scenariosDir = "../../testdata/scenarios"
)

// scenarioPath returns the shared scenario file called name.
func scenarioPath(name string) string {
	return filepath.Join(scenariosDir, name+".yaml")
}

// execute runs the root command with colour disabled and returns what it
// wrote to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(errBuf)
	cmd.SetArgs(append(args, "--no-color"))
	err := cmd.Execute()
	return buf.String(), err
}

// writeFile writes content to dir/name, creating dir.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const userSpec = `package specs

entity: User: {
	table: "users"
	columns: {
		id:        {type: int, primary: true}
		name:      string
		age:       int | null
		active:    bool
		createdAt: {type: int, db_name: "created_at"}
	}
}
`

// writeScenarioDir creates a scenarios directory holding one scenario
// named name, with its own specs directory next to it.
func writeScenarioDir(t *testing.T, name, body string) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "specs"), "user.cue", userSpec)
	dir := filepath.Join(root, "scenarios")
	writeFile(t, dir, name+".yaml", "name: "+name+"\n"+body)
	return dir
}

const passingScenarioBody = `description: "Filter is pushed"
specs: ../specs
entity: User
query_id: test-query-cli
rows:
  - {id: 1, name: ada, age: 36, active: true, createdAt: 990}
  - {id: 2, name: grace, age: 25, active: false, createdAt: 980}
pipeline:
  - filter: {column: age, op: ">", value: 30}
assertions:
  - type: optimizer
    value: initial_filter
  - type: rows
    expect:
      - {id: 1}
`

const failingScenarioBody = `description: "Expects the wrong optimizer"
specs: ../specs
entity: User
pipeline:
  - filter: {column: age, op: ">", value: 30}
assertions:
  - type: optimizer
    value: sorted_skip
`
