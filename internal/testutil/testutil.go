// Package testutil provides shared test helpers for creating config files.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SetupTestConfig creates a minimal config file and the report output
// directory for testing. Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	reportsDir := filepath.Join(tmpDir, "reports")
	require.NoError(t, os.MkdirAll(reportsDir, 0755))

	configContent := fmt.Sprintf(`server:
  port: 8081
  cors:
    allowed_origins:
      - http://localhost:3000
      - https://app.example.com
openai:
  model: gpt-4o-mini
identity:
  base_url: https://api.clerk.com
database:
  host: localhost
  port: 3306
  database: smartguide_test
  username: test
reports:
  output_directory: %s
`, reportsDir)

	configFile := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(configFile, []byte(configContent), 0644))
	return configFile
}
