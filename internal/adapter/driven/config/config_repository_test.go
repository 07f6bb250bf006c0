package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/aws-anomaly-rca-go/internal/shared/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newRepo(env map[string]string) *ConfigRepositoryImpl {
	return &ConfigRepositoryImpl{
		lookupEnv: func(k string) (string, bool) {
			v, ok := env[k]
			return v, ok
		},
		dotenv: []string{filepath.Join(os.TempDir(), "missing-anomaly-rca.env")},
	}
}

func TestLoadConfigFile_Formats(t *testing.T) {
	files := map[string]string{
		"config.toml": `
[athena]
table = "cur"
database = "cur_db"
poll_interval = "2s"

[notification]
recipients = "a@example.com"
`,
		"config.yaml": `
athena:
  table: cur
  database: cur_db
  poll_interval: 2s
notification:
  recipients: a@example.com
`,
		"config.json": `{"athena":{"table":"cur","database":"cur_db","poll_interval":"2s"},"notification":{"recipients":"a@example.com"}}`,
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			cfg, err := newRepo(nil).LoadConfigFile(writeFile(t, name, content))
			require.NoError(t, err)
			assert.Equal(t, "cur", cfg.Athena.Table)
			assert.Equal(t, "cur_db", cfg.Athena.Database)
			assert.Equal(t, 2*time.Second, cfg.Athena.PollInterval.Std())
			assert.Equal(t, "a@example.com", cfg.Notification.Recipients)
		})
	}
}

func TestLoadConfigFile_Errors(t *testing.T) {
	repo := newRepo(nil)

	_, err := repo.LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "error accessing config file")

	_, err = repo.LoadConfigFile(t.TempDir())
	assert.ErrorContains(t, err, "is a directory")

	_, err = repo.LoadConfigFile(writeFile(t, "config.ini", "x=1"))
	assert.ErrorContains(t, err, "unsupported config file format")

	_, err = repo.LoadConfigFile(writeFile(t, "config.json", `{"athena":{"query_timeout":"soon"}}`))
	assert.Error(t, err)
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := newRepo(nil).Load("")
	require.NoError(t, err)
	assert.Equal(t, types.DefaultConfig(), cfg)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeFile(t, "config.yaml", `
athena:
  table: from_file
  output_location: file-bucket
event_bridge:
  bus_name: file-bus
`)
	repo := newRepo(map[string]string{
		"ATHENA_TABLE":             "from_env",
		"ATHENA_DATABSE":           "legacy_db",
		"ATHENA_QUERY_TIMEOUT":     "90s",
		"EVENT_BRIDGE_SOURCE_NAME": "cost.anomaly",
		"RECIPIENT_EMAILS":         " a@example.com,b@example.com ",
		"AWS_MAX_ATTEMPTS":         "3",
		"NOTIFICATION_CHANNEL":     "",
	})

	cfg, err := repo.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from_env", cfg.Athena.Table)
	assert.Equal(t, "legacy_db", cfg.Athena.Database)
	assert.Equal(t, "file-bucket", cfg.Athena.OutputLocation)
	assert.Equal(t, 90*time.Second, cfg.Athena.QueryTimeout.Std())
	assert.Equal(t, types.DefaultPollInterval, cfg.Athena.PollInterval.Std())
	assert.Equal(t, "file-bus", cfg.EventBridge.BusName)
	assert.Equal(t, "cost.anomaly", cfg.EventBridge.Source)
	assert.Equal(t, "a@example.com,b@example.com", cfg.Notification.Recipients)
	assert.Equal(t, types.ChannelEmail, cfg.Notification.Channel)
	assert.Equal(t, 3, cfg.AWS.MaxAttempts)
}

func TestLoad_PrefersCurrentDatabaseVariable(t *testing.T) {
	cfg, err := newRepo(map[string]string{"ATHENA_DATABASE": "new", "ATHENA_DATABSE": "old"}).Load("")
	require.NoError(t, err)
	assert.Equal(t, "new", cfg.Athena.Database)
}

func TestLoad_InvalidEnvironmentValues(t *testing.T) {
	_, err := newRepo(map[string]string{"ATHENA_POLL_INTERVAL": "often"}).Load("")
	assert.ErrorContains(t, err, "ATHENA_POLL_INTERVAL")

	_, err = newRepo(map[string]string{"AWS_MAX_ATTEMPTS": "many"}).Load("")
	assert.ErrorContains(t, err, "AWS_MAX_ATTEMPTS")
}

func TestLoad_DotenvFile(t *testing.T) {
	path := writeFile(t, "test.env", "ATHENA_WORKGROUP=primary-from-dotenv\n")
	t.Setenv("ATHENA_WORKGROUP", "")
	require.NoError(t, os.Unsetenv("ATHENA_WORKGROUP"))

	cfg, err := NewConfigRepository(path).Load("")
	require.NoError(t, err)
	assert.Equal(t, "primary-from-dotenv", cfg.Athena.WorkGroup)
}
