package main

import (
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"chat-tester/config"
	"chat-tester/internal/appdirs"
	"chat-tester/internal/storage"
	"chat-tester/internal/testserver"
	"chat-tester/internal/types"
	"chat-tester/log"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	runSecret    = "cli-secret"
	runSecretEnv = "CHAT_TESTER_CLI_SECRET"
)

// isolateRun keeps the log file and the signing secret inside the test.
func isolateRun(t *testing.T) {
	t.Helper()
	t.Setenv(appdirs.PortableEnv, "1")
	t.Setenv(runSecretEnv, runSecret)

	oldLogger := log.Logger
	t.Cleanup(func() { log.Logger = oldLogger })
}

func seededDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chat.db")
	store, err := storage.Create(path)
	require.NoError(t, err)
	require.NoError(t, testserver.Seed(store))
	require.NoError(t, store.Close())
	return path
}

func startChatAPI(t *testing.T, dbPath string) *url.URL {
	t.Helper()
	store, err := storage.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	srv := testserver.Start(store, runSecret)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return u
}

func writeRunConfig(t *testing.T, server *url.URL, dbPath string, mutate func(c *config.Config)) string {
	t.Helper()

	cfg := config.Default()
	cfg.Launcher.Enabled = false
	cfg.Server.Host = server.Hostname()
	port, err := strconv.Atoi(server.Port())
	require.NoError(t, err)
	cfg.Server.Port = port
	cfg.Server.HTTPTimeoutMs = 5000
	cfg.Database.Path = dbPath
	cfg.Auth.Token = ""
	cfg.Auth.SecretEnv = runSecretEnv
	cfg.Auth.EnvFile = filepath.Join(t.TempDir(), "missing.env")
	if mutate != nil {
		mutate(&cfg)
	}

	path := filepath.Join(t.TempDir(), "config.toml")
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()
	require.NoError(t, toml.NewEncoder(file).Encode(cfg))
	return path
}

func runCLI(t *testing.T, args ...string) (int, string) {
	t.Helper()
	var code int
	output := captureStdout(t, func() {
		code = execute(args)
	})
	return code, output
}

func TestExecuteAllCasesPass(t *testing.T) {
	isolateRun(t)
	dbPath := seededDB(t)
	configPath := writeRunConfig(t, startChatAPI(t, dbPath), dbPath, nil)

	code, output := runCLI(t, "--config", configPath)
	assert.Equal(t, exitPassed, code, output)
	assert.Contains(t, output, "TESTER: All tests passed.")
}

func TestExecuteReportsFailedCase(t *testing.T) {
	isolateRun(t)
	dbPath := seededDB(t)
	configPath := writeRunConfig(t, startChatAPI(t, dbPath), dbPath, func(c *config.Config) {
		c.Fixtures.JoinedGroupMessage = "nobody said this"
	})

	code, output := runCLI(t, "--config", configPath)
	assert.Equal(t, exitFailed, code, output)
	assert.Contains(t, output, "TESTER: Case 9 Failed")
	assert.Contains(t, output, "TESTER: Review the tests: \n[9]\n")
}

func TestExecuteAbortsWithoutDatabase(t *testing.T) {
	isolateRun(t)
	dbPath := seededDB(t)
	missing := filepath.Join(t.TempDir(), "absent.db")
	configPath := writeRunConfig(t, startChatAPI(t, dbPath), missing, nil)

	code, output := runCLI(t, "--config", configPath)
	assert.Equal(t, exitAborted, code, output)
	assert.NotContains(t, output, "TESTER: Case 1")

	_, err := os.Stat(missing)
	assert.True(t, os.IsNotExist(err), "a run without --init-db must not create the database")
}

func TestExecuteInitDBCreatesSchema(t *testing.T) {
	isolateRun(t)
	dbPath := seededDB(t)
	fresh := filepath.Join(t.TempDir(), "fresh.db")
	configPath := writeRunConfig(t, startChatAPI(t, dbPath), fresh, nil)

	// The chat API keeps its own rows, so the created group is not found in
	// the fresh file and the run aborts after the schema is in place.
	code, output := runCLI(t, "--config", configPath, "--init-db")
	assert.Equal(t, exitAborted, code, output)

	store, err := storage.Open(fresh)
	require.NoError(t, err)
	defer store.Close()
	for _, model := range []any{&types.User{}, &types.Group{}, &types.Message{}, &types.Membership{}} {
		assert.True(t, store.DB.Migrator().HasTable(model))
	}
}

func TestExecuteInitDBKeepsExistingRows(t *testing.T) {
	isolateRun(t)
	dbPath := seededDB(t)
	configPath := writeRunConfig(t, startChatAPI(t, dbPath), dbPath, nil)

	code, output := runCLI(t, "--config", configPath, "--init-db")
	assert.Equal(t, exitPassed, code, output)
}
