package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/bujo/pkg/collection"
	"github.com/stefanpenner/bujo/pkg/config"
	"github.com/stefanpenner/bujo/pkg/vault"
)

const wednesday = "## Wed\n- [ ] 10:00 second\n- [ ] 08:00 first 📅 2024-01-05\n- [x] shipped\n"

type env struct {
	configPath string
	vault      string
}

func setupEnv(t *testing.T) env {
	t.Helper()
	t.Setenv(config.EnvVault, "")
	t.Setenv(config.EnvConfig, "")

	root := t.TempDir()
	files := map[string]string{
		"Daily/2024-01-03.md":  wednesday,
		"Sprints/2024-W01.md":  "- [ ] plan\n",
		"Sprints/2024-W02.md":  "- [ ] review\n",
		"Sprints/2024-W05.md":  "",
		"inbox.md":             "- [ ] loose end\n",
		".obsidian/ignored.md": "- [ ] hidden\n",
	}
	for p, content := range files {
		filePath := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.Save(cfgPath, &config.Config{
		Vault: root,
		Zone:  "UTC",
		PeriodicLogs: []collection.Settings{
			{ID: "daily", Label: "Daily", Folder: "Daily", DateFormat: "2006-01-02", IntervalDuration: "P1D"},
			{ID: "sprint", Label: "Sprint", Folder: "Sprints", DateFormat: "GGGG-'W'WW", IntervalDuration: "P2W"},
		},
	}))
	return env{configPath: cfgPath, vault: root}
}

func (e env) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (e env) readNote(t *testing.T, notePath string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(e.vault, filepath.FromSlash(notePath)))
	require.NoError(t, err)
	return string(data)
}

func TestParseCommand(t *testing.T) {
	e := setupEnv(t)

	out, err := e.run(t, "", "parse", "write report #work 📅 2024-02-01 ⏫")
	require.NoError(t, err)
	assert.Contains(t, out, "Description: write report #work\n")
	assert.Contains(t, out, "Tags:        #work\n")
	assert.Contains(t, out, "high")
	assert.Contains(t, out, "2024-02-01")

	out, err = e.run(t, "", "--json", "parse", "write", "report", "📅", "2024-02-01")
	require.NoError(t, err)
	var parsed struct {
		Description string            `json:"description"`
		Dates       map[string]string `json:"dates"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, "write report", parsed.Description)
	assert.Equal(t, "2024-02-01T00:00:00Z", parsed.Dates["due"])
}

func TestParseCommandExamples(t *testing.T) {
	e := setupEnv(t)

	out, err := e.run(t, "", "parse", "09:00/10:30 standup 📅 2024-05-01 ⏫ #work")
	require.NoError(t, err)
	assert.Contains(t, out, "Description: standup")
	assert.Contains(t, out, "Start time:  09:00\n")
	assert.Contains(t, out, "End time:    10:30\n")
	assert.Contains(t, out, "2024-05-01")

	out, err = e.run(t, "", "parse", "09:00-10:30 standup")
	require.NoError(t, err)
	assert.Contains(t, out, "Description: 09:00-10:30 standup\n")
	assert.NotContains(t, out, "Start time")

	help, err := e.run(t, "", "parse", "--help")
	require.NoError(t, err)
	assert.Contains(t, help, `bujo parse "09:00/10:30 standup`)
}

func TestResolveCommand(t *testing.T) {
	e := setupEnv(t)

	out, err := e.run(t, "", "resolve", "Daily/2024-01-03.md")
	require.NoError(t, err)
	assert.Equal(t, "Daily/2024-01-03.md: daily 2024-01-03T00:00:00Z/2024-01-04T00:00:00Z\n", out)

	out, err = e.run(t, "", "--json", "resolve", "inbox.md")
	require.NoError(t, err)
	var res resolveResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.False(t, res.Valid)
	assert.Equal(t, collection.ReasonFolder, res.Reason)
	assert.Nil(t, res.Interval)
}

func TestTasksCommand(t *testing.T) {
	e := setupEnv(t)

	out, err := e.run(t, "", "tasks", "Daily/2024-01-03.md")
	require.NoError(t, err)
	assert.Equal(t, `Pending (2)
  [ ] 08:00 first due 2024-01-05 Daily/2024-01-03.md:3
  [ ] 10:00 second Daily/2024-01-03.md:2
Completed (1)
  [x] shipped Daily/2024-01-03.md:4
`, out)

	out, err = e.run(t, "", "tasks")
	require.NoError(t, err)
	assert.Contains(t, out, "Pending (5)")
	assert.Contains(t, out, "loose end inbox.md:1")
	assert.NotContains(t, out, "hidden")
}

func TestTasksCommandForPeriodicNote(t *testing.T) {
	e := setupEnv(t)

	out, err := e.run(t, "", "--json", "tasks", "--log", "daily", "--date", "2024-01-03")
	require.NoError(t, err)
	var groups map[string][]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &groups))
	assert.Len(t, groups["pending"], 2)
	assert.Len(t, groups["completed"], 1)

	out, err = e.run(t, "", "--json", "tasks", "--log", "daily", "--date", "2024-01-04")
	require.NoError(t, err)
	assert.JSONEq(t, `{"pending": [], "completed": []}`, out)

	_, err = e.run(t, "", "tasks", "--log", "yearly")
	assert.ErrorIs(t, err, vault.ErrUnknownCollection)

	_, err = e.run(t, "", "tasks", "--log", "daily", "--date", "tomorrow")
	assert.ErrorContains(t, err, "invalid date")
}

func TestShowCommand(t *testing.T) {
	e := setupEnv(t)

	out, err := e.run(t, "", "show", "--style", "notty", "--log", "daily", "--date", "2024-01-03")
	require.NoError(t, err)
	assert.Contains(t, out, "Wed")
	assert.Contains(t, out, "10:00 second")
	assert.Contains(t, out, "shipped")

	out, err = e.run(t, "", "--json", "show", "inbox.md")
	require.NoError(t, err)
	assert.JSONEq(t, `{"note": "inbox.md", "body": "- [ ] loose end\n"}`, out)

	_, err = e.run(t, "", "show")
	assert.ErrorContains(t, err, "name a note")

	_, err = e.run(t, "", "show", "missing.md")
	assert.Error(t, err)
}

func TestAddAndToggleCommands(t *testing.T) {
	e := setupEnv(t)

	out, err := e.run(t, "", "add", "--date", "2024-01-04", "call", "mom")
	require.NoError(t, err)
	assert.Equal(t, "Added to Daily/2024-01-04.md\n", out)
	assert.Equal(t, "- [ ] call mom\n", e.readNote(t, "Daily/2024-01-04.md"))

	_, err = e.run(t, "", "add", "--log", "daily", "--date", "2024-01-03", "--section", "Wed", "follow up")
	require.NoError(t, err)
	assert.Contains(t, e.readNote(t, "Daily/2024-01-03.md"), "## Wed\n- [ ] follow up\n")

	out, err = e.run(t, "", "toggle", "Daily/2024-01-04.md", "1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "[x] call mom"), out)
	assert.Regexp(t, `^- \[x\] call mom ✅ \d{4}-\d{2}-\d{2}\n$`, e.readNote(t, "Daily/2024-01-04.md"))

	_, err = e.run(t, "", "toggle", "Daily/2024-01-04.md", "zero")
	assert.ErrorContains(t, err, "invalid line number")
}

func TestCollisionsCommand(t *testing.T) {
	e := setupEnv(t)

	out, err := e.run(t, "", "collisions")
	require.NoError(t, err)
	assert.Equal(t, `sprint: 2 notes overlap in 2024-01-01T00:00:00Z/2024-01-22T00:00:00Z
  Sprints/2024-W01.md 2024-01-01T00:00:00Z/2024-01-15T00:00:00Z
  Sprints/2024-W02.md 2024-01-08T00:00:00Z/2024-01-22T00:00:00Z
`, out)

	out, err = e.run(t, "", "--json", "collisions", "daily")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}

func TestImportTaskwarriorCommand(t *testing.T) {
	e := setupEnv(t)
	export := `[{"uuid":"a1","description":"pay rent 📅 2024-03-01","status":"pending","priority":"H","tags":["home"]},
{"uuid":"b2","description":"file taxes","status":"completed","end":"20240410T120000Z"}]`

	out, err := e.run(t, export, "import-taskwarrior")
	require.NoError(t, err)
	assert.Equal(t, "[ ] pay rent (high) due 2024-03-01 #home\n[x] file taxes\n", out)

	out, err = e.run(t, export, "--json", "import-taskwarrior")
	require.NoError(t, err)
	var tasks []struct {
		ID          string `json:"id"`
		Description string `json:"description"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &tasks))
	require.Len(t, tasks, 2)
	assert.Equal(t, "a1", tasks[0].ID)
	assert.Equal(t, "pay rent", tasks[0].Description)
}

func TestConfigCommands(t *testing.T) {
	e := setupEnv(t)

	out, err := e.run(t, "", "config", "path")
	require.NoError(t, err)
	assert.Equal(t, e.configPath+"\n", out)

	out, err = e.run(t, "", "--json", "config", "show")
	require.NoError(t, err)
	var cfg config.Config
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, e.vault, cfg.Vault)
	assert.Len(t, cfg.PeriodicLogs, 2)

	out, err = e.run(t, "", "--vault", "/srv/other", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "vault: /srv/other")

	_, err = e.run(t, "", "config", "init")
	assert.ErrorContains(t, err, "already exists")

	fresh := filepath.Join(t.TempDir(), "bujo", "config.yaml")
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", fresh, "config", "init"})
	require.NoError(t, cmd.Execute())
	assert.FileExists(t, fresh)
}

func TestInvalidConfigIsReported(t *testing.T) {
	e := setupEnv(t)
	require.NoError(t, config.Save(e.configPath, &config.Config{
		Vault:        e.vault,
		PeriodicLogs: []collection.Settings{{ID: "broken", DateFormat: "", IntervalDuration: "P0D"}},
	}))

	_, err := e.run(t, "", "tasks")
	assert.ErrorIs(t, err, collection.ErrInvalidConfig)
}
