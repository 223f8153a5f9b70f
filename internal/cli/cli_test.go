package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wpforge/wprelease/internal/credential"
	"github.com/wpforge/wprelease/internal/shell"
	"github.com/wpforge/wprelease/internal/shell/shelltest"
	"github.com/wpforge/wprelease/internal/ui"
	"github.com/wpforge/wprelease/internal/upload"
)

const demoHeader = "<?php\n/**\n * Plugin Name: Demo\n * Version: 1.2.3\n */\n"

// scriptedPrompter answers prompts from fixed values and records the titles asked.
type scriptedPrompter struct {
	inputs   map[string]string
	selects  map[string]string
	password string
	confirm  bool
	asked    []string
}

var _ ui.Prompter = (*scriptedPrompter)(nil)

func (p *scriptedPrompter) Input(title, _, def string) (string, error) {
	p.asked = append(p.asked, title)
	if v, ok := p.inputs[title]; ok {
		return v, nil
	}
	return def, nil
}

func (p *scriptedPrompter) Password(title, _ string) (string, error) {
	p.asked = append(p.asked, title)
	return p.password, nil
}

func (p *scriptedPrompter) Confirm(title, _ string, _ bool) (bool, error) {
	p.asked = append(p.asked, title)
	return p.confirm, nil
}

func (p *scriptedPrompter) Select(title string, _ []string, def string) (string, error) {
	p.asked = append(p.asked, title)
	if v, ok := p.selects[title]; ok {
		return v, nil
	}
	return def, nil
}

type quietProgress struct{}

func (quietProgress) Spinner(string) ui.Spinner { return quietSpinner{} }

type quietSpinner struct{}

func (quietSpinner) SetTitle(string) {}
func (quietSpinner) Stop()           {}

// recordingDialer accepts every dial and records what was uploaded.
type recordingDialer struct {
	targets []upload.Target
	dirs    []string
	stored  []string
}

func (d *recordingDialer) Dial(_ context.Context, t upload.Target) (upload.Session, error) {
	d.targets = append(d.targets, t)
	return &recordingSession{d: d}, nil
}

type recordingSession struct{ d *recordingDialer }

func (s *recordingSession) EnsureDir(dir string) error {
	s.d.dirs = append(s.d.dirs, dir)
	return nil
}

func (s *recordingSession) Upload(_, remoteName string) error {
	s.d.stored = append(s.d.stored, remoteName)
	return nil
}

func (s *recordingSession) Close() error { return nil }

// testEnv is a project directory plus fake collaborators for one command run.
type testEnv struct {
	root   string
	runner *shelltest.Recorder
	store  *credential.MemoryStore
	env    map[string]string
	dialer *recordingDialer
	deps   *Dependencies
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()

	e := &testEnv{
		root:   root,
		store:  credential.NewMemoryStore(nil),
		env:    map[string]string{},
		dialer: &recordingDialer{},
	}
	e.runner = shelltest.NewRecorder().
		Missing("rsync").
		Handle("git", func(c shelltest.Call) (*shell.Result, error) {
			switch c.Args[0] {
			case "rev-parse":
				return &shell.Result{Stdout: root + "\n"}, nil
			case "diff":
				return &shell.Result{Stdout: "demo.php\n"}, nil
			}
			return &shell.Result{}, nil
		})

	hm := ui.NewHeadlessManager()
	hm.ForceHeadless(true)

	e.deps = &Dependencies{
		Runner:   e.runner,
		Headless: hm,
		Theme:    &ui.Theme{NoColor: true},
		Dialer:   e.dialer,
		Getenv:   func(k string) string { return e.env[k] },
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		OpenStore: func(string) (credential.Provider, error) {
			return e.store, nil
		},
		Progress: quietProgress{},
	}
	return e
}

// interactive switches the environment to a TTY-like session answered by p.
func (e *testEnv) interactive(p *scriptedPrompter) {
	e.deps.Headless.ForceHeadless(false)
	e.deps.Prompter = p
}

func (e *testEnv) write(t *testing.T, name, content string) {
	t.Helper()
	path := filepath.Join(e.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func (e *testEnv) read(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(e.root, name))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// run executes the root command with args against the environment.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeCommand(t, e.deps, append(args, "--root", e.root)...)
}

func executeCommand(t *testing.T, d *Dependencies, args ...string) (string, error) {
	t.Helper()

	prevLogger := slog.Default()
	SetDeps(d)
	t.Cleanup(func() {
		SetDeps(nil)
		slog.SetDefault(prevLogger)
	})

	resetFlags(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// resetFlags restores every flag in the tree to its default so that
// package-level commands can be executed repeatedly.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
