package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/cmdexec"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/config"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/pipeline"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/services/tts"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	jobPath    string
	runnerOpts []pipeline.Option
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	cfg.Composition.HardwareEncoder = "off"
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	configPath := filepath.Join(homeDir, ".config", "vidpipe", "config.toml")
	writeTestConfig(t, configPath, cfg)

	jobPath := testsupport.WriteFile(t, filepath.Join(base, "jobs", "ocean.yaml"), []byte(sampleJobYAML))

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		jobPath:    jobPath,
		runnerOpts: []pipeline.Option{
			pipeline.WithSynthesizer(&stubSynth{t: t}),
			pipeline.WithExecutor(cmdexec.Func(stubTools)),
		},
	}
}

const sampleJobYAML = `title: Ocean Mysteries
sections:
  - title: Intro
    content: The ocean covers most of the planet. It hides much.
    orderIndex: 1
  - title: Depths
    content: Whales sing across vast distances in the deep.
    orderIndex: 2
`

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	var opts []pipeline.Option
	flags := []string{"--env-file", ""}
	if env != nil {
		opts = env.runnerOpts
		flags = append(flags, "--config", env.configPath)
	}
	cmd := newRootCommand(opts...)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	testsupport.WriteFile(t, path, data)
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

type stubSynth struct {
	t *testing.T
}

func (s *stubSynth) Probe(context.Context) tts.EngineCapabilities {
	return tts.EngineCapabilities{Probed: true, Backend: "stub"}
}

func (s *stubSynth) Synthesize(_ context.Context, _ string, _ tts.VoiceOptions, caps tts.EngineCapabilities) (tts.Output, error) {
	return tts.Output{Audio: testsupport.WAV(s.t, 1.5), Caps: caps}, nil
}

// stubTools stands in for ffmpeg and ffprobe.
func stubTools(_ context.Context, cmd cmdexec.Command) (cmdexec.Result, error) {
	switch filepath.Base(cmd.Binary) {
	case "ffprobe":
		return cmdexec.Result{Stdout: []byte(`{"streams":[],"format":{"duration":"3.000"}}`)}, nil
	case "ffmpeg":
		if err := os.WriteFile(cmd.Args[len(cmd.Args)-1], []byte("mp4"), 0o644); err != nil {
			return cmdexec.Result{ExitCode: 1, Stderr: []byte(err.Error())}, nil
		}
		return cmdexec.Result{}, nil
	}
	return cmdexec.Result{ExitCode: 127}, nil
}
