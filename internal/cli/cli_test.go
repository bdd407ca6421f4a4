package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mgpai22/subx/internal/config"
	"github.com/mgpai22/subx/internal/format"
	"github.com/spf13/pflag"
)

// execute runs the root command with defaults for the persistent flags.
// Convert flags are reset first since cobra keeps flag values between runs.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	convertCmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--config=", "--log-level=error", "--verbose=false"}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

func TestFormatsCommand(t *testing.T) {
	out, err := execute(t, "", "formats")
	if err != nil {
		t.Fatalf("formats returned error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != len(format.All()) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(format.All()), len(lines), out)
	}
	for i, f := range format.All() {
		if !strings.HasPrefix(lines[i], string(f)+" ") || !strings.Contains(lines[i], f.Extension()) {
			t.Errorf("line %d = %q, expected %s", i, lines[i], f)
		}
	}
}

func TestPrintDefaultConfig(t *testing.T) {
	out, err := execute(t, "", "print-default-config")
	if err != nil {
		t.Fatalf("print-default-config returned error: %v", err)
	}

	got, err := config.Parse([]byte(out), ".toml")
	if err != nil {
		t.Fatalf("printed config does not parse: %v\n%s", err, out)
	}
	if diff := cmp.Diff(config.Default(), got); diff != "" {
		t.Errorf("printed config differs from defaults (-want +got):\n%s", diff)
	}
}

func TestPrintDefaultConfigAppliesConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "subx.yaml")
	yamlCfg := "formats:\n  srt:\n    wrap_width: 20\n"
	if err := os.WriteFile(cfgPath, []byte(yamlCfg), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "", "--config", cfgPath, "print-default-config")
	if err != nil {
		t.Fatalf("print-default-config returned error: %v", err)
	}

	got, err := config.Parse([]byte(out), ".toml")
	if err != nil {
		t.Fatalf("printed config does not parse: %v\n%s", err, out)
	}
	want := config.Default()
	want.Formats.SRT.WrapWidth = 20
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("printed config differs (-want +got):\n%s", diff)
	}
}

func TestPrintConfigSchema(t *testing.T) {
	out, err := execute(t, "", "print-config-schema")
	if err != nil {
		t.Fatalf("print-config-schema returned error: %v", err)
	}
	if !json.Valid([]byte(out)) {
		t.Fatalf("schema is not valid JSON:\n%s", out)
	}
	for _, key := range []string{"chars_per_second", "wrap_width", "play_res_x"} {
		if !strings.Contains(out, key) {
			t.Errorf("expected %q in schema", key)
		}
	}
}

func TestConvertStdinToStdout(t *testing.T) {
	out, err := execute(t, "Hello world\nSecond line\n", "convert", "-", "--to", "vtt", "--stdout")
	if err != nil {
		t.Fatalf("convert returned error: %v", err)
	}

	want := "WEBVTT\n\n" +
		"1\n00:00:00.000 --> 00:00:00.611\nHello world\n\n" +
		"2\n00:00:00.731 --> 00:00:01.342\nSecond line\n\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("stdout mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertFileWritesNextToInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "talk.srt")
	if err := os.WriteFile(input, []byte("1\n00:00:01,000 --> 00:00:02,500\nhi\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "", "convert", input, "--to", "json")
	if err != nil {
		t.Fatalf("convert returned error: %v", err)
	}

	outPath := filepath.Join(dir, "talk.json")
	if !strings.Contains(out, outPath) || !strings.Contains(out, "Cues: 1") {
		t.Errorf("unexpected summary:\n%s", out)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	if !strings.Contains(string(data), `"start": 1.0`) || !strings.Contains(string(data), `"end": 2.5`) {
		t.Errorf("unexpected JSON output:\n%s", data)
	}

	if _, err := execute(t, "", "convert", input, "--to", "json"); err == nil {
		t.Error("expected second run to refuse overwriting")
	}
	if _, err := execute(t, "", "convert", input, "--to", "json", "--overwrite"); err != nil {
		t.Errorf("convert with --overwrite returned error: %v", err)
	}
}

func TestConvertUsesConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "subx.yaml")
	yamlCfg := "formats:\n  txt:\n    mode: text_only\n"
	if err := os.WriteFile(cfgPath, []byte(yamlCfg), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "1\n00:00:01,000 --> 00:00:02,000\nhi there\n",
		"--config", cfgPath, "convert", "-", "--from", "srt", "--to", "txt", "--stdout")
	if err != nil {
		t.Fatalf("convert returned error: %v", err)
	}
	if out != "hi there\n" {
		t.Errorf("expected text only output, got %q", out)
	}
}

func TestConvertErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing --to", []string{"convert", "-", "--stdout"}},
		{"missing input", []string{"convert", "--to", "srt"}},
		{"several inputs", []string{"convert", "a.srt", "b.srt", "--to", "vtt"}},
		{"unknown --from", []string{"convert", "-", "--from", "sbv", "--to", "srt", "--stdout"}},
		{"stdin without destination", []string{"convert", "-", "--to", "srt"}},
		{"bad config path", []string{"--config", "does-not-exist.toml", "formats"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, "hello\n", tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestConvertUnknownTarget(t *testing.T) {
	_, err := execute(t, "hello\n", "convert", "-", "--to", "sbv", "--stdout")
	if !errors.Is(err, format.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}
