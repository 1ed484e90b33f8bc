package cli

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"
	"testing"
	"time"
)

var (
	buildOnce   sync.Once
	buildDir    string
	builtBinary string
	buildErr    error
)

func TestMain(m *testing.M) {
	code := m.Run()

	if buildDir != "" {
		_ = os.RemoveAll(buildDir)
	}

	os.Exit(code)
}

func runNotusDB(t testing.TB, env map[string]string, args ...string) (*exec.Cmd, string, string) {
	t.Helper()

	cancel := make(chan bool, 1)
	defer func() {
		cancel <- true
	}()

	cmd := exec.Command(getNotusDBBinaryLocation(t), args...)
	if env == nil {
		env = make(map[string]string)
	}

	timeout := func() {
		select {
		case <-cancel:
			return
		case <-time.After(60 * time.Second):
		}

		if cmd != nil && cmd.Process != nil {
			// get a stack trace printed
			err := cmd.Process.Signal(syscall.SIGABRT)
			if err != nil {
				t.Errorf("error aborting: %+v", err)
			}
		}
	}

	go timeout()

	stdout, stderr, _ := runCommand(cmd, env)

	return cmd, stdout, stderr
}

func runCommand(cmd *exec.Cmd, env map[string]string) (string, string, error) {
	if env != nil {
		cmd.Env = append(os.Environ(), envMapToSlice(env)...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// ignore errors since this may be what the test expects
	err := cmd.Run()

	return stdout.String(), stderr.String(), err
}

func envMapToSlice(env map[string]string) (envList []string) {
	for key, val := range env {
		if key == "" {
			continue
		}
		envList = append(envList, fmt.Sprintf("%s=%s", key, val))
	}
	return
}

func getNotusDBBinaryLocation(t testing.TB) string {
	t.Helper()
	if os.Getenv("NOTUS_DB_BINARY_LOCATION") != "" {
		// NOTUS_DB_BINARY_LOCATION is the absolute path to a snapshot binary
		return os.Getenv("NOTUS_DB_BINARY_LOCATION")
	}

	buildOnce.Do(func() {
		builtBinary, buildErr = buildNotusDB(t)
	})
	if buildErr != nil {
		t.Fatalf("unable to build notus-db: %+v", buildErr)
	}
	return builtBinary
}

func buildNotusDB(t testing.TB) (string, error) {
	dir, err := os.MkdirTemp("", "notus-db-cli-test")
	if err != nil {
		return "", err
	}

	buildDir = dir

	binary := filepath.Join(dir, "notus-db")
	cmd := exec.Command("go", "build", "-o", binary, "./cmd/notus-db")
	cmd.Dir = repoRoot(t)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: %s", err, stderr.String())
	}
	return binary, nil
}

// repoRoot walks up from the working directory until it finds the module root.
func repoRoot(t testing.TB) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("unable to get working dir: %+v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("unable to find repo root dir")
		}
		dir = parent
	}
}

func fixturePath(t testing.TB, path string) string {
	t.Helper()
	abs, err := filepath.Abs(filepath.Join("test-fixtures", path))
	if err != nil {
		t.Fatalf("unable to resolve fixture %q: %+v", path, err)
	}
	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		t.Fatalf("unable to resolve fixture %q: %+v", path, err)
	}
	return abs
}
