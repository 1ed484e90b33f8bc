package cli

import (
	"encoding/json"
	"errors"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/acarl005/stripansi"
)

// cliResult is a finished invocation with color codes already removed from both streams.
type cliResult struct {
	stdout string
	stderr string
	rc     int
}

func newCLIResult(stdout, stderr string, rc int) cliResult {
	return cliResult{
		stdout: stripansi.Strip(stdout),
		stderr: stripansi.Strip(stderr),
		rc:     rc,
	}
}

func (r cliResult) combined() string {
	return r.stdout + "\n" + r.stderr
}

type traitAssertion func(tb testing.TB, r cliResult)

// log lines look like "[0000]  INFO ..." or "[0012] DEBUG ..."
func assertLoggingLevel(level string) traitAssertion {
	pattern := regexp.MustCompile(`(?m)^\[\d{4}\]\s+` + strings.ToUpper(level))
	return func(tb testing.TB, r cliResult) {
		tb.Helper()
		if !pattern.MatchString(r.stderr) {
			tb.Errorf("no %s level log lines on stderr", level)
		}
	}
}

func assertInOutput(data string) traitAssertion {
	return func(tb testing.TB, r cliResult) {
		tb.Helper()
		if !strings.Contains(r.combined(), data) {
			tb.Errorf("expected %q in output", data)
		}
	}
}

func assertNotInOutput(data string) traitAssertion {
	return func(tb testing.TB, r cliResult) {
		tb.Helper()
		for stream, text := range map[string]string{"stdout": r.stdout, "stderr": r.stderr} {
			if strings.Contains(text, data) {
				tb.Errorf("unexpected %q in %s", data, stream)
			}
		}
	}
}

// assertJSONOutput decodes stdout and hands the document to check.
func assertJSONOutput(check func(tb testing.TB, doc any)) traitAssertion {
	return func(tb testing.TB, r cliResult) {
		tb.Helper()
		var doc any
		if err := json.Unmarshal([]byte(r.stdout), &doc); err != nil {
			tb.Errorf("stdout is not json: %v", err)
			return
		}
		check(tb, doc)
	}
}

func assertFileAbsent(path string) traitAssertion {
	return func(tb testing.TB, _ cliResult) {
		tb.Helper()
		if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
			tb.Errorf("expected %q to not exist (stat err=%v)", path, err)
		}
	}
}

func assertReturnCode(succeed bool) traitAssertion {
	return func(tb testing.TB, r cliResult) {
		tb.Helper()
		switch {
		case succeed && r.rc != 0:
			tb.Errorf("expected success but got rc=%d", r.rc)
		case !succeed && r.rc == 0:
			tb.Error("expected a failure but got rc=0")
		}
	}
}

var (
	assertSuccessfulReturnCode = assertReturnCode(true)
	assertFailingReturnCode    = assertReturnCode(false)
)
