package executor

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/Danservfinn/horde-test/internal/plan"
	"github.com/Danservfinn/horde-test/internal/result"
)

// CommandRunner executes each of a suite's files as a shell command on the
// local host, one test result per command. A non-zero exit marks the test
// (and the suite) failed; a context deadline marks the suite errored.
type CommandRunner struct {
	// Dir is the working directory for the commands. Empty means the
	// current process directory.
	Dir string
}

// Run implements Runner.
func (r *CommandRunner) Run(ctx context.Context, suite *plan.Suite) result.SuiteResult {
	started := time.Now()
	res := result.SuiteResult{
		Name:     suite.Name,
		Category: suite.Category,
		Status:   result.StatusPassed,
	}

	for _, file := range suite.Files {
		testStarted := time.Now()
		cmd := exec.CommandContext(ctx, "sh", "-c", file)
		cmd.Dir = r.Dir
		output, err := cmd.CombinedOutput()

		test := result.TestResult{
			Name:     file,
			Status:   result.StatusPassed,
			Duration: time.Since(testStarted).Milliseconds(),
		}
		if err != nil {
			test.Status = result.StatusFailed
			test.Message = err.Error()
			test.StackTrace = truncate(string(output), 4096)

			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				res.Status = result.StatusError
				res.ErrorMessage = "suite timed out"
			} else if res.Status == result.StatusPassed {
				res.Status = result.StatusFailed
			}
		}
		res.Tests = append(res.Tests, test)

		if ctx.Err() != nil {
			break
		}
	}

	res.Duration = time.Since(started).Milliseconds()
	return res
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "\n... (truncated)"
}
