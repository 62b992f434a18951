package deploy

import (
	"context"

	"github.com/shipward/shipward/internal/runlog"
	"github.com/shipward/shipward/internal/ssh"
)

// loggingExecutor echoes every remote command to the run log before it
// runs. The log's mask keeps credentials out of the transcript.
type loggingExecutor struct {
	inner ssh.Executor
	log   *runlog.Log
}

func (e *loggingExecutor) Exec(ctx context.Context, command string) (*ssh.ExecResult, error) {
	e.log.Info("$ %s", command)
	return e.inner.Exec(ctx, command)
}

func (e *loggingExecutor) Close() error {
	return e.inner.Close()
}
