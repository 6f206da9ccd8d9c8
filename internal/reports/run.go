package reports

import (
	"time"

	"github.com/msto63/tnc/internal/frontend"
)

// NewRun builds the archive record of one front-end invocation from the
// values frontend.CompileFile returned. res may be nil when the file could
// not be read or lexed.
func NewRun(file string, started time.Time, elapsed time.Duration, res *frontend.Result, err error) *Run {
	run := &Run{
		File:      file,
		StartedAt: started,
		Duration:  elapsed,
		Status:    StatusOK,
	}
	if res != nil {
		run.TokenCount = len(res.Tokens)
		if res.Program != nil {
			run.StatementCount = len(res.Program.Body)
		}
	}
	if err == nil {
		return run
	}

	run.Status = StatusFailed
	for _, d := range frontend.Diagnostics(err) {
		message := d.Message()
		if d.Line() == 0 {
			// Non-located failures keep their cause in the message
			message = d.Error()
		}
		run.Diagnostics = append(run.Diagnostics, Diagnostic{
			Code:    string(d.Code()),
			Line:    d.Line(),
			Message: message,
			Near:    d.Near(),
		})
	}
	run.ErrorCount = len(run.Diagnostics)
	return run
}
