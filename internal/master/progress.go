package master

import (
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// newProgress returns a byte progress bar on stderr, or a silent one that
// still accepts updates when progress output is disabled.
func newProgress(enabled bool, total int64) *progressbar.ProgressBar {
	if !enabled {
		return progressbar.DefaultBytesSilent(total, "aggregating")
	}

	return progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("aggregating"),
		progressbar.OptionShowBytes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() { os.Stderr.WriteString("\n") }),
	)
}
