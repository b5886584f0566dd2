package git

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/NicabarNimble/go-gitscaffold/internal/progress"
)

var (
	// Match lines like:
	// Receiving objects:  67% (35484/52960), 236.76 MiB | 78.92 MiB/s
	// Resolving deltas: 100% (120/120), done.
	progressRegex = regexp.MustCompile(`^(Counting objects|Compressing objects|Receiving objects|Resolving deltas|Updating files):\s*(\d+)%\s*\((\d+)/(\d+)\)`)
)

// progressWriter turns git's --progress stream into tracker updates.
// Object transfer counts feed the tracker, the other counters are dropped
// and every remaining line is echoed with a prefix.
type progressWriter struct {
	prefix  string
	w       io.Writer
	tracker progress.Tracker
	buf     []byte
}

func newProgressWriter(prefix string, w io.Writer, tracker progress.Tracker) *progressWriter {
	return &progressWriter{prefix: prefix, w: w, tracker: tracker}
}

// Write buffers partial lines; git separates progress updates with '\r'.
func (pw *progressWriter) Write(p []byte) (int, error) {
	pw.buf = append(pw.buf, p...)
	for {
		i := bytes.IndexAny(pw.buf, "\r\n")
		if i < 0 {
			break
		}
		pw.handleLine(string(pw.buf[:i]))
		pw.buf = pw.buf[i+1:]
	}
	return len(p), nil
}

// Flush handles any trailing text that was not terminated by a newline
func (pw *progressWriter) Flush() {
	if len(pw.buf) > 0 {
		pw.handleLine(string(pw.buf))
		pw.buf = nil
	}
}

func (pw *progressWriter) handleLine(line string) {
	line = strings.TrimPrefix(line, "remote: ")
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	// "Cloning into 'temp_project_template'..." duplicates our own header
	if strings.HasPrefix(line, "Cloning into") {
		return
	}

	if m := progressRegex.FindStringSubmatch(line); m != nil {
		if m[1] == "Receiving objects" {
			current, _ := strconv.ParseInt(m[3], 10, 64)
			total, _ := strconv.ParseInt(m[4], 10, 64)
			pw.tracker.Update(current, total)
		}
		return
	}

	fmt.Fprintf(pw.w, "%s%s\n", pw.prefix, line)
}
