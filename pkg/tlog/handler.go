package tlog

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/apex/log"
)

// Handler writes one line per entry. The layout keeps the level and message
// aligned so the log file stays scannable when commands are run back to back.
type Handler struct {
	mu     sync.Mutex
	Writer io.WriteCloser
}

var levelNames = map[log.Level]string{
	log.DebugLevel: "DEBUG",
	log.InfoLevel:  "INFO",
	log.WarnLevel:  "WARN",
	log.ErrorLevel: "ERROR",
	log.FatalLevel: "FATAL",
}

type field struct {
	Name  string
	Value interface{}
}

type byName []field

func (f byName) Len() int           { return len(f) }
func (f byName) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }
func (f byName) Less(i, j int) bool { return f[i].Name < f[j].Name }

func NewHandler(w io.WriteCloser) *Handler {
	return &Handler{Writer: w}
}

func (h *Handler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.Writer == nil {
		return
	}

	if h.Writer == os.Stdout || h.Writer == os.Stderr {
		return
	}

	_ = h.Writer.Close()
}

func (h *Handler) HandleLog(e *log.Entry) error {
	level := levelNames[e.Level]
	var fields []field

	for k, v := range e.Fields {
		fields = append(fields, field{k, v})
	}

	sort.Sort(byName(fields))

	var b bytes.Buffer
	_, _ = fmt.Fprintf(&b, "%5s %s %-25s", level, time.Now().Format(time.DateTime), e.Message)

	for _, f := range fields {
		_, _ = fmt.Fprintf(&b, " %s=%v", f.Name, f.Value)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, _ = fmt.Fprintln(h.Writer, b.String())

	return nil
}
