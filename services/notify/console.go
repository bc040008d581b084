// Package notifysvc shows operation notices to the admin.
package notifysvc

import (
	"fmt"
	"io"
	"sync"

	"github.com/clubsite/clubsite/core"
)

type consoleService struct {
	mu  sync.Mutex
	out io.Writer
}

var _ core.Notifier = (*consoleService)(nil)

// NewConsoleService writes notices to out, one per line.
func NewConsoleService(out io.Writer) core.Notifier {
	return &consoleService{out: out}
}

func (svc *consoleService) Notify(n core.Notice) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	prefix := "✓"
	if n.IsError() {
		prefix = "✗"
	}
	_, _ = fmt.Fprintf(svc.out, "%s %s\n", prefix, n.Message)
}

// Recorder keeps every notice it gets; for tests.
type Recorder struct {
	mu      sync.Mutex
	notices []core.Notice
}

var _ core.Notifier = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(n core.Notice) {
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()
}

func (r *Recorder) Notices() []core.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make([]core.Notice, len(r.notices))
	copy(cp, r.notices)
	return cp
}

// Last returns the latest notice, the zero Notice if none.
func (r *Recorder) Last() core.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return core.Notice{}
	}
	return r.notices[len(r.notices)-1]
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.notices = nil
	r.mu.Unlock()
}
