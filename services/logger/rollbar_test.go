package logsvc

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/clubsite/clubsite/core"
)

func TestRollbarLogger_print(t *testing.T) {
	var buf bytes.Buffer
	lg := NewRollbarLogger(log.New(&buf, "", 0), &core.Config{Env: "TEST", Debug: true})

	admin := core.Person{ID: "1", Username: "jdoe"}
	lg.Error("card save failed", errors.New("server error: 409"), admin)

	out := buf.String()
	for _, want := range []string{"[ERROR] card save failed", "server error: 409"} {
		if !strings.Contains(out, want) {
			t.Errorf("output = %q; want it to contain %q", out, want)
		}
	}
	if strings.Contains(out, "jdoe") {
		t.Errorf("output = %q; the person must not be printed", out)
	}
}

func TestRollbarLogger_prepare(t *testing.T) {
	lg := NewDiscardLogger()
	err := errors.New("boom")
	got := lg.prepare("msg", []interface{}{core.Person{ID: "1"}, err, core.Person{ID: "2"}})
	if len(got) != 2 || got[0] != "msg" || got[1] != err {
		t.Errorf("prepare() = %v; want [msg boom]", got)
	}
}
