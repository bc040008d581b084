package notifysvc

import (
	"bytes"
	"testing"

	"github.com/clubsite/clubsite/core"
)

func TestConsoleService_Notify(t *testing.T) {
	tests := []struct {
		name   string
		notice core.Notice
		want   string
	}{
		{name: "success", notice: core.Notice{Level: core.NoticeSuccess, Message: `"Jane" saved.`}, want: "✓ \"Jane\" saved.\n"},
		{name: "error", notice: core.Notice{Level: core.NoticeError, Message: "Failed to save: server error: 500"}, want: "✗ Failed to save: server error: 500\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewConsoleService(&buf).Notify(tt.notice)
			if got := buf.String(); got != tt.want {
				t.Errorf("Notify() wrote %q; want %q", got, tt.want)
			}
		})
	}
}
