package core

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is the single transient message shown to the admin after an operation.
type Notice struct {
	Level   NoticeLevel
	Message string
}

func (n Notice) IsError() bool { return n.Level == NoticeError }

// Notifier is any service that can show notices to the admin.
type Notifier interface {
	Notify(n Notice)
}
