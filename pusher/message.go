package pusher

type Channel string
type Event string

const (
	AuditLog Channel = "ocpi_log"
	Call     Event   = "call_event"
)
