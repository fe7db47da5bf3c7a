package reqlog

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
	LogLevelAudit LogLevel = "audit"
)

func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError, LogLevelAudit:
		return true
	default:
		return false
	}
}

type Layer string

const (
	LayerAPI            Layer = "api"
	LayerApplication    Layer = "application"
	LayerInfrastructure Layer = "infrastructure"
	LayerDomain         Layer = "domain"
)

func (l Layer) IsValid() bool {
	switch l {
	case LayerAPI, LayerApplication, LayerInfrastructure, LayerDomain:
		return true
	default:
		return false
	}
}
