package log

import "strings"

type LogLevel int

const (
	Debug LogLevel = iota
	Info
	Warn
	Error
	Fatal
	// Silent disables all output; used for library defaults.
	Silent
)

func (l LogLevel) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	case Fatal:
		return "FATAL"
	case Silent:
		return "SILENT"
	default:
		return "UNKNOWN"
	}
}

// Parse maps a level name to its LogLevel, defaulting to Info for unknown
// names.
func Parse(level string) LogLevel {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return Debug
	case "INFO":
		return Info
	case "WARN":
		return Warn
	case "ERROR":
		return Error
	case "FATAL":
		return Fatal
	case "SILENT":
		return Silent
	default:
		return Info
	}
}
