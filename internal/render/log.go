package render

import "log"

func logWarn(l *log.Logger, format string, args ...any) {
	if l == nil {
		return
	}
	l.Printf("WARN "+format, args...)
}
