// Package logging declares the object-logging surface the library packages
// write diagnostics to. internal/logger's zap logger satisfies it.
package logging

// Logger logs one structured object per entry under key.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

// Discard drops every entry.
var Discard Logger = discard{}

type discard struct{}

func (discard) InfoObj(string, string, interface{})  {}
func (discard) DebugObj(string, string, interface{}) {}
func (discard) WarnObj(string, string, interface{})  {}
func (discard) ErrorObj(string, string, interface{}) {}

// OrDiscard returns log, or Discard when log is nil.
func OrDiscard(log Logger) Logger {
	if log == nil {
		return Discard
	}
	return log
}
