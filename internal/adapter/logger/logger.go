package logger

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Logger writes structured JSON log lines. Every call carries a short
// machine-readable action, a human message, the request (or phone/order)
// id that ties the line to a conversation, and free-form details.
type Logger interface {
	Info(action, message, requestID string, details map[string]interface{})
	Debug(action, message, requestID string, details map[string]interface{})
	Error(action, message, requestID string, details map[string]interface{}, err error)
}

// Nop discards all output. Used in tests.
type Nop struct{}

func (Nop) Info(action, message, requestID string, details map[string]interface{})             {}
func (Nop) Debug(action, message, requestID string, details map[string]interface{})            {}
func (Nop) Error(action, message, requestID string, details map[string]interface{}, err error) {}

type entry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Service   string                 `json:"service"`
	Hostname  string                 `json:"hostname"`
	RequestID string                 `json:"request_id,omitempty"`
	Action    string                 `json:"action"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

type jsonLogger struct {
	service string
	host    string
	out     io.Writer
	debug   bool
	mu      sync.Mutex
}

// New returns a stdout JSON logger for the named service. DEBUG lines are
// suppressed unless LOG_LEVEL=debug.
func New(service string) Logger {
	host, _ := os.Hostname()
	return &jsonLogger{
		service: service,
		host:    host,
		out:     os.Stdout,
		debug:   strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug"),
	}
}

func (l *jsonLogger) Info(action, message, requestID string, details map[string]interface{}) {
	l.write("INFO", action, message, requestID, details, nil)
}

func (l *jsonLogger) Debug(action, message, requestID string, details map[string]interface{}) {
	if !l.debug {
		return
	}
	l.write("DEBUG", action, message, requestID, details, nil)
}

func (l *jsonLogger) Error(action, message, requestID string, details map[string]interface{}, err error) {
	l.write("ERROR", action, message, requestID, details, err)
}

func (l *jsonLogger) write(level, action, message, requestID string, details map[string]interface{}, err error) {
	e := entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Service:   l.service,
		Hostname:  l.host,
		RequestID: requestID,
		Action:    action,
		Message:   message,
		Details:   details,
	}
	if err != nil {
		e.Error = err.Error()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_ = json.NewEncoder(l.out).Encode(e)
}
