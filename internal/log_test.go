package internal

import "testing"

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"ERROR":   LogLevelError,
		"warn":    LogLevelWarn,
		" DEBUG ": LogLevelDebug,
		"TRACE":   LogLevelTrace,
		"":        LogLevelInfo,
		"verbose": LogLevelInfo,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestLoggerEnabled(t *testing.T) {
	l := NewLogger(LogLevelWarn)
	if !l.Enabled(LogLevelError) || l.Enabled(LogLevelInfo) {
		t.Error("warn logger should write errors and drop info")
	}
	l.SetLevel(LogLevelTrace)
	if !l.Enabled(LogLevelTrace) {
		t.Error("SetLevel(trace) should enable trace")
	}
}
