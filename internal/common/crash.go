package common

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// crashLogDir is where crash reports are written, set once at startup
var crashLogDir = "./logs"

// InstallCrashHandler prepares the crash report directory. Call at the
// start of main before any goroutines run.
func InstallCrashHandler(logDir string) {
	if logDir != "" {
		crashLogDir = logDir
	}
	if err := os.MkdirAll(crashLogDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create crash log directory: %v\n", err)
	}
}

// GetStackTrace returns the current goroutine's stack trace
func GetStackTrace() string {
	buf := make([]byte, 64*1024)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}

// WriteCrashFile records a panic report to disk from a recovery handler
// before the process exits. Returns the report path, or empty when the
// write itself failed.
func WriteCrashFile(panicVal any, stackTrace string) string {
	timestamp := time.Now().Format("2006-01-02T15-04-05")
	path := filepath.Join(crashLogDir, fmt.Sprintf("crash-%s.log", timestamp))

	report := fmt.Sprintf("Aura crash report\nTime: %s\nVersion: %s\nPanic: %v\n\n%s\n",
		time.Now().Format(time.RFC3339), GetFullVersion(), panicVal, stackTrace)

	if err := os.WriteFile(path, []byte(report), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write crash report: %v\n", err)
		return ""
	}
	return path
}
