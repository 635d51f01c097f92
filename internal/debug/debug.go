package debug

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Debug levels
const (
	LevelOff     = 0 // No output
	LevelInfo    = 1 // Important info (phases, decoded word)
	LevelLive    = 2 // Live info (drive commands, readings taken)
	LevelVerbose = 3 // Verbose (PID terms, run lengths, letters)
	LevelTrace   = 4 // Trace (GPIO, very low level)
)

var (
	level  int
	logger *log.Logger
)

// Init initializes the debug system with a level (0-4).
// 0 = no output
// 1 = important info (phase transitions, decoded word)
// 2 = live info (drive commands, sensor readings)
// 3 = verbose (PID terms, run lengths, letter patterns)
// 4 = trace (GPIO, very low level)
func Init(debugLevel int) {
	level = debugLevel
	if level > LevelOff {
		logger = log.New(os.Stdout, "[LumeGo] ", log.LstdFlags|log.Lmicroseconds)
	}
}

// SetOutput redirects the debug output, e.g. to mirror messages
// to the web status broadcaster alongside stdout.
func SetOutput(w io.Writer) {
	if logger != nil {
		logger.SetOutput(w)
	}
}

// Level returns the current debug level.
func Level() int {
	return level
}

// IsEnabled returns true if debug level is >= the requested level.
func IsEnabled(minLevel int) bool {
	return level >= minLevel
}

// --- Level 1 functions (Info): important info ---

// Info prints a level 1 message (important info).
func Info(format string, args ...interface{}) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("[INFO] "+format, args...)
	}
}

// Summary prints an important summary (level 1).
func Summary(title string) {
	if level >= LevelOff && logger != nil {
		logger.Printf("═══════════════════════════════════════")
		logger.Printf("  %s", title)
		logger.Printf("═══════════════════════════════════════")
	}
}

// Word prints the decoded word (level 1).
func Word(word string, letters int) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("[INFO] Decoded %d letter(s): %q", letters, word)
	}
}

// Value prints a named value in formatted form (level 1).
func Value(name string, value interface{}) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("[INFO]   %s = %v", name, value)
	}
}

// --- Level 2 functions (Live): real-time info ---

// Live prints a level 2 message (live info).
func Live(format string, args ...interface{}) {
	if level >= LevelLive && logger != nil {
		logger.Printf("[LIVE] "+format, args...)
	}
}

// Drive prints a drive command (level 2).
func Drive(left, right int) {
	if level >= LevelLive && logger != nil {
		logger.Printf("[LIVE] Drive: left=%d right=%d", left, right)
	}
}

// Reading prints a sensor reading (level 2).
func Reading(n, total int, value float64) {
	if level >= LevelLive && logger != nil {
		logger.Printf("[LIVE] Reading %d/%d: %.1f", n, total, value)
	}
}

// --- Level 3 functions (Verbose): everything ---

// Verbose prints a level 3 message (verbose).
func Verbose(format string, args ...interface{}) {
	if level >= LevelVerbose && logger != nil {
		logger.Printf("[VERBOSE] "+format, args...)
	}
}

// Printf is an alias for Verbose for compatibility.
func Printf(format string, args ...interface{}) {
	Verbose(format, args...)
}

// Tick prints one PID tick for a side (level 3).
func Tick(side string, err, errSum, errDiff float64, power int) {
	if level >= LevelVerbose && logger != nil {
		logger.Printf("[VERBOSE] PID %s: err=%.2f sum=%.2f diff=%.2f power=%d", side, err, errSum, errDiff, power)
	}
}

// Runs prints a run-length list (level 3).
func Runs(runs []int) {
	if level >= LevelVerbose && logger != nil {
		logger.Printf("[VERBOSE] Run lengths: %v", runs)
	}
}

// Letter prints one segmented letter pattern (level 3).
func Letter(pattern []int) {
	if level >= LevelVerbose && logger != nil {
		logger.Printf("[VERBOSE] Letter pattern: %v", pattern)
	}
}

// PrintStruct prints a struct in formatted form (level 3).
func PrintStruct(name string, v interface{}) {
	if level >= LevelVerbose && logger != nil {
		logger.Printf("[VERBOSE] %s: %+v", name, v)
	}
}

// Section prints a section separator (level 3).
func Section(name string) {
	if level >= LevelVerbose && logger != nil {
		logger.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		logger.Printf("  %s", name)
		logger.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	}
}

// Step prints a numbered step (level 3).
func Step(num int, description string) {
	if level >= LevelVerbose && logger != nil {
		logger.Printf("[VERBOSE] Step %d: %s", num, description)
	}
}

// --- Level 4 functions (Trace): very low level ---

// Trace prints a level 4 message (trace, GPIO).
func Trace(format string, args ...interface{}) {
	if level >= LevelTrace && logger != nil {
		logger.Printf("[TRACE] "+format, args...)
	}
}

// GPIO prints a GPIO operation (level 4).
func GPIO(operation string, pin int, value interface{}) {
	if level >= LevelTrace && logger != nil {
		logger.Printf("[GPIO] %s pin=%d value=%v", operation, pin, value)
	}
}

// --- General functions ---

// Error prints a debug error (level 1+).
func Error(err error) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("[ERROR] %v", err)
	}
}

// Fmt is a helper function that returns a formatted string
// only if debug is enabled (to avoid unnecessary allocations).
func Fmt(format string, args ...interface{}) string {
	if level > 0 {
		return fmt.Sprintf(format, args...)
	}
	return ""
}
