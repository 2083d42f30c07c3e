package logger

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// configuration :
// Provides a way to configure the way logs are displayed both in terms of
// level and in terms of the process executing the logger.
// This logger uses a display to the standard output as a logging strategy
// with some coloring based on the severity of the logs to display. The
// logger is initialized with a default name for the application and with a
// local configuration but information are retrieved from the configuration
// file to modify it.
//
// The `AppName` describes a string for the name of the application using
// the logger.
// The default value is "starforge".
//
// The `Environment` allows to specify which configuration is used by the
// application executing the logger. Typical values include `production`
// and all other settings such as `development`, etc.
// The default value is "development".
//
// The `ForceLocal` allows to make sure that the instance ID assigned to
// this logger will be "local" no matter what the value provided by the
// runtime is.
// The default value is `false`.
//
// The `Level` is the minimum severity for a message to actually reach the
// standard output. Messages with a lower severity are discarded before
// ever being enqueued.
// The default value is `Info`.
//
// The `Buffer` allows to specify the size of the buffer used to absorb
// bursts of log messages without blocking the caller.
// The default value is 500.
type configuration struct {
	AppName     string
	Environment string
	ForceLocal  bool
	Level       Severity
	Buffer      int
}

// traceMessage :
// Describes a message enqueued by the logger. It carries everything
// needed to render a single log line: its severity, the module that
// produced it and its content.
type traceMessage struct {
	level   Severity
	module  string
	content string
}

// StdLogger :
// Describes the logger structure used to perform logging. This logger
// forwards log messages received as Go structures to the standard output
// and handles a buffering mechanism so that callers are never blocked
// behind the display device (unless the buffer itself is saturated).
//
// The `config` holds the parsed settings controlling the rendering of
// messages handled by this logger.
//
// The `instanceID` identifies the running instance of the server; it
// changes on every restart so that crashes and overlapping runs on the
// same machine can be told apart in the logs.
//
// The `logChannel` receives trace messages from every package using this
// logger before they are handed to the rendering device.
//
// The `endChannel` signals the active logging loop to terminate.
//
// The `closed` flag is guarded by `locker` and prevents posting to a
// channel that has already been closed by `Release`.
//
// The `waiter` is used to block `Release` until the last buffered
// messages have actually been printed.
type StdLogger struct {
	config     configuration
	instanceID string
	logChannel chan traceMessage
	endChannel chan bool
	closed     bool
	locker     sync.Mutex
	waiter     sync.WaitGroup
}

// parseConfiguration :
// Retrieves logger settings from the configuration file/environment
// loaded through Viper, falling back to sane defaults for any unset
// value.
func parseConfiguration() configuration {
	config := configuration{
		AppName:     "starforge",
		Environment: "development",
		ForceLocal:  false,
		Level:       Info,
		Buffer:      500,
	}

	if viper.IsSet("Logger.Name") {
		config.AppName = viper.GetString("Logger.Name")
	}
	if viper.IsSet("Logger.Environment") {
		config.Environment = viper.GetString("Logger.Environment")
	}
	if viper.IsSet("Logger.ForceLocal") {
		config.ForceLocal = viper.GetBool("Logger.ForceLocal")
	}
	if viper.IsSet("Logger.Level") {
		if lvl, ok := parseSeverity(viper.GetString("Logger.Level")); ok {
			config.Level = lvl
		}
	}
	if viper.IsSet("Logger.Buffer") {
		config.Buffer = viper.GetInt("Logger.Buffer")
	}

	return config
}

func parseSeverity(raw string) (Severity, bool) {
	for s := Verbose; s <= Fatal; s++ {
		if s.String() == raw {
			return s, true
		}
	}
	return Info, false
}

// NewStdLogger :
// Creates a new logger tagged with the provided instance identifier. The
// logger reads its configuration from Viper (already primed by the
// caller) and immediately starts its background rendering loop.
//
// The `instanceID` identifies this particular run of the server; an
// empty value (or `ForceLocal`) is replaced by "local".
//
// Returns the created logger.
func NewStdLogger(instanceID string) *StdLogger {
	config := parseConfiguration()

	log := StdLogger{
		config:     config,
		instanceID: instanceID,
		logChannel: make(chan traceMessage, config.Buffer),
		endChannel: make(chan bool),
	}

	if len(log.instanceID) == 0 || config.ForceLocal {
		log.instanceID = "local"
	}

	log.waiter.Add(1)
	go log.performLogging()

	return &log
}

// Release :
// Terminates the active logging loop. Blocks until the loop has drained
// and printed every message still sitting in the buffer.
func (log *StdLogger) Release() {
	log.endChannel <- false

	log.locker.Lock()
	log.closed = true
	close(log.logChannel)
	log.locker.Unlock()

	log.waiter.Wait()
}

// Trace :
// Enqueues a message for logging. Never blocks the caller unless the
// internal buffer is saturated, in which case the caller waits for a
// free slot. Messages below the configured minimum level are dropped.
//
// The `level` describes the severity of the message.
//
// The `module` identifies the subsystem producing the message.
//
// The `message` is the content to log.
func (log *StdLogger) Trace(level Severity, module string, message string) {
	if level < log.config.Level {
		return
	}

	trace := traceMessage{
		level:   level,
		module:  module,
		content: message,
	}

	log.locker.Lock()
	defer log.locker.Unlock()
	if !log.closed {
		log.logChannel <- trace
	}
}

// performLogging :
// Drains the internal trace channel and renders every message until
// asked to stop, then flushes whatever remains before returning.
func (log *StdLogger) performLogging() {
	keepRunning := true

	for keepRunning {
		select {
		case keepRunning = <-log.endChannel:
		case trace := <-log.logChannel:
			log.performSingleLog(trace)
		}
	}

	for trace := range log.logChannel {
		log.performSingleLog(trace)
	}

	log.waiter.Done()
}

func severityColor(level Severity) Color {
	switch {
	case level <= Debug:
		return Grey
	case level == Info || level == Notice:
		return Cyan
	case level == Warning:
		return Yellow
	default:
		return Red
	}
}

// performSingleLog :
// Renders a single trace message to the standard output, including the
// application name, instance id, timestamp, module and severity.
func (log *StdLogger) performSingleLog(trace traceMessage) {
	out := FormatWithBrackets(log.config.AppName, Magenta)
	out += " " + FormatWithBrackets(log.instanceID, Magenta)
	out += " " + FormatWithNoBrackets(time.Now().Format("2006-01-02 15:04:05"), Magenta)
	out += " " + FormatWithBrackets(trace.module, severityColor(trace.level))
	out += " " + trace.level.String()
	out += " " + trace.content

	fmt.Println(out)
}
