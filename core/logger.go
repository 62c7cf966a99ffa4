/* GTSF - GT-TSCH Scheduling Function Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package core

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/text"
)

// levelTrace sits below apex's DEBUG level. Trace messages are emitted as DEBUG.
const levelTrace = log.DebugLevel - 1

var logLevel log.Level
var logFileObj *os.File

// InitializeLogger initializes the logger. Logs are written to stdout if logFile is empty.
func InitializeLogger(logFile string) {
	var out io.Writer = os.Stdout
	if logFile != "" {
		var err error
		logFileObj, err = os.Create(logFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to create log file:", err)
			os.Exit(1)
		}
		out = logFileObj
	}
	log.SetHandler(text.New(out))

	SetLogLevel(GetConfigStringDefault("core.log_level", "INFO"))
}

// SetLogLevel changes the level at which messages are printed. Unknown levels fall back to INFO.
func SetLogLevel(logLevelString string) {
	var err error
	if logLevel, err = log.ParseLevel(logLevelString); err != nil {
		logLevel = log.InfoLevel
		if strings.EqualFold(logLevelString, "trace") {
			logLevel = levelTrace
		}
	}
	if logLevel < log.DebugLevel {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(logLevel)
	}
}

// ShutdownLogger shuts down the logger.
func ShutdownLogger() {
	if logFileObj != nil {
		logFileObj.Close()
	}
}

func generateLogMessage(module interface{}, components ...interface{}) string {
	var message strings.Builder
	fmt.Fprintf(&message, "[%v] ", module)
	for _, component := range components {
		switch v := component.(type) {
		case string:
			message.WriteString(v)
		case int:
			message.WriteString(strconv.Itoa(v))
		case error:
			message.WriteString(v.Error())
		default:
			fmt.Fprint(&message, v)
		}
	}
	return message.String()
}

// LogFatal logs a message at the FATAL level. Note: Fatal will let the program exit
func LogFatal(module interface{}, components ...interface{}) {
	if logLevel <= log.FatalLevel {
		log.Fatal(generateLogMessage(module, components...))
	}
}

// LogError logs a message at the ERROR level.
func LogError(module interface{}, components ...interface{}) {
	if logLevel <= log.ErrorLevel {
		log.Error(generateLogMessage(module, components...))
	}
}

// LogWarn logs a message at the WARN level.
func LogWarn(module interface{}, components ...interface{}) {
	if logLevel <= log.WarnLevel {
		log.Warn(generateLogMessage(module, components...))
	}
}

// LogInfo logs a message at the INFO level.
func LogInfo(module interface{}, components ...interface{}) {
	if logLevel <= log.InfoLevel {
		log.Info(generateLogMessage(module, components...))
	}
}

// LogDebug logs a message at the DEBUG level.
func LogDebug(module interface{}, components ...interface{}) {
	if logLevel <= log.DebugLevel {
		log.Debug(generateLogMessage(module, components...))
	}
}

// LogTrace logs a message at the TRACE level, printed as DEBUG.
func LogTrace(module interface{}, components ...interface{}) {
	if logLevel <= levelTrace {
		log.Debug(generateLogMessage(module, components...))
	}
}
