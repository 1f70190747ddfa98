package tools

import (
	"fmt"
	"time"

	"github.com/golang/glog"
)

var isEnabled = true
var printTimestamp = true

func DisableLogger() {
	isEnabled = false
}

func DisableLoggerTimestamp() {
	printTimestamp = false
}

// Prints a user facing progress line, silenced by DisableLogger. Every line also goes to the glog info log.
func LogOutput(val ...interface{}) {
	line := fmt.Sprintln(val...)
	glog.InfoDepth(1, line)
	if !isEnabled {
		return
	}
	if printTimestamp {
		fmt.Print("[" + time.Now().Format("2006-01-02 15.04:05.000") + "] " + line)
	} else {
		fmt.Print(line)
	}
}
