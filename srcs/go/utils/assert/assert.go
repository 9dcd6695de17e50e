// Package assert exits the process when an internal invariant is broken.
package assert

import (
	"fmt"
	"os"
	"runtime"
)

func perror(name, loc string, detail interface{}) {
	if detail != nil {
		fmt.Fprintf(os.Stderr, "%s failed at %s: %v\n", name, loc, detail)
		return
	}
	fmt.Fprintf(os.Stderr, "%s failed at %s\n", name, loc)
}

func caller() string {
	pc, fn, line, _ := runtime.Caller(2)
	return fmt.Sprintf("%v:%s:%d", pc, fn, line)
}

func OK(err error) {
	if err != nil {
		perror(`assertOK`, caller(), err)
		os.Exit(1)
	}
}

func True(ok bool) {
	if !ok {
		perror(`assertTrue`, caller(), nil)
		os.Exit(1)
	}
}

func Truef(ok bool, format string, v ...interface{}) {
	if !ok {
		perror(`assertTrue`, caller(), fmt.Sprintf(format, v...))
		os.Exit(1)
	}
}
