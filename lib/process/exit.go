// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// exitCoder is implemented by categorized command errors such as
// cli.ToolError.
type exitCoder interface {
	ExitCode() int
}

// Fatal writes "error: err" to stderr and exits with the error's exit
// code, or 1 when it carries none.
func Fatal(err error) {
	os.Exit(Report(os.Stderr, err))
}

// Report writes "error: err" to writer and returns the exit code Fatal
// would use.
func Report(writer io.Writer, err error) int {
	fmt.Fprintf(writer, "error: %v\n", err)
	var coder exitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return 1
}
