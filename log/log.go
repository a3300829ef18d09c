package log

import (
	"io"
	"log"
	"os"

	"github.com/fatih/color"
)

var (
	Info  *log.Logger
	Warn  *log.Logger
	Error *log.Logger
)

func init() {
	SetOutput(os.Stdout, os.Stderr)
}

// SetOutput points the loggers at new writers. Info and Warn share out.
func SetOutput(out, errOut io.Writer) {
	Info = log.New(out,
		color.GreenString("[INFO] "),
		log.Ldate|log.Ltime|log.Lshortfile)
	Warn = log.New(out,
		color.YellowString("[WARN] "),
		log.Ldate|log.Ltime|log.Lshortfile)

	Error = log.New(errOut,
		color.RedString("[ERROR] "),
		log.Ldate|log.Ltime|log.Lshortfile)
}

// Discard silences every logger. Used by the CLI when not in verbose mode.
func Discard() {
	SetOutput(io.Discard, io.Discard)
}
