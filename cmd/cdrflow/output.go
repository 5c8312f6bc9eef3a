package main

import (
	"bufio"
	"io"
	"os"
)

// output is where a command writes its report: a buffered file, or
// stdout when no path is given. Close must be called on every exit path,
// including failures, so that results written so far reach the file.
type output struct {
	io.Writer
	file *os.File
	buf  *bufio.Writer
}

func openOutput(path string) (*output, error) {
	if path == "" {
		return &output{Writer: os.Stdout}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	bw := bufio.NewWriter(f)
	return &output{Writer: bw, file: f, buf: bw}, nil
}

// Close flushes the buffer and closes the file. It is safe to call more
// than once.
func (o *output) Close() error {
	if o.file == nil {
		return nil
	}
	f := o.file
	o.file = nil

	if err := o.buf.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
