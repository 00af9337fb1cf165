package scheduler

import (
	"bufio"
	"io"
	"iter"
	"os"
)

// Lines longer than this make the scanner give up on the file. Far above
// anything the engine measures (it caps lines much lower), but it keeps a
// pathological single-line blob from ballooning memory.
const maxScanLine = 4 * 1024 * 1024

// fileLines streams the lines of a file as an iterator. The returned
// function reports any read error once iteration is done; the iterator
// itself stops on the first failure.
func fileLines(path string) (iter.Seq[string], func() error) {
	var readErr error
	seq := func(yield func(string) bool) {
		f, err := os.Open(path)
		if err != nil {
			readErr = err
			return
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 64*1024), maxScanLine)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
		if err := scanner.Err(); err != nil && err != io.EOF {
			readErr = err
		}
	}
	return seq, func() error { return readErr }
}
