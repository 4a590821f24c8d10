// Package journal provides an append-only record of engine events
// (liquidations, bids, evictions, rent donations), one JSON object per line.
package journal

import (
	"fmt"
	"os"
	"sync"
)

type Journal interface {
	Append(line string)
}

type Nop struct{}

func NewNop() *Nop           { return &Nop{} }
func (j *Nop) Append(string) {}

type File struct {
	mu sync.Mutex
	f  *os.File
}

func NewFile(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &File{f: f}, nil
}

func (j *File) Append(line string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	fmt.Fprintln(j.f, line)
}

func (j *File) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.f.Close()
}

var _ Journal = (*Nop)(nil)
var _ Journal = (*File)(nil)
