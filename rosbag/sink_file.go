package rosbag

import (
	"os"
)

// FileSink writes a bag directly to a path on disk. It refuses to open a
// path that already exists.
type FileSink struct {
	f   *os.File
	pos uint64
}

// NewFileSink opens path for exclusive creation. It fails with
// ErrFileExists if path already exists.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, ErrFileExists
		}
		return nil, ioErr(err)
	}
	return &FileSink{f: f}, nil
}

func (s *FileSink) Write(p []byte) (int, error) {
	n, err := s.f.Write(p)
	s.pos += uint64(n)
	if err != nil {
		return n, ioErr(err)
	}
	return n, nil
}

func (s *FileSink) Position() uint64 {
	return s.pos
}

func (s *FileSink) Patch(offset uint64, p []byte) error {
	if _, err := s.f.WriteAt(p, int64(offset)); err != nil {
		return ioErr(err)
	}
	return nil
}

func (s *FileSink) Close() error {
	if err := s.f.Close(); err != nil {
		return ioErr(err)
	}
	return nil
}
