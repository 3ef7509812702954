package upload

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// File is a local file the user picked. Its content is only read once it
// passed validation.
type File struct {
	Name string
	Size int64
	Type string

	open func() (io.ReadCloser, error)
}

func (f File) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return nil, fmt.Errorf("%s has no content", f.Name)
	}
	return f.open()
}

// FromPath describes the file at path. The type is sniffed from the first
// bytes and falls back to the extension.
func FromPath(path string) (File, error) {
	st, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("unable to read %s: %w", path, err)
	}
	if st.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}

	fh, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("unable to open %s: %w", path, err)
	}
	defer fh.Close()
	head := make([]byte, 512)
	n, _ := io.ReadFull(fh, head)

	return File{
		Name: filepath.Base(path),
		Size: st.Size(),
		Type: detectType(path, head[:n]),
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// FromBytes wraps in memory content, e.g. a pasted image
func FromBytes(name string, b []byte) File {
	return File{
		Name: name,
		Size: int64(len(b)),
		Type: detectType(name, b),
		open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(b)), nil },
	}
}

func detectType(name string, head []byte) string {
	sniffed := http.DetectContentType(head)
	if !strings.HasPrefix(sniffed, "application/octet-stream") && !strings.HasPrefix(sniffed, "text/plain") {
		return sniffed
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		return byExt
	}
	return sniffed
}
