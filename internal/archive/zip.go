package archive

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/zip"
)

// archiveEpoch pins every entry's modification time so archive bytes are a
// pure function of the partition's file contents.
var archiveEpoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Name returns the archive filename for partition number part (1-based) of
// total. A single-archive batch drops the part suffix.
func Name(base string, part, total int) string {
	if total <= 1 {
		return base + ".zip"
	}
	return fmt.Sprintf("%s_part%02d.zip", base, part)
}

// Write serializes one partition into a ZIP archive at path. Entries are
// written in partition order with pinned metadata, so identical inputs
// produce byte-identical archives.
func Write(p Partition, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return &PackingError{Op: "create archive", Err: err}
	}

	zw := zip.NewWriter(out)
	for _, f := range p.Files {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: archiveEpoch,
		})
		if err != nil {
			out.Close()
			return &PackingError{Op: "add entry " + f.Name, Err: err}
		}
		if err := copyFile(w, f.Path); err != nil {
			out.Close()
			return &PackingError{Op: "read input " + f.Name, Err: err}
		}
	}

	if err := zw.Close(); err != nil {
		out.Close()
		return &PackingError{Op: "finalize archive", Err: err}
	}
	if err := out.Close(); err != nil {
		return &PackingError{Op: "write archive", Err: err}
	}
	return nil
}

func copyFile(w io.Writer, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()
	_, err = io.Copy(w, src)
	return err
}
