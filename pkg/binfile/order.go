package binfile

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/samcharles93/ansysio/pkg/errs"
)

// DetectByteOrder reads the first word of r and reports the byte order
// under which it equals Magic. Little endian is tried first.
func DetectByteOrder(r io.ReaderAt) (binary.ByteOrder, error) {
	var b [4]byte
	if _, err := r.ReadAt(b[:], 0); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	return detect("", b[:])
}

func detect(path string, data []byte) (binary.ByteOrder, error) {
	if len(data) < 4 {
		return nil, &errs.FormatError{Path: path, Offset: 0, Expected: "4 byte magic", Found: fmt.Sprintf("%d bytes", len(data)), Msg: "file is not a recognized ANSYS binary file"}
	}
	if binary.LittleEndian.Uint32(data) == Magic {
		return binary.LittleEndian, nil
	}
	if binary.BigEndian.Uint32(data) == Magic {
		return binary.BigEndian, nil
	}
	return nil, &errs.FormatError{
		Path:     path,
		Offset:   0,
		Expected: fmt.Sprint(Magic),
		Found:    fmt.Sprint(int32(binary.LittleEndian.Uint32(data))),
		Msg:      "file is not a recognized ANSYS binary file",
	}
}
