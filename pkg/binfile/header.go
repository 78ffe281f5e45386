package binfile

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// FileFormat identifies the kind of ANSYS binary file (standard header
// item 2).
type FileFormat int32

const (
	FormatElementMatrix FileFormat = 2
	FormatFull          FileFormat = 4
	FormatSubstructure  FileFormat = 8
	FormatModal         FileFormat = 9
	FormatReducedDisp   FileFormat = 10
	FormatResult        FileFormat = 12
	FormatDatabase      FileFormat = 16
	FormatCMS           FileFormat = 45
)

func (f FileFormat) String() string {
	switch f {
	case FormatElementMatrix:
		return "element matrix"
	case FormatFull:
		return "full"
	case FormatSubstructure:
		return "substructure"
	case FormatModal:
		return "modal"
	case FormatReducedDisp:
		return "reduced displacement"
	case FormatResult:
		return "result"
	case FormatDatabase:
		return "database"
	case FormatCMS:
		return "cms"
	default:
		return fmt.Sprintf("unknown(%d)", int32(f))
	}
}

// Units is the unit system code in the standard header.
type Units int32

func (u Units) String() string {
	switch u {
	case 0:
		return "User Defined"
	case 1:
		return "SI"
	case 2:
		return "CSG"
	case 3:
		return "U.S. Customary units (feet)"
	case 4:
		return "U.S. Customary units (inches)"
	case 5:
		return "MKS"
	case 6:
		return "MPA"
	case 7:
		return "uMKS"
	default:
		return fmt.Sprintf("unknown(%d)", int32(u))
	}
}

// StandardHeader is the 100-word record that opens every ANSYS binary file.
type StandardHeader struct {
	FileNumber  int32      `json:"file_number"`
	Format      FileFormat `json:"format"`
	Time        string     `json:"time"`
	Date        string     `json:"date"`
	Units       Units      `json:"units"`
	Version     string     `json:"version"`
	Machine     string     `json:"machine"`
	Jobname     string     `json:"jobname"`
	Product     string     `json:"product"`
	Special     string     `json:"special"`
	Username    string     `json:"username"`
	MachineID   string     `json:"machine_id"`
	RecordSize  int32      `json:"record_size"`
	LongJobname string     `json:"long_jobname"`
	Title       string     `json:"title"`
	Subtitle    string     `json:"subtitle"`
	SplitPoint  int32      `json:"split_point"`
}

// standard header payload, word indices from the start of the file
const (
	hdrFileNumber  = 2
	hdrFormat      = 3
	hdrTime        = 4
	hdrDate        = 5
	hdrUnits       = 6
	hdrVersion     = 11
	hdrMachine     = 13
	hdrJobname     = 16
	hdrProduct     = 18
	hdrSpecial     = 20
	hdrUsername    = 21
	hdrMachineID   = 24
	hdrRecordSize  = 27
	hdrLongJobname = 32
	hdrTitle       = 42
	hdrSubtitle    = 62
	hdrSplitPoint  = 96

	standardHeaderWords = 97
)

// ReadStandardHeader decodes the standard header at the start of the view.
func (v *View) ReadStandardHeader() (StandardHeader, error) {
	words, err := v.Int32sAt(0, standardHeaderWords)
	if err != nil {
		return StandardHeader{}, fmt.Errorf("read standard header: %w", err)
	}
	str := func(at, n int) string { return decodeString(words[at : at+n]) }
	return StandardHeader{
		FileNumber:  words[hdrFileNumber],
		Format:      FileFormat(words[hdrFormat]),
		Time:        formatTime(words[hdrTime]),
		Date:        formatDate(words[hdrDate]),
		Units:       Units(words[hdrUnits]),
		Version:     str(hdrVersion, 1),
		Machine:     str(hdrMachine, 3),
		Jobname:     str(hdrJobname, 2),
		Product:     str(hdrProduct, 2),
		Special:     str(hdrSpecial, 1),
		Username:    str(hdrUsername, 3),
		MachineID:   str(hdrMachineID, 3),
		RecordSize:  words[hdrRecordSize],
		LongJobname: str(hdrLongJobname, 8),
		Title:       str(hdrTitle, 20),
		Subtitle:    str(hdrSubtitle, 20),
		SplitPoint:  words[hdrSplitPoint],
	}, nil
}

// decodeString unpacks four-character words. Each word holds its
// characters most significant byte first.
func decodeString(words []int32) string {
	buf := make([]byte, 0, len(words)*4)
	for _, w := range words {
		buf = binary.BigEndian.AppendUint32(buf, uint32(w))
	}
	return strings.TrimSpace(strings.TrimRight(string(buf), "\x00"))
}

// EncodeString packs s into n four-character words, the inverse of the
// decoding applied by ReadStandardHeader.
func EncodeString(s string, n int) []int32 {
	buf := make([]byte, n*4)
	for i := range buf {
		buf[i] = ' '
	}
	copy(buf, s)
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(binary.BigEndian.Uint32(buf[i*4:]))
	}
	return out
}

func formatTime(v int32) string {
	s := fmt.Sprintf("%06d", v)
	return s[0:2] + ":" + s[2:4] + ":" + s[4:]
}

func formatDate(v int32) string {
	if v <= 0 {
		return ""
	}
	s := fmt.Sprintf("%08d", v)
	return s[0:4] + "/" + s[4:6] + "/" + s[6:]
}
