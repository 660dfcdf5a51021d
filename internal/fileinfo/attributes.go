package fileinfo

// Attributes holds the DOS/NTFS attribute bits of an entry. The values match
// the Windows FILE_ATTRIBUTE_* constants.
type Attributes uint32

const (
	AttrReadOnly     Attributes = 0x0001
	AttrHidden       Attributes = 0x0002
	AttrSystem       Attributes = 0x0004
	AttrArchive      Attributes = 0x0020
	AttrSparse       Attributes = 0x0200
	AttrReparsePoint Attributes = 0x0400
	AttrCompressed   Attributes = 0x0800
	AttrEncrypted    Attributes = 0x4000

	attrMask = AttrReadOnly | AttrHidden | AttrSystem | AttrArchive |
		AttrSparse | AttrReparsePoint | AttrCompressed | AttrEncrypted
)

// Column order of the attribute string
var attrLetters = []struct {
	bit    Attributes
	letter byte
}{
	{AttrReadOnly, 'r'},
	{AttrArchive, 'a'},
	{AttrHidden, 'h'},
	{AttrSystem, 's'},
	{AttrCompressed, 'c'},
	{AttrEncrypted, 'e'},
	{AttrReparsePoint, 'S'},
	{AttrSparse, 'p'},
}

// String renders the attributes as the fixed-width "rahsceSp" column, with
// '-' for every unset bit
func (a Attributes) String() string {
	b := make([]byte, len(attrLetters))
	for i, l := range attrLetters {
		b[i] = '-'
		if a&l.bit != 0 {
			b[i] = l.letter
		}
	}
	return string(b)
}

// Has reports whether every bit of flag is set
func (a Attributes) Has(flag Attributes) bool {
	return a&flag == flag
}
