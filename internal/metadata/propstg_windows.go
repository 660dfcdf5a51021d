//go:build windows
// +build windows

package metadata

import (
	"fmt"
	"syscall"
	"unicode/utf16"
	"unsafe"

	"golang.org/x/sys/windows"

	apperrors "lsmeta/internal/errors"
)

const (
	stgmRead           = 0x00000000
	stgmShareExclusive = 0x00000010
	stgfmtFile         = 3

	prspecPropID = 1
	pidCodePage  = 1

	vtI2     = 2
	vtLPSTR  = 30
	vtLPWSTR = 31

	cpACP = 0

	sOK    = 0
	sFalse = 1
)

var (
	modole32             = windows.NewLazySystemDLL("ole32.dll")
	procStgOpenStorageEx = modole32.NewProc("StgOpenStorageEx")
	procPropVariantClear = modole32.NewProc("PropVariantClear")

	iidIPropertySetStorage = windows.GUID{
		Data1: 0x0000013A, Data2: 0x0000, Data3: 0x0000,
		Data4: [8]byte{0xC0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x46},
	}
	fmtidSummaryInformation = windows.GUID{
		Data1: 0xF29F85E0, Data2: 0x4FF9, Data3: 0x1068,
		Data4: [8]byte{0xAB, 0x91, 0x08, 0x00, 0x2B, 0x27, 0xB3, 0xD9},
	}
)

type propertySetStorageVtbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr
	Create         uintptr
	Open           uintptr
	Delete         uintptr
	Enum           uintptr
}

type propertySetStorage struct {
	vtbl *propertySetStorageVtbl
}

type propertyStorageVtbl struct {
	QueryInterface      uintptr
	AddRef              uintptr
	Release             uintptr
	ReadMultiple        uintptr
	WriteMultiple       uintptr
	DeleteMultiple      uintptr
	ReadPropertyNames   uintptr
	WritePropertyNames  uintptr
	DeletePropertyNames uintptr
	Commit              uintptr
	Revert              uintptr
	Enum                uintptr
	SetTimes            uintptr
	SetClass            uintptr
	Stat                uintptr
}

type propertyStorage struct {
	vtbl *propertyStorageVtbl
}

// propSpec mirrors PROPSPEC; id overlays the propid/lpwstr union.
type propSpec struct {
	kind uint32
	id   uintptr
}

// propVariant mirrors PROPVARIANT (16 bytes on 386, 24 on amd64/arm64).
type propVariant struct {
	vt       uint16
	reserved [3]uint16
	val      uintptr
	_        uintptr
}

func hresultError(op string, hr uintptr) error {
	return fmt.Errorf("%s: %w", op, windows.Errno(hr))
}

// openPropertySetStorage opens the NTFS property set storage of path. The
// caller must release the returned object.
func openPropertySetStorage(path string) (*propertySetStorage, error) {
	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, err
	}

	var pss *propertySetStorage
	hr, _, _ := procStgOpenStorageEx.Call(
		uintptr(unsafe.Pointer(pathPtr)),
		uintptr(stgmShareExclusive|stgmRead),
		uintptr(stgfmtFile),
		0,
		0,
		0,
		uintptr(unsafe.Pointer(&iidIPropertySetStorage)),
		uintptr(unsafe.Pointer(&pss)),
	)
	if hr != sOK {
		return nil, hresultError("StgOpenStorageEx", hr)
	}
	return pss, nil
}

func (p *propertySetStorage) release() {
	syscall.SyscallN(p.vtbl.Release, uintptr(unsafe.Pointer(p)))
}

func (p *propertySetStorage) open(fmtid *windows.GUID) (*propertyStorage, error) {
	var ps *propertyStorage
	hr, _, _ := syscall.SyscallN(p.vtbl.Open,
		uintptr(unsafe.Pointer(p)),
		uintptr(unsafe.Pointer(fmtid)),
		uintptr(stgmShareExclusive|stgmRead),
		uintptr(unsafe.Pointer(&ps)),
	)
	if hr != sOK {
		return nil, hresultError("IPropertySetStorage.Open", hr)
	}
	return ps, nil
}

func (p *propertyStorage) release() {
	syscall.SyscallN(p.vtbl.Release, uintptr(unsafe.Pointer(p)))
}

// readVariant reads a single property by id. The caller must clear the
// returned value.
func (p *propertyStorage) readVariant(id uint32) (*propVariant, error) {
	spec := propSpec{kind: prspecPropID, id: uintptr(id)}
	var value propVariant

	hr, _, _ := syscall.SyscallN(p.vtbl.ReadMultiple,
		uintptr(unsafe.Pointer(p)),
		1,
		uintptr(unsafe.Pointer(&spec)),
		uintptr(unsafe.Pointer(&value)),
	)
	switch hr {
	case sOK:
		return &value, nil
	case sFalse:
		return nil, apperrors.ErrNoMetadata
	default:
		return nil, hresultError("IPropertyStorage.ReadMultiple", hr)
	}
}

func (v *propVariant) clear() {
	procPropVariantClear.Call(uintptr(unsafe.Pointer(v)))
}

// codePage returns PID_CODEPAGE of the set, or CP_ACP when it is absent.
func (p *propertyStorage) codePage() uint32 {
	value, err := p.readVariant(pidCodePage)
	if err != nil {
		return cpACP
	}
	defer value.clear()

	if value.vt != vtI2 {
		return cpACP
	}
	cp := uint32(uint16(value.val))
	if cp == codePageUTF16LE {
		return cpACP
	}
	return cp
}

// readString reads a single string property by id.
func (p *propertyStorage) readString(id uint32) (string, error) {
	value, err := p.readVariant(id)
	if err != nil {
		return "", err
	}
	defer value.clear()

	switch value.vt {
	case vtLPWSTR:
		return windows.UTF16PtrToString(*(**uint16)(unsafe.Pointer(&value.val))), nil
	case vtLPSTR:
		return decodeANSI(*(**byte)(unsafe.Pointer(&value.val)), p.codePage())
	default:
		return "", fmt.Errorf("%w: Comments has variant type %d", apperrors.ErrMalformed, value.vt)
	}
}

// decodeANSI converts a NUL-terminated string in codePage to UTF-8.
func decodeANSI(s *byte, codePage uint32) (string, error) {
	if s == nil {
		return "", nil
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(s), n)) != 0 {
		n++
	}
	if n == 0 {
		return "", nil
	}

	size, err := windows.MultiByteToWideChar(codePage, 0, s, int32(n), nil, 0)
	if err != nil {
		return "", fmt.Errorf("%w: code page %d: %v", apperrors.ErrMalformed, codePage, err)
	}
	wide := make([]uint16, size)
	if _, err := windows.MultiByteToWideChar(codePage, 0, s, int32(n), &wide[0], size); err != nil {
		return "", fmt.Errorf("%w: code page %d: %v", apperrors.ErrMalformed, codePage, err)
	}
	return string(utf16.Decode(wide)), nil
}

// readSummaryComment reads PIDSI_COMMENTS from the SummaryInformation set.
func readSummaryComment(path string) (string, error) {
	pss, err := openPropertySetStorage(path)
	if err != nil {
		return "", err
	}
	defer pss.release()

	ps, err := pss.open(&fmtidSummaryInformation)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrNoMetadata, err)
	}
	defer ps.release()

	return ps.readString(commentsPropertyID)
}
