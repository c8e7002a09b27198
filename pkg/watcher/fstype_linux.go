//go:build linux

package watcher

import "golang.org/x/sys/unix"

// Magic numbers from statfs(2).
const (
	magicNFS   = 0x6969
	magicSMB   = 0x517b
	magicCIFS  = 0xff534d42
	magicSMB2  = 0xfe534d42
	magicFUSE  = 0x65735546
	magic9P    = 0x01021997
	magicAFS   = 0x5346414f
	magicCODA  = 0x73757245
	magicCEPH  = 0x00c36400
	magicLUSTR = 0x0bd00bd0
)

func detectFilesystemType(path string) FilesystemType {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return FSTypeUnknown
	}
	switch uint32(st.Type) {
	case magicNFS, magicAFS, magicCODA, magicCEPH, magicLUSTR, magic9P:
		return FSTypeNFS
	case magicSMB, magicCIFS, magicSMB2:
		return FSTypeSMB
	case magicFUSE:
		// sshfs and other userspace filesystems share the FUSE magic
		return FSTypeFUSE
	default:
		return FSTypeLocal
	}
}
