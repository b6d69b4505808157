package main

import (
	"encoding/binary"
	"errors"
)

// psxEXE is the on-disk layout of a PS-X EXE side-loadable executable: an
// 0x800-byte header (magic, load address, entrypoint, initial SP) followed
// by the raw code/data image. Parsing this is a CLI concern, not the
// emulation core's — core.Machine.LoadExecutable just wants the four
// already-decoded fields.
const (
	psxEXEHeaderSize = 0x800
	psxEXEMagic      = "PS-X EXE"
)

// parseExe decodes a PS-X EXE image into the (loadAddr, entrypoint, sp,
// data) tuple core.Machine.LoadExecutable expects.
func parseExe(image []byte) (loadAddr, entrypoint, sp uint32, data []byte, err error) {
	if len(image) < psxEXEHeaderSize {
		return 0, 0, 0, nil, errors.New("gopsx: exe image shorter than the PS-X EXE header")
	}
	if string(image[0:8]) != psxEXEMagic {
		return 0, 0, 0, nil, errors.New("gopsx: missing PS-X EXE magic")
	}

	entrypoint = binary.LittleEndian.Uint32(image[0x10:0x14])
	loadAddr = binary.LittleEndian.Uint32(image[0x18:0x1c])
	fileSize := binary.LittleEndian.Uint32(image[0x1c:0x20])
	spBase := binary.LittleEndian.Uint32(image[0x30:0x34])
	spOffset := binary.LittleEndian.Uint32(image[0x34:0x38])
	sp = spBase + spOffset

	end := psxEXEHeaderSize + int(fileSize)
	if end > len(image) {
		end = len(image)
	}
	data = image[psxEXEHeaderSize:end]
	return loadAddr, entrypoint, sp, data, nil
}
