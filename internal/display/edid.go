package display

import (
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/google/uuid"
)

var edidHeader = []byte{0x00, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x00}

const edidBlockSize = 128

// edidUUID derives a stable persistent id from an EDID base block. Outputs
// without a usable EDID fall back to their connector name, which is stable
// for a given port but not for a given panel.
func edidUUID(edid []byte, fallback string) string {
	var u uuid.UUID
	if validEDID(edid) {
		u = uuid.NewSHA1(uuid.NameSpaceOID, edid[:edidBlockSize])
	} else {
		u = uuid.NewSHA1(uuid.NameSpaceOID, []byte("connector:"+fallback))
	}
	return strings.ToUpper(u.String())
}

// edidSerial returns the 32-bit serial number from bytes 12-15 of the base
// block, or 0.
func edidSerial(edid []byte) uint32 {
	if !validEDID(edid) {
		return 0
	}
	return binary.LittleEndian.Uint32(edid[12:16])
}

// edidSizeMM returns the maximum image size in millimetres. The base block
// stores centimetres in bytes 21 and 22.
func edidSizeMM(edid []byte) (float64, float64) {
	if !validEDID(edid) {
		return 0, 0
	}
	return float64(edid[21]) * 10, float64(edid[22]) * 10
}

func validEDID(edid []byte) bool {
	return len(edid) >= edidBlockSize && bytes.Equal(edid[:len(edidHeader)], edidHeader)
}

// builtinConnector reports whether an output name belongs to an internal
// laptop panel.
func builtinConnector(name string) bool {
	for _, prefix := range []string{"eDP", "LVDS", "DSI"} {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
