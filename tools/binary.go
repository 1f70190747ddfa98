package tools

import (
	"encoding/binary"
	"math"
)

// Little endian helpers shared by the tile writer and the verifier

// Writes the three components of value into dst, which must hold at least 12 bytes
func PutFloat32Triplet(dst []byte, value [3]float32) {
	binary.LittleEndian.PutUint32(dst[0:4], math.Float32bits(value[0]))
	binary.LittleEndian.PutUint32(dst[4:8], math.Float32bits(value[1]))
	binary.LittleEndian.PutUint32(dst[8:12], math.Float32bits(value[2]))
}

func ReadFloat32Triplet(src []byte) [3]float32 {
	return [3]float32{
		math.Float32frombits(binary.LittleEndian.Uint32(src[0:4])),
		math.Float32frombits(binary.LittleEndian.Uint32(src[4:8])),
		math.Float32frombits(binary.LittleEndian.Uint32(src[8:12])),
	}
}
