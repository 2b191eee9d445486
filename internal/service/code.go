package service

import (
	"crypto/rand"
	"encoding/binary"
	"math"
)

// MinCode is the smallest code GenerateCode returns
const MinCode uint32 = 1024

// GenerateCode returns a uniformly random code in [MinCode, MaxUint32]
func GenerateCode() uint32 {
	const span = uint64(math.MaxUint32) - uint64(MinCode) + 1
	// rejection sampling keeps the distribution uniform
	limit := (uint64(1) << 32) / span * span

	var buf [4]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			panic("crypto/rand unavailable: " + err.Error())
		}
		v := uint64(binary.BigEndian.Uint32(buf[:]))
		if v < limit {
			return uint32(uint64(MinCode) + v%span)
		}
	}
}

// nextCode draws codes until one differs from current
func nextCode(gen func() uint32, current uint32) uint32 {
	for {
		if c := gen(); c != current {
			return c
		}
	}
}
