// SPDX-License-Identifier: GPL-3.0-or-later

package minestat

import "io"

// maxVarintBytes is the longest varint the JSON dialect framing may carry.
const maxVarintBytes = 5

// DecodeVarint reads a little-endian base-128 varint from r.
//
// It returns the value and the number of bytes consumed. If r runs dry
// before a terminal byte the value is 0, so callers must validate a 0
// against context. After five continuation bytes decoding stops and the
// accumulated value is returned, truncated to 32 bits; the rest of the
// sequence is left unread.
func DecodeVarint(r io.ByteReader) (value int32, n int) {
	var acc uint32
	for n < maxVarintBytes {
		b, err := r.ReadByte()
		if err != nil {
			return 0, n
		}
		acc |= uint32(b&0x7f) << (7 * n)
		n++
		if b&0x80 == 0 {
			break
		}
	}
	return int32(acc), n
}

// AppendVarint appends the varint encoding of v to dst.
//
// Negative values take five bytes.
func AppendVarint(dst []byte, v int32) []byte {
	ux := uint32(v)
	for ux >= 0x80 {
		dst = append(dst, byte(ux)|0x80)
		ux >>= 7
	}
	return append(dst, byte(ux))
}
