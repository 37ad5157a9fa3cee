// Package crc24 implements the 24-bit cyclic redundancy check used by OpenPGP armor.
//
// See RFC 4880, section 6.1.
package crc24

import "hash"

const (
	// Size is the size of a CRC24 checksum in bytes.
	Size = 3

	// Init is the initial value of the accumulator.
	Init = 0xB704CE

	poly = 0x1864CFB
	mask = 0xFFFFFF
)

// Digest is a running CRC24 checksum.
type Digest struct {
	crc uint32
}

// New returns a new Digest seeded with Init.
func New() *Digest {
	return &Digest{crc: Init}
}

// Checksum returns the CRC24 of b.
func Checksum(b []byte) uint32 {
	return update(Init, b)
}

// Write folds p into the checksum. It never returns an error.
func (d *Digest) Write(p []byte) (int, error) {
	d.crc = update(d.crc, p)

	return len(p), nil
}

// Sum24 returns the current checksum.
func (d *Digest) Sum24() uint32 {
	return d.crc & mask
}

// Sum32 returns the current checksum. Only the low 24 bits are ever set.
func (d *Digest) Sum32() uint32 {
	return d.Sum24()
}

// Sum appends the big-endian checksum to b and returns the result.
func (d *Digest) Sum(b []byte) []byte {
	s := d.Sum24()

	return append(b, byte(s>>16), byte(s>>8), byte(s))
}

// Reset restores the accumulator to Init.
func (d *Digest) Reset() {
	d.crc = Init
}

// Size returns Size.
func (d *Digest) Size() int {
	return Size
}

// BlockSize returns 1.
func (d *Digest) BlockSize() int {
	return 1
}

// Bytes returns the current checksum as a fixed-size big-endian array.
func (d *Digest) Bytes() [Size]byte {
	s := d.Sum24()

	return [Size]byte{byte(s >> 16), byte(s >> 8), byte(s)}
}

func update(crc uint32, p []byte) uint32 {
	for _, b := range p {
		crc ^= uint32(b) << 16

		for i := 0; i < 8; i++ {
			crc <<= 1
			if crc&0x1000000 != 0 {
				crc ^= poly
			}
		}
	}

	return crc & mask
}

var _ hash.Hash32 = &Digest{}
