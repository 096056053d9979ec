package rangehunter

import (
	"encoding/binary"

	sha256simd "github.com/minio/sha256-simd"
)

// This file implements the fixed single/double-block hash primitives
// the kernel needs: none of them accept variable-length input, because
// every caller in the search pipeline only ever hashes one of a handful
// of known-length buffers (a 33-byte compressed point, or a 37/64-byte
// HMAC message).

// sha256_33 hashes exactly 33 bytes (a compressed secp256k1 point) and
// returns the 32-byte digest via the accelerated sha256-simd one-shot
// entry point.
func sha256_33(in [33]byte) [32]byte {
	return sha256simd.Sum256(in[:])
}

// ripemd160State holds the five 32-bit working registers of RIPEMD-160.
type ripemd160State struct {
	h [5]uint32
}

var ripemd160IV = [5]uint32{0x67452301, 0xefcdab89, 0x98badcfe, 0x10325476, 0xc3d2e1f0}

func rol32(x uint32, n uint) uint32 {
	return (x << n) | (x >> (32 - n))
}

var ripemd160rL = [80]uint{
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
	7, 4, 13, 1, 10, 6, 15, 3, 12, 0, 9, 5, 2, 14, 11, 8,
	3, 10, 14, 4, 9, 15, 8, 1, 2, 7, 0, 6, 13, 11, 5, 12,
	1, 9, 11, 10, 0, 8, 12, 4, 13, 3, 7, 15, 14, 5, 6, 2,
	4, 0, 5, 9, 7, 12, 2, 10, 14, 1, 3, 8, 11, 6, 15, 13,
}

var ripemd160rR = [80]uint{
	5, 14, 7, 0, 9, 2, 11, 4, 13, 6, 15, 8, 1, 10, 3, 12,
	6, 11, 3, 7, 0, 13, 5, 10, 14, 15, 8, 12, 4, 9, 1, 2,
	15, 5, 1, 3, 7, 14, 6, 9, 11, 8, 12, 2, 10, 0, 4, 13,
	8, 6, 4, 1, 3, 11, 15, 0, 5, 12, 2, 13, 9, 7, 10, 14,
	12, 15, 10, 4, 1, 5, 8, 7, 6, 2, 13, 14, 0, 3, 9, 11,
}

var ripemd160sL = [80]uint{
	11, 14, 15, 12, 5, 8, 7, 9, 11, 13, 14, 15, 6, 7, 9, 8,
	7, 6, 8, 13, 11, 9, 7, 15, 7, 12, 15, 9, 11, 7, 13, 12,
	11, 13, 6, 7, 14, 9, 13, 15, 14, 8, 13, 6, 5, 12, 7, 5,
	11, 12, 14, 15, 14, 15, 9, 8, 9, 14, 5, 6, 8, 6, 5, 12,
	9, 15, 5, 11, 6, 8, 13, 12, 5, 12, 13, 14, 11, 8, 5, 6,
}

var ripemd160sR = [80]uint{
	8, 9, 9, 11, 13, 15, 15, 5, 7, 7, 8, 11, 14, 14, 12, 6,
	9, 13, 15, 7, 12, 8, 9, 11, 7, 7, 12, 7, 6, 15, 13, 11,
	9, 7, 15, 11, 8, 6, 6, 14, 12, 13, 5, 14, 13, 13, 7, 5,
	15, 5, 8, 11, 14, 14, 6, 14, 6, 9, 12, 9, 12, 5, 15, 8,
	8, 5, 12, 9, 12, 5, 14, 6, 8, 13, 6, 5, 15, 13, 11, 11,
}

var ripemd160kL = [5]uint32{0x00000000, 0x5a827999, 0x6ed9eba1, 0x8f1bbcdc, 0xa953fd4e}
var ripemd160kR = [5]uint32{0x50a28be6, 0x5c4dd124, 0x6d703ef3, 0x7a6d76e9, 0x00000000}

func ripemd160f(j int, x, y, z uint32) uint32 {
	switch {
	case j < 16:
		return x ^ y ^ z
	case j < 32:
		return (x & y) | (^x & z)
	case j < 48:
		return (x | ^y) ^ z
	case j < 64:
		return (x & z) | (y & ^z)
	default:
		return x ^ (y | ^z)
	}
}

// ripemd160Block runs the 80-round dual-line RIPEMD-160 compression
// function over one 64-byte block, updating state in place.
func ripemd160Block(st *ripemd160State, block [64]byte) {
	var x [16]uint32
	for i := 0; i < 16; i++ {
		x[i] = binary.LittleEndian.Uint32(block[i*4:])
	}

	al, bl, cl, dl, el := st.h[0], st.h[1], st.h[2], st.h[3], st.h[4]
	ar, br, cr, dr, er := st.h[0], st.h[1], st.h[2], st.h[3], st.h[4]

	for j := 0; j < 80; j++ {
		round := j / 16
		t := rol32(al+ripemd160f(j, bl, cl, dl)+x[ripemd160rL[j]]+ripemd160kL[round], ripemd160sL[j]) + el
		al, el, dl, cl, bl = el, dl, rol32(cl, 10), bl, t

		tr := rol32(ar+ripemd160f(79-j, br, cr, dr)+x[ripemd160rR[j]]+ripemd160kR[round], ripemd160sR[j]) + er
		ar, er, dr, cr, br = er, dr, rol32(cr, 10), br, tr
	}

	t := st.h[1] + cl + dr
	st.h[1] = st.h[2] + dl + er
	st.h[2] = st.h[3] + el + ar
	st.h[3] = st.h[4] + al + br
	st.h[4] = st.h[0] + bl + cr
	st.h[0] = t
}

// ripemd160_32 hashes exactly 32 bytes (a SHA-256 digest) and returns
// the 20-byte RIPEMD-160 digest. The single 64-byte block is built
// directly from the fixed input length: 32 bytes of message, the 0x80
// terminator, 23 zero bytes of padding, and an 8-byte little-endian bit
// length (32*8 = 256 bits).
func ripemd160_32(in [32]byte) [20]byte {
	var block [64]byte
	copy(block[:32], in[:])
	block[32] = 0x80
	binary.LittleEndian.PutUint64(block[56:], 256)

	st := ripemd160State{h: ripemd160IV}
	ripemd160Block(&st, block)

	var out [20]byte
	for i, h := range st.h {
		binary.LittleEndian.PutUint32(out[i*4:], h)
	}
	return out
}

// hash160_33 computes RIPEMD160(SHA256(x)) over a 33-byte compressed
// point.
func hash160_33(in [33]byte) [20]byte {
	sha := sha256_33(in)
	return ripemd160_32(sha)
}

// sha512 block-level state and constants, reused by both fixed-length
// entry points below.
var sha512IV = [8]uint64{
	0x6a09e667f3bcc908, 0xbb67ae8584caa73b, 0x3c6ef372fe94f82b, 0xa54ff53a5f1d36f1,
	0x510e527fade682d1, 0x9b05688c2b3e6c1f, 0x1f83d9abfb41bd6b, 0x5be0cd19137e2179,
}

var sha512K = [80]uint64{
	0x428a2f98d728ae22, 0x7137449123ef65cd, 0xb5c0fbcfec4d3b2f, 0xe9b5dba58189dbbc,
	0x3956c25bf348b538, 0x59f111f1b605d019, 0x923f82a4af194f9b, 0xab1c5ed5da6d8118,
	0xd807aa98a3030242, 0x12835b0145706fbe, 0x243185be4ee4b28c, 0x550c7dc3d5ffb4e2,
	0x72be5d74f27b896f, 0x80deb1fe3b1696b1, 0x9bdc06a725c71235, 0xc19bf174cf692694,
	0xe49b69c19ef14ad2, 0xefbe4786384f25e3, 0x0fc19dc68b8cd5b5, 0x240ca1cc77ac9c65,
	0x2de92c6f592b0275, 0x4a7484aa6ea6e483, 0x5cb0a9dcbd41fbd4, 0x76f988da831153b5,
	0x983e5152ee66dfab, 0xa831c66d2db43210, 0xb00327c898fb213f, 0xbf597fc7beef0ee4,
	0xc6e00bf33da88fc2, 0xd5a79147930aa725, 0x06ca6351e003826f, 0x142929670a0e6e70,
	0x27b70a8546d22ffc, 0x2e1b21385c26c926, 0x4d2c6dfc5ac42aed, 0x53380d139d95b3df,
	0x650a73548baf63de, 0x766a0abb3c77b2a8, 0x81c2c92e47edaee6, 0x92722c851482353b,
	0xa2bfe8a14cf10364, 0xa81a664bbc423001, 0xc24b8b70d0f89791, 0xc76c51a30654be30,
	0xd192e819d6ef5218, 0xd69906245565a910, 0xf40e35855771202a, 0x106aa07032bbd1b8,
	0x19a4c116b8d2d0c8, 0x1e376c085141ab53, 0x2748774cdf8eeb99, 0x34b0bcb5e19b48a8,
	0x391c0cb3c5c95a63, 0x4ed8aa4ae3418acb, 0x5b9cca4f7763e373, 0x682e6ff3d6b2b8a3,
	0x748f82ee5defb2fc, 0x78a5636f43172f60, 0x84c87814a1f0ab72, 0x8cc702081a6439ec,
	0x90befffa23631e28, 0xa4506cebde82bde9, 0xbef9a3f7b2c67915, 0xc67178f2e372532b,
	0xca273eceea26619c, 0xd186b8c721c0c207, 0xeada7dd6cde0eb1e, 0xf57d4f7fee6ed178,
	0x06f067aa72176fba, 0x0a637dc5a2c898a6, 0x113f9804bef90dae, 0x1b710b35131c471b,
	0x28db77f523047d84, 0x32caab7b40c72493, 0x3c9ebe0a15c9bebc, 0x431d67c49c100d4c,
	0x4cc5d4becb3e42b6, 0x597f299cfc657e2a, 0x5fcb6fab3ad6faec, 0x6c44198c4a475817,
}

func rotr64(x uint64, n uint) uint64 { return (x >> n) | (x << (64 - n)) }

// sha512Block runs one 128-byte SHA-512 compression round, updating
// state in place.
func sha512Block(h *[8]uint64, block [128]byte) {
	var w [80]uint64
	for i := 0; i < 16; i++ {
		w[i] = binary.BigEndian.Uint64(block[i*8:])
	}
	for i := 16; i < 80; i++ {
		s0 := rotr64(w[i-15], 1) ^ rotr64(w[i-15], 8) ^ (w[i-15] >> 7)
		s1 := rotr64(w[i-2], 19) ^ rotr64(w[i-2], 61) ^ (w[i-2] >> 6)
		w[i] = w[i-16] + s0 + w[i-7] + s1
	}

	a, b, c, d, e, f, g, hh := h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7]
	for i := 0; i < 80; i++ {
		S1 := rotr64(e, 14) ^ rotr64(e, 18) ^ rotr64(e, 41)
		ch := (e & f) ^ (^e & g)
		temp1 := hh + S1 + ch + sha512K[i] + w[i]
		S0 := rotr64(a, 28) ^ rotr64(a, 34) ^ rotr64(a, 39)
		maj := (a & b) ^ (a & c) ^ (b & c)
		temp2 := S0 + maj

		hh, g, f, e, d, c, b, a = g, f, e, d+temp1, c, b, a, temp1+temp2
	}

	h[0] += a
	h[1] += b
	h[2] += c
	h[3] += d
	h[4] += e
	h[5] += f
	h[6] += g
	h[7] += hh
}

// sha512_165 hashes exactly 165 bytes (one HMAC inner key-block plus a
// 37-byte CKDpub message) across two 128-byte blocks: the first block
// is the first 128 message bytes, the second block holds the
// remaining 37 bytes, the 0x80 terminator, zero padding, and a 16-byte
// big-endian bit length (165*8 = 1320 bits).
func sha512_165(in [165]byte) [64]byte {
	h := sha512IV

	var block0 [128]byte
	copy(block0[:], in[:128])
	sha512Block(&h, block0)

	var block1 [128]byte
	copy(block1[:37], in[128:165])
	block1[37] = 0x80
	binary.BigEndian.PutUint64(block1[120:], 1320)
	sha512Block(&h, block1)

	return packSha512(h)
}

// sha512_192 hashes exactly 192 bytes (a 128-byte outer key block plus
// a 64-byte inner SHA-512 digest) across two 128-byte blocks: the first
// block is the key block, the second is the inner digest, the 0x80
// terminator, zero padding, and a 16-byte big-endian bit length
// (192*8 = 1536 bits).
func sha512_192(in [192]byte) [64]byte {
	h := sha512IV

	var block0 [128]byte
	copy(block0[:], in[:128])
	sha512Block(&h, block0)

	var block1 [128]byte
	copy(block1[:64], in[128:192])
	block1[64] = 0x80
	binary.BigEndian.PutUint64(block1[120:], 1536)
	sha512Block(&h, block1)

	return packSha512(h)
}

func packSha512(h [8]uint64) [64]byte {
	var out [64]byte
	for i, v := range h {
		binary.BigEndian.PutUint64(out[i*8:], v)
	}
	return out
}

// hmacIPAD and hmacOPAD are the standard HMAC padding constants, XORed
// byte-for-byte against a zero-padded 128-byte key block, never against
// a variable-length key (the key in this pipeline is always the
// 32-byte chain code).
const hmacIPAD = 0x36
const hmacOPAD = 0x5c

// hmacSha512K32M37 computes HMAC-SHA512 with a 32-byte key and a fixed
// 37-byte message (a parent chain code and a compressed point plus a
// big-endian child index, per CKDpub). The inner hash runs over a
// 165-byte buffer (128-byte padded-key-XOR-ipad block plus the 37-byte
// message); the outer hash runs over a 192-byte buffer (128-byte
// padded-key-XOR-opad block plus the 64-byte inner digest).
func hmacSha512K32M37(key [32]byte, msg [37]byte) [64]byte {
	var keyBlock [128]byte
	copy(keyBlock[:32], key[:])

	var innerKey, outerKey [128]byte
	for i := 0; i < 128; i++ {
		innerKey[i] = keyBlock[i] ^ hmacIPAD
		outerKey[i] = keyBlock[i] ^ hmacOPAD
	}

	var innerMsg [165]byte
	copy(innerMsg[:128], innerKey[:])
	copy(innerMsg[128:], msg[:])
	innerDigest := sha512_165(innerMsg)

	var outerMsg [192]byte
	copy(outerMsg[:128], outerKey[:])
	copy(outerMsg[128:], innerDigest[:])
	return sha512_192(outerMsg)
}
