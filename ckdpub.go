package rangehunter

import "fmt"

// XPub is an extended public key: an affine secp256k1 point plus
// the 32-byte chain code it was derived alongside, the minimal state
// CKDpub needs to derive further non-hardened children.
type XPub struct {
	Point     AffinePoint
	ChainCode [32]byte
}

// ckdpubMessageLen is the fixed length of the HMAC message CKDpub
// hashes: a 33-byte compressed parent point followed by a 4-byte
// big-endian child index.
const ckdpubMessageLen = 37

// CKDpub derives the non-hardened child at the given index from a
// parent extended public key: compress the parent point, HMAC-SHA512
// it (keyed by the parent chain code) together with the big-endian
// index, split the 64-byte output into I_L/I_R, and return
// (I_L*G + K_par, I_R) as the child.
//
// index must be < 2^31 (non-hardened); CKDpub never rejects an
// out-of-range index, since the search kernel only ever calls it with
// values produced by its own counter decomposition.
func CKDpub(parent XPub, index uint32) (XPub, error) {
	if index >= nonHardenedCount {
		return XPub{}, fmt.Errorf("rangehunter: CKDpub index %d is not a non-hardened child index", index)
	}

	compressed := compressPoint(parent.Point)

	var msg [ckdpubMessageLen]byte
	copy(msg[:33], compressed[:])
	writeBE32(msg[33:], index)

	i := hmacSha512K32M37(parent.ChainCode, msg)

	var iL [32]byte
	copy(iL[:], i[:32])
	var iR [32]byte
	copy(iR[:], i[32:])

	ilScalar := u256FromBytes(iL[:])
	ilPoint := gTimesScalar(ilScalar)
	childPoint := affineAdd(ilPoint, parent.Point)

	return XPub{Point: childPoint, ChainCode: iR}, nil
}

// childAddress derives the child at index and returns its HASH160,
// the value the batch search kernel compares against cached ranges.
func childAddress(parent XPub, index uint32) ([20]byte, error) {
	child, err := CKDpub(parent, index)
	if err != nil {
		return [20]byte{}, err
	}
	compressed := compressPoint(child.Point)
	return hash160_33(compressed), nil
}
