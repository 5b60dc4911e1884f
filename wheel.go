package erato

// NumbersPerByte is the count of consecutive integers folded into a
// single wheel-30 byte: all multiples of 2, 3 and 5 are discarded, so
// only the 8 residues below survive per 30 numbers.
const NumbersPerByte = 30

// bitValue[b] is the integer offset represented by bit b of a
// wheel-30 byte whose first number is 30-aligned. The final entry, 31,
// is deliberate: it lets a byte boundary double as a wheel boundary by
// storing the next byte's "residue 1" number redundantly in the
// current byte's high bit.
var bitValue = [8]uint8{7, 11, 13, 17, 19, 23, 29, 31}

// coprimeResidue lists, in ascending order, the residues mod 30 that
// are coprime to 2, 3 and 5. Successive multiples of any prime p > 5
// that survive the wheel land on these residues in the same cyclic
// order, scaled by p.
var coprimeResidue = [8]uint8{1, 7, 11, 13, 17, 19, 23, 29}

// wheelGap[i] is the distance from coprimeResidue[i] to the next
// coprime residue, wrapping from 29 back to 31 (i.e. the next block's
// residue 1). Multiplying wheelGap[i] by a sieving prime p gives the
// exact distance from one wheel-aligned multiple of p to the next.
var wheelGap = [8]uint8{6, 4, 2, 4, 2, 4, 6, 2}

// residueToWheelIndex maps a coprime residue mod 30 to its position in
// coprimeResidue. Residues not coprime to 30 map to -1.
var residueToWheelIndex = buildResidueToWheelIndex()

// residueToBit maps a residue mod 30 in {7,11,13,17,19,23,29} to the
// bit position (0..6) it occupies within its own byte. Residue 1 is
// handled separately: it always belongs to bit 7 of the *previous*
// byte, see byteAndBit.
var residueToBit = buildResidueToBit()

func buildResidueToWheelIndex() [30]int8 {
	var t [30]int8
	for i := range t {
		t[i] = -1
	}
	for i, r := range coprimeResidue {
		t[r] = int8(i)
	}
	return t
}

func buildResidueToBit() [30]int8 {
	var t [30]int8
	for i := range t {
		t[i] = -1
	}
	for b, v := range bitValue[:7] {
		t[v] = int8(b)
	}
	return t
}

// byteRemainder returns n mod 30, rebiased so that a remainder of 0 or
// 1 becomes 30 or 31. Subtracting the result from n always yields a
// 30-aligned number that is not itself a multiple of 2, 3 or 5 away
// from the first candidate inside the byte that starts there.
func byteRemainder(n uint64) uint64 {
	r := n % 30
	if r <= 1 {
		r += 30
	}
	return r
}

// byteAndBit decomposes delta, an offset in whole numbers from a
// 30-aligned segment origin, into the byte index and bit position of
// the wheel-30 bitmap that represents it. delta must correspond to a
// number coprime to 2, 3 and 5, i.e. delta%30 must be one of
// coprimeResidue; callers that only ever advance by wheelGap*p
// multiples maintain that invariant automatically.
func byteAndBit(delta uint64) (byteIdx uint64, bit uint8) {
	k := delta / NumbersPerByte
	r := delta % NumbersPerByte
	if r == 1 {
		// The "residue 1" number belongs to the byte before it: bit 7
		// of byte k-1 represents 30*k+1, see bitValue's trailing 31.
		return k - 1, 7
	}
	return k, uint8(residueToBit[r])
}

// firstBit returns the bit position within p's own starting byte,
// derived from p mod 30. Nothing in this package calls it: Engine
// restores pre-sieved primes by setting the first segment's byte 0 to
// 0xff rather than bit by bit.
func firstBit(p uint64) uint8 {
	r := p % NumbersPerByte
	if r == 1 {
		return 7
	}
	return uint8(residueToBit[r])
}

// firstWheelIndex returns the phase (0..7, an index into
// coprimeResidue) that a coprime multiplier k occupies, based on
// k mod 30. It seeds a sieving prime's wheelIndex once its first
// crossable multiple has been located.
func firstWheelIndex(k uint64) uint8 {
	return uint8(residueToWheelIndex[k%NumbersPerByte])
}
