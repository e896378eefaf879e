package perm

// NumPerm4 is the size of S4.
const NumPerm4 = 24

var (
	// OrderedS5 lists all of S5 in lexicographic order of image sequences.
	OrderedS5 [NumPerm5]Perm5

	// S5 lists all of S5 so that even indices hold even permutations.
	// S5[i] is OrderedS5[i] or OrderedS5[i^1].
	S5 [NumPerm5]Perm5

	// OrderedS4 lists the permutations of {0,1,2,3} (fixing 4) in lexicographic order.
	OrderedS4 [NumPerm4]Perm5

	// S4 lists the permutations of {0,1,2,3} (fixing 4) so that even indices hold even permutations.
	// This is the ordering gluing permutation indices refer to.
	S4 [NumPerm4]Perm5

	// S4Inv[i] is the index in S4 of S4[i]^-1.
	S4Inv [NumPerm4]int

	s5IndexOf        [1 << (5 * imageBits)]uint8
	orderedS5IndexOf [1 << (5 * imageBits)]uint8
	s4IndexOf        [1 << (5 * imageBits)]uint8
)

func init() {
	n := 0
	var img [5]int
	var used [5]bool
	var gen func(depth int)
	gen = func(depth int) {
		if depth == 5 {
			OrderedS5[n] = NewPerm5(img[0], img[1], img[2], img[3], img[4])
			n++
			return
		}
		for v := 0; v < 5; v++ {
			if used[v] {
				continue
			}
			used[v] = true
			img[depth] = v
			gen(depth + 1)
			used[v] = false
		}
	}
	gen(0)

	for i, p := range OrderedS5 {
		orderedS5IndexOf[p] = uint8(i)
	}
	alternate(OrderedS5[:], S5[:])
	for i, p := range S5 {
		s5IndexOf[p] = uint8(i)
	}

	// Filtering keeps lexicographic order.
	n = 0
	for _, p := range OrderedS5 {
		if p.At(4) == 4 {
			OrderedS4[n] = p
			n++
		}
	}
	alternate(OrderedS4[:], S4[:])
	for i, p := range S4 {
		s4IndexOf[p] = uint8(i)
	}
	for i, p := range S4 {
		S4Inv[i] = int(s4IndexOf[p.Inverse()])
	}
}

// alternate fills dst from the lexicographic list src so that dst[i] has sign (-1)^i.
// Neighbouring pairs in lexicographic order differ by a transposition, so one of them always fits.
func alternate(src, dst []Perm5) {
	for i := range src {
		wantEven := i&1 == 0
		if (src[i].Sign() > 0) == wantEven {
			dst[i] = src[i]
		} else {
			dst[i] = src[i^1]
		}
	}
}
