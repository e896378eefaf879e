package perm

import "strings"

// Perm5 is a permutation of {0,1,2,3,4}.
// The image of i is held in bits 3i..3i+2, so only the low 15 bits are used.
type Perm5 uint16

const (
	imageBits = 3
	imageMask = 1<<imageBits - 1

	// Identity5 maps every i to itself.
	Identity5 Perm5 = 0 | 1<<3 | 2<<6 | 3<<9 | 4<<12

	// NumPerm5 is the size of S5.
	NumPerm5 = 120
)

// NewPerm5 returns the permutation mapping i to images[i].
// The caller asserts that images is a permutation of 0..4.
func NewPerm5(a0, a1, a2, a3, a4 int) Perm5 {
	return Perm5(a0 | a1<<3 | a2<<6 | a3<<9 | a4<<12)
}

// Transposition5 swaps a and b and fixes everything else.
// When a == b this is the identity.
func Transposition5(a, b int) Perm5 {
	if a == b {
		return Identity5
	}
	var img [5]int
	for i := range img {
		img[i] = i
	}
	img[a], img[b] = b, a
	return NewPerm5(img[0], img[1], img[2], img[3], img[4])
}

// At returns the image of i.
func (p Perm5) At(i int) int {
	return int(p>>(imageBits*uint(i))) & imageMask
}

// PreImageOf returns the i such that p[i] == v.
func (p Perm5) PreImageOf(v int) int {
	for i := 0; i < 5; i++ {
		if p.At(i) == v {
			return i
		}
	}
	return -1
}

// Compose returns p∘q, the permutation i -> p[q[i]].
func (p Perm5) Compose(q Perm5) Perm5 {
	var r Perm5
	for i := 0; i < 5; i++ {
		r |= Perm5(p.At(q.At(i))) << (imageBits * uint(i))
	}
	return r
}

// Inverse returns p^-1.
func (p Perm5) Inverse() Perm5 {
	var r Perm5
	for i := 0; i < 5; i++ {
		r |= Perm5(i) << (imageBits * uint(p.At(i)))
	}
	return r
}

// Sign returns +1 for an even permutation and -1 for an odd one.
func (p Perm5) Sign() int {
	inversions := 0
	for i := 0; i < 5; i++ {
		pi := p.At(i)
		for j := i + 1; j < 5; j++ {
			if pi > p.At(j) {
				inversions++
			}
		}
	}
	if inversions&1 != 0 {
		return -1
	}
	return 1
}

// CompareWith compares the image sequences of p and q lexicographically.
// Returns -1, 0, or 1 if p is less than, equal to, or greater than q.
func (p Perm5) CompareWith(q Perm5) int {
	for i := 0; i < 5; i++ {
		pi, qi := p.At(i), q.At(i)
		if pi < qi {
			return -1
		}
		if pi > qi {
			return 1
		}
	}
	return 0
}

func (p Perm5) IsIdentity() bool {
	return p == Identity5
}

// IsPerm returns true if p is a valid image-pack encoding of a permutation.
func (p Perm5) IsPerm() bool {
	if p>>(5*imageBits) != 0 {
		return false
	}
	seen := 0
	for i := 0; i < 5; i++ {
		v := p.At(i)
		if v > 4 || seen&(1<<v) != 0 {
			return false
		}
		seen |= 1 << v
	}
	return true
}

// Index returns the position of p in S5.
func (p Perm5) Index() int {
	return int(s5IndexOf[p])
}

// OrderedIndex returns the position of p in OrderedS5.
func (p Perm5) OrderedIndex() int {
	return int(orderedS5IndexOf[p])
}

// S4Index returns the position in S4 of a permutation that fixes 4, or -1 if p moves 4.
func (p Perm5) S4Index() int {
	if p.At(4) != 4 {
		return -1
	}
	return int(s4IndexOf[p])
}

// String returns the images of 0..4 as a run of digits, e.g. "10234".
func (p Perm5) String() string {
	var b strings.Builder
	b.Grow(5)
	for i := 0; i < 5; i++ {
		b.WriteByte(byte('0' + p.At(i)))
	}
	return b.String()
}

// ParsePerm5 reads the digit form written by String.
func ParsePerm5(s string) (Perm5, bool) {
	if len(s) != 5 {
		return 0, false
	}
	var p Perm5
	for i := 0; i < 5; i++ {
		d := int(s[i]) - '0'
		if d < 0 || d > 4 {
			return 0, false
		}
		p |= Perm5(d) << (imageBits * uint(i))
	}
	if !p.IsPerm() {
		return 0, false
	}
	return p, true
}
