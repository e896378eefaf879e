package perm

// Perm3 is a permutation of {0,1,2}, stored as its index in the sign-alternating ordering of S3.
type Perm3 uint8

// Perm3 codes; even codes are even permutations.
const (
	Code012 Perm3 = iota
	Code021
	Code120
	Code102
	Code201
	Code210

	NumPerm3 = 6
)

var perm3Images = [NumPerm3][3]uint8{
	{0, 1, 2},
	{0, 2, 1},
	{1, 2, 0},
	{1, 0, 2},
	{2, 0, 1},
	{2, 1, 0},
}

var (
	perm3Product [NumPerm3][NumPerm3]Perm3
	perm3Inverse [NumPerm3]Perm3
)

func init() {
	for a := Perm3(0); a < NumPerm3; a++ {
		for b := Perm3(0); b < NumPerm3; b++ {
			var img [3]uint8
			for i := 0; i < 3; i++ {
				img[i] = perm3Images[a][perm3Images[b][i]]
			}
			c := perm3FromImages(img)
			perm3Product[a][b] = c
			if c == Code012 {
				perm3Inverse[a] = b
			}
		}
	}
}

func perm3FromImages(img [3]uint8) Perm3 {
	for c, im := range perm3Images {
		if im == img {
			return Perm3(c)
		}
	}
	panic("perm: not a permutation of {0,1,2}")
}

// NewPerm3 returns the permutation mapping 0,1,2 to a0,a1,a2.
func NewPerm3(a0, a1, a2 int) Perm3 {
	return perm3FromImages([3]uint8{uint8(a0), uint8(a1), uint8(a2)})
}

// IsPermCode returns true if code is a valid Perm3 code.
func IsPermCode(code int) bool {
	return code >= 0 && code < NumPerm3
}

// Perm3FromCode returns the permutation with the given code.
func Perm3FromCode(code int) Perm3 {
	return Perm3(code)
}

// Code returns the permutation code of p (0..5).
func (p Perm3) Code() int {
	return int(p)
}

func (p Perm3) At(i int) int {
	return int(perm3Images[p][i])
}

// Compose returns p∘q.
func (p Perm3) Compose(q Perm3) Perm3 {
	return perm3Product[p][q]
}

func (p Perm3) Inverse() Perm3 {
	return perm3Inverse[p]
}

func (p Perm3) Sign() int {
	if p&1 == 0 {
		return 1
	}
	return -1
}

func (p Perm3) IsIdentity() bool {
	return p == Code012
}

func (p Perm3) String() string {
	img := perm3Images[p]
	return string([]byte{'0' + img[0], '0' + img[1], '0' + img[2]})
}

// Contract restricts a Perm5 that maps {0,1,2} onto itself to a Perm3.
func Contract(p Perm5) Perm3 {
	return NewPerm3(p.At(0), p.At(1), p.At(2))
}
