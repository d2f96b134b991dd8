// Copyright © 2023-2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package compo

// Letters of the standard protein alphabet, in the order of their codes.
const Letters = "-ABCDEFGHIKLMNPQRSTVWXYZU*"

// AlphabetSize is the size of the standard alphabet.
const AlphabetSize = len(Letters)

// NumTrueAA is the number of true amino acids.
const NumTrueAA = 20

// TrueAA lists true amino acids in the order used by 20-letter vectors
// and matrices.
const TrueAA = "ARNDCQEGHILKMFPSTWYV"

// codes of some letters in the standard alphabet.
const (
	Gap      = 0
	Bchar    = 2
	Cchar    = 3
	Dchar    = 4
	Echar    = 5
	Nchar    = 13
	Qchar    = 15
	Xchar    = 21
	Zchar    = 23
	Uchar    = 24 // selenocysteine
	StopChar = 25
)

// alphaConvert maps standard codes to 20-letter indexes, -1 for others.
var alphaConvert [AlphabetSize]int

// trueCharPositions maps 20-letter indexes to standard codes.
var trueCharPositions [NumTrueAA]int

var letter2code [256]byte

func init() {
	for i := range alphaConvert {
		alphaConvert[i] = -1
	}
	var c int
	for i := 0; i < NumTrueAA; i++ {
		for c = 0; c < AlphabetSize; c++ {
			if Letters[c] == TrueAA[i] {
				break
			}
		}
		alphaConvert[c] = i
		trueCharPositions[i] = c
	}

	for i := range letter2code {
		letter2code[i] = Xchar
	}
	for c := 0; c < AlphabetSize; c++ {
		letter2code[Letters[c]] = byte(c)
		if Letters[c] >= 'A' && Letters[c] <= 'Z' {
			letter2code[Letters[c]+'a'-'A'] = byte(c)
		}
	}
}

// Encode converts residues into standard codes. Unknown letters become X.
// The buffer is reused if it is large enough.
func Encode(seq []byte, buf []byte) []byte {
	if cap(buf) < len(seq) {
		buf = make([]byte, len(seq))
	}
	buf = buf[:len(seq)]
	for i, b := range seq {
		buf[i] = letter2code[b]
	}
	return buf
}

// IsTrueAA tells if a standard code is one of the 20 true amino acids.
func IsTrueAA(code byte) bool {
	return int(code) < AlphabetSize && alphaConvert[code] >= 0
}

// GatherLetterProbs collects probabilities of true amino acids from a
// vector in the standard alphabet.
func GatherLetterProbs(std []float64) [NumTrueAA]float64 {
	var p [NumTrueAA]float64
	for i, c := range trueCharPositions {
		p[i] = std[c]
	}
	return p
}

// unpackLetterProbs spreads 20-letter probabilities into the standard
// alphabet, with B = D + N and Z = E + Q.
func unpackLetterProbs(p *[NumTrueAA]float64) [AlphabetSize]float64 {
	var std [AlphabetSize]float64
	for i, c := range trueCharPositions {
		std[c] = p[i]
	}
	std[Bchar] = std[Dchar] + std[Nchar]
	std[Zchar] = std[Echar] + std[Qchar]
	return std
}
