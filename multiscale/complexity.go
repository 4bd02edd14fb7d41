package multiscale

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// CrossTerm is the elementwise product of the coarse-grained arrays at
// scales k1 and k2, the O_{k1,k2} object of the paper.
func CrossTerm(img mat.Matrix, k1, k2 int) *mat.Dense {
	return crossTerm(CoarseGrain(img, k1), CoarseGrain(img, k2))
}

func crossTerm(a, b *mat.Dense) *mat.Dense {
	out := &mat.Dense{}
	out.MulElem(a, b)
	return out
}

// Lambda returns the per-scale term C_λ(k): the mean over all pixels of
// |O(k+1,k) - (O(k,k) + O(k+1,k+1))/2|.
func Lambda(img mat.Matrix, k int) float64 {
	return lambda(CoarseGrain(img, k), CoarseGrain(img, k+1))
}

func lambda(fine, coarse *mat.Dense) float64 {
	mixed := crossTerm(coarse, fine)

	avg := &mat.Dense{}
	avg.Add(crossTerm(fine, fine), crossTerm(coarse, coarse))
	avg.Scale(0.5, avg)

	diff := &mat.Dense{}
	diff.Sub(mixed, avg)

	r, c := diff.Dims()
	return floats.Norm(diff.RawMatrix().Data, 1) / float64(r*c)
}

// Profile validates the input and returns C_λ(k) for every k in
// [kLargerThan, kMax), in ascending order.
func Profile(img mat.Matrix, kLargerThan, kMax int) ([]float64, error) {
	err := Validate(img, kLargerThan, kMax)
	if err != nil {
		return nil, err
	}

	// each scale is shared by two neighbouring terms; keep only the last one
	prev := CoarseGrain(img, kLargerThan)

	terms := make([]float64, 0, kMax-kLargerThan)
	for k := kLargerThan; k < kMax; k++ {
		next := CoarseGrain(img, k+1)
		terms = append(terms, lambda(prev, next))
		prev = next
	}

	return terms, nil
}

// StructuralComplexity computes C = Σ C_λ(k) over k in [kLargerThan, kMax)
// as defined in Bagrov et al., "Multiscale structural complexity of natural
// patterns" (10.1073/pnas.2004976117). img must be square with a power of
// two side, with values normalized into [-1, 1].
func StructuralComplexity(img mat.Matrix, kLargerThan, kMax int) (float64, error) {
	terms, err := Profile(img, kLargerThan, kMax)
	if err != nil {
		return 0, err
	}

	c := 0.0
	for _, t := range terms {
		c += t
	}
	return c, nil
}
