package calc

import "errors"

func Classify(a int) string {
	if a == 3 {
		return "three"
	} else if a < 0 {
		return "negative"
	} else {
		return "other"
	}
}

func Sign(n int) int {
	if n > 0 {
		return 1
	}
	if n < 0 {
		return -1
	}
	return 0
}

func Half(n int) (int, error) {
	if n < 0 {
		return 0, errors.New("negative input")
	}
	if n == 7 {
		panic("seven")
	}
	return n / 2, nil
}

func Double(x int) int {
	y := x * 2
	return y
}

func Sum(n int) int {
	total := 0
	for i := 0; i < n; i++ {
		total += i
	}
	return total
}

type counter struct{ n int }

func (c *counter) Inc(by int) {
	c.n += by
}
