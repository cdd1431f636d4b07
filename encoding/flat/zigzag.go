package flat

import "math/big"

var one = big.NewInt(1)

// zigZag maps a signed integer onto the naturals:
// 0 -> 0, -1 -> 1, 1 -> 2, -2 -> 3, ...
func zigZag(n *big.Int) *big.Int {
	res := new(big.Int)
	if n.Sign() >= 0 {
		return res.Lsh(n, 1)
	}
	res.Lsh(n, 1)
	res.Neg(res)
	return res.Sub(res, one)
}

// unZigZag is the inverse of zigZag.
func unZigZag(u *big.Int) *big.Int {
	res := new(big.Int).Rsh(u, 1)
	if u.Bit(0) == 1 {
		res.Neg(res)
		res.Sub(res, one)
	}
	return res
}
