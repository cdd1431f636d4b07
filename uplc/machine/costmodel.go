package machine

import "github.com/spacebudz/aiken/uplc/builtins"

// Model is a costing function: given the abstract sizes of a builtin's
// arguments it yields a cost in one resource dimension. The shapes
// below mirror the ledger's cost model parameters, so a model is data
// that could be swapped out by a protocol update.
type Model interface {
	cost(sizes []int64) int64
}

// ConstantCost ignores argument sizes.
type ConstantCost struct {
	C int64
}

// LinearInX is linear in the size of the first argument.
type LinearInX struct {
	Intercept int64
	Slope     int64
}

// LinearInY is linear in the size of the second argument.
type LinearInY struct {
	Intercept int64
	Slope     int64
}

// LinearInZ is linear in the size of the third argument.
type LinearInZ struct {
	Intercept int64
	Slope     int64
}

// AddedSizes is linear in the sum of the first two sizes.
type AddedSizes struct {
	Intercept int64
	Slope     int64
}

// SubtractedSizes is linear in the difference of the first two sizes,
// floored at Minimum.
type SubtractedSizes struct {
	Intercept int64
	Slope     int64
	Minimum   int64
}

// MultipliedSizes is linear in the product of the first two sizes.
type MultipliedSizes struct {
	Intercept int64
	Slope     int64
}

// MinSize is linear in the smaller of the first two sizes.
type MinSize struct {
	Intercept int64
	Slope     int64
}

// MaxSize is linear in the larger of the first two sizes.
type MaxSize struct {
	Intercept int64
	Slope     int64
}

// LinearOnDiagonal is linear in the shared size when the first two
// sizes agree, and a constant otherwise.
type LinearOnDiagonal struct {
	Constant  int64
	Intercept int64
	Slope     int64
}

// ConstAboveDiagonal is a constant when the first size is below the
// second, deferring to Model on or below the diagonal.
type ConstAboveDiagonal struct {
	Constant int64
	Model    Model
}

// ConstBelowDiagonal is a constant when the first size exceeds the
// second, deferring to Model on or above the diagonal.
type ConstBelowDiagonal struct {
	Constant int64
	Model    Model
}

func arg(sizes []int64, i int) int64 {
	if i >= len(sizes) {
		return 0
	}
	return sizes[i]
}

func (m ConstantCost) cost([]int64) int64 { return m.C }

func (m LinearInX) cost(sizes []int64) int64 {
	return m.Intercept + m.Slope*arg(sizes, 0)
}

func (m LinearInY) cost(sizes []int64) int64 {
	return m.Intercept + m.Slope*arg(sizes, 1)
}

func (m LinearInZ) cost(sizes []int64) int64 {
	return m.Intercept + m.Slope*arg(sizes, 2)
}

func (m AddedSizes) cost(sizes []int64) int64 {
	return m.Intercept + m.Slope*(arg(sizes, 0)+arg(sizes, 1))
}

func (m SubtractedSizes) cost(sizes []int64) int64 {
	d := arg(sizes, 0) - arg(sizes, 1)
	if d < m.Minimum {
		d = m.Minimum
	}
	return m.Intercept + m.Slope*d
}

func (m MultipliedSizes) cost(sizes []int64) int64 {
	return m.Intercept + m.Slope*arg(sizes, 0)*arg(sizes, 1)
}

func (m MinSize) cost(sizes []int64) int64 {
	x, y := arg(sizes, 0), arg(sizes, 1)
	if y < x {
		x = y
	}
	return m.Intercept + m.Slope*x
}

func (m MaxSize) cost(sizes []int64) int64 {
	x, y := arg(sizes, 0), arg(sizes, 1)
	if y > x {
		x = y
	}
	return m.Intercept + m.Slope*x
}

func (m LinearOnDiagonal) cost(sizes []int64) int64 {
	x, y := arg(sizes, 0), arg(sizes, 1)
	if x == y {
		return m.Intercept + m.Slope*x
	}
	return m.Constant
}

func (m ConstAboveDiagonal) cost(sizes []int64) int64 {
	if arg(sizes, 0) < arg(sizes, 1) {
		return m.Constant
	}
	return m.Model.cost(sizes)
}

func (m ConstBelowDiagonal) cost(sizes []int64) int64 {
	if arg(sizes, 0) > arg(sizes, 1) {
		return m.Constant
	}
	return m.Model.cost(sizes)
}

// BuiltinCost couples the two resource dimensions of one builtin.
type BuiltinCost struct {
	CPU Model
	Mem Model
}

// MachineCosts prices the machine's own transitions.
type MachineCosts struct {
	Startup  ExBudget
	Var      ExBudget
	Constant ExBudget
	Lambda   ExBudget
	Delay    ExBudget
	Force    ExBudget
	Apply    ExBudget
	Builtin  ExBudget
	Constr   ExBudget
	Case     ExBudget
}

func (c MachineCosts) step(kind StepKind) ExBudget {
	switch kind {
	case StepVar:
		return c.Var
	case StepConstant:
		return c.Constant
	case StepLambda:
		return c.Lambda
	case StepDelay:
		return c.Delay
	case StepForce:
		return c.Force
	case StepApply:
		return c.Apply
	case StepBuiltin:
		return c.Builtin
	case StepConstr:
		return c.Constr
	case StepCase:
		return c.Case
	}
	return ExBudget{}
}

// CostModel prices every operation a program can perform.
type CostModel struct {
	Machine MachineCosts
	Builtin [builtins.Count]BuiltinCost
}

var defaultStep = ExBudget{CPU: 23000, Mem: 100}

// DefaultCostModel carries the PlutusV2 mainnet parameters.
var DefaultCostModel = &CostModel{
	Machine: MachineCosts{
		Startup:  ExBudget{CPU: 100, Mem: 100},
		Var:      defaultStep,
		Constant: defaultStep,
		Lambda:   defaultStep,
		Delay:    defaultStep,
		Force:    defaultStep,
		Apply:    defaultStep,
		Builtin:  defaultStep,
		Constr:   defaultStep,
		Case:     defaultStep,
	},
	Builtin: [builtins.Count]BuiltinCost{
		builtins.AddInteger: {
			CPU: MaxSize{Intercept: 205665, Slope: 812},
			Mem: MaxSize{Intercept: 1, Slope: 1},
		},
		builtins.SubtractInteger: {
			CPU: MaxSize{Intercept: 205665, Slope: 812},
			Mem: MaxSize{Intercept: 1, Slope: 1},
		},
		builtins.MultiplyInteger: {
			CPU: AddedSizes{Intercept: 69522, Slope: 11687},
			Mem: AddedSizes{Intercept: 0, Slope: 1},
		},
		builtins.DivideInteger: {
			CPU: ConstAboveDiagonal{Constant: 196500, Model: MultipliedSizes{Intercept: 453240, Slope: 220}},
			Mem: SubtractedSizes{Intercept: 0, Slope: 1, Minimum: 1},
		},
		builtins.QuotientInteger: {
			CPU: ConstAboveDiagonal{Constant: 196500, Model: MultipliedSizes{Intercept: 453240, Slope: 220}},
			Mem: SubtractedSizes{Intercept: 0, Slope: 1, Minimum: 1},
		},
		builtins.RemainderInteger: {
			CPU: ConstAboveDiagonal{Constant: 196500, Model: MultipliedSizes{Intercept: 453240, Slope: 220}},
			Mem: SubtractedSizes{Intercept: 0, Slope: 1, Minimum: 1},
		},
		builtins.ModInteger: {
			CPU: ConstAboveDiagonal{Constant: 196500, Model: MultipliedSizes{Intercept: 453240, Slope: 220}},
			Mem: SubtractedSizes{Intercept: 0, Slope: 1, Minimum: 1},
		},
		builtins.EqualsInteger: {
			CPU: MinSize{Intercept: 208512, Slope: 421},
			Mem: ConstantCost{C: 1},
		},
		builtins.LessThanInteger: {
			CPU: MinSize{Intercept: 208896, Slope: 511},
			Mem: ConstantCost{C: 1},
		},
		builtins.LessThanEqualsInteger: {
			CPU: MinSize{Intercept: 204924, Slope: 473},
			Mem: ConstantCost{C: 1},
		},
		builtins.AppendByteString: {
			CPU: AddedSizes{Intercept: 1000, Slope: 571},
			Mem: AddedSizes{Intercept: 0, Slope: 1},
		},
		builtins.ConsByteString: {
			CPU: LinearInY{Intercept: 221973, Slope: 511},
			Mem: AddedSizes{Intercept: 0, Slope: 1},
		},
		builtins.SliceByteString: {
			CPU: LinearInZ{Intercept: 265318, Slope: 0},
			Mem: LinearInZ{Intercept: 4, Slope: 0},
		},
		builtins.LengthOfByteString: {
			CPU: ConstantCost{C: 1000},
			Mem: ConstantCost{C: 10},
		},
		builtins.IndexByteString: {
			CPU: ConstantCost{C: 57667},
			Mem: ConstantCost{C: 4},
		},
		builtins.EqualsByteString: {
			CPU: LinearOnDiagonal{Constant: 245000, Intercept: 216773, Slope: 62},
			Mem: ConstantCost{C: 1},
		},
		builtins.LessThanByteString: {
			CPU: MinSize{Intercept: 197145, Slope: 156},
			Mem: ConstantCost{C: 1},
		},
		builtins.LessThanEqualsByteString: {
			CPU: MinSize{Intercept: 197145, Slope: 156},
			Mem: ConstantCost{C: 1},
		},
		builtins.Sha2_256: {
			CPU: LinearInX{Intercept: 806990, Slope: 30482},
			Mem: ConstantCost{C: 4},
		},
		builtins.Sha3_256: {
			CPU: LinearInX{Intercept: 1927926, Slope: 82523},
			Mem: ConstantCost{C: 4},
		},
		builtins.Blake2b_256: {
			CPU: LinearInX{Intercept: 117366, Slope: 10475},
			Mem: ConstantCost{C: 4},
		},
		builtins.VerifyEd25519Signature: {
			CPU: LinearInZ{Intercept: 57996947, Slope: 18975},
			Mem: ConstantCost{C: 10},
		},
		builtins.AppendString: {
			CPU: AddedSizes{Intercept: 1000, Slope: 24177},
			Mem: AddedSizes{Intercept: 4, Slope: 1},
		},
		builtins.EqualsString: {
			CPU: LinearOnDiagonal{Constant: 187000, Intercept: 1000, Slope: 52998},
			Mem: ConstantCost{C: 1},
		},
		builtins.EncodeUtf8: {
			CPU: LinearInX{Intercept: 1000, Slope: 28662},
			Mem: LinearInX{Intercept: 4, Slope: 2},
		},
		builtins.DecodeUtf8: {
			CPU: LinearInX{Intercept: 497525, Slope: 14068},
			Mem: LinearInX{Intercept: 4, Slope: 2},
		},
		builtins.IfThenElse: {
			CPU: ConstantCost{C: 80556},
			Mem: ConstantCost{C: 1},
		},
		builtins.ChooseUnit: {
			CPU: ConstantCost{C: 46417},
			Mem: ConstantCost{C: 4},
		},
		builtins.Trace: {
			CPU: ConstantCost{C: 212342},
			Mem: ConstantCost{C: 32},
		},
		builtins.FstPair: {
			CPU: ConstantCost{C: 80436},
			Mem: ConstantCost{C: 32},
		},
		builtins.SndPair: {
			CPU: ConstantCost{C: 85931},
			Mem: ConstantCost{C: 32},
		},
		builtins.ChooseList: {
			CPU: ConstantCost{C: 175354},
			Mem: ConstantCost{C: 32},
		},
		builtins.MkCons: {
			CPU: ConstantCost{C: 65493},
			Mem: ConstantCost{C: 32},
		},
		builtins.HeadList: {
			CPU: ConstantCost{C: 43249},
			Mem: ConstantCost{C: 32},
		},
		builtins.TailList: {
			CPU: ConstantCost{C: 41182},
			Mem: ConstantCost{C: 32},
		},
		builtins.NullList: {
			CPU: ConstantCost{C: 60091},
			Mem: ConstantCost{C: 32},
		},
		builtins.ChooseData: {
			CPU: ConstantCost{C: 19537},
			Mem: ConstantCost{C: 32},
		},
		builtins.ConstrData: {
			CPU: ConstantCost{C: 89141},
			Mem: ConstantCost{C: 32},
		},
		builtins.MapData: {
			CPU: ConstantCost{C: 64832},
			Mem: ConstantCost{C: 32},
		},
		builtins.ListData: {
			CPU: ConstantCost{C: 52467},
			Mem: ConstantCost{C: 32},
		},
		builtins.IData: {
			CPU: ConstantCost{C: 1000},
			Mem: ConstantCost{C: 32},
		},
		builtins.BData: {
			CPU: ConstantCost{C: 1000},
			Mem: ConstantCost{C: 32},
		},
		builtins.UnConstrData: {
			CPU: ConstantCost{C: 32696},
			Mem: ConstantCost{C: 32},
		},
		builtins.UnMapData: {
			CPU: ConstantCost{C: 38314},
			Mem: ConstantCost{C: 32},
		},
		builtins.UnListData: {
			CPU: ConstantCost{C: 25933},
			Mem: ConstantCost{C: 32},
		},
		builtins.UnIData: {
			CPU: ConstantCost{C: 42921},
			Mem: ConstantCost{C: 32},
		},
		builtins.UnBData: {
			CPU: ConstantCost{C: 31220},
			Mem: ConstantCost{C: 32},
		},
		builtins.EqualsData: {
			CPU: MinSize{Intercept: 1060367, Slope: 12586},
			Mem: ConstantCost{C: 1},
		},
		builtins.MkPairData: {
			CPU: ConstantCost{C: 76511},
			Mem: ConstantCost{C: 32},
		},
		builtins.MkNilData: {
			CPU: ConstantCost{C: 22558},
			Mem: ConstantCost{C: 32},
		},
		builtins.MkNilPairData: {
			CPU: ConstantCost{C: 16563},
			Mem: ConstantCost{C: 32},
		},
		builtins.SerialiseData: {
			CPU: LinearInX{Intercept: 1159724, Slope: 392670},
			Mem: LinearInX{Intercept: 0, Slope: 2},
		},
		builtins.VerifyEcdsaSecp256k1Signature: {
			CPU: ConstantCost{C: 35892428},
			Mem: ConstantCost{C: 10},
		},
		builtins.VerifySchnorrSecp256k1Signature: {
			CPU: LinearInY{Intercept: 38887044, Slope: 32947},
			Mem: ConstantCost{C: 10},
		},
	},
}
