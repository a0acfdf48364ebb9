package scoring

// Credit score scale.
const (
	MinCreditScore = 300
	MaxCreditScore = 900
)

// Income reliability scale.
const (
	MinIncomeScore = 0
	MaxIncomeScore = 100
)

// DisplayLiquidityCapMonths is the most liquidity the response shows.
const DisplayLiquidityCapMonths = 12

// Weights of the credit composite. They sum to 1.
type Weights struct {
	RepaymentDiscipline float64 `json:"repaymentDiscipline"`
	DebtBurden          float64 `json:"debtBurden"`
	Utilization         float64 `json:"utilization"`
	Liquidity           float64 `json:"liquidity"`
}

// Band maps an inclusive score range onto a category.
type Band struct {
	Category string `json:"category"`
	Min      int    `json:"min"`
	Max      int    `json:"max"`
}

// Penalty is a fixed confidence deduction.
type Penalty struct {
	Reason string  `json:"reason"`
	Points float64 `json:"points"`
}

// Benchmark is the ideal value an insight measures its metric against.
type Benchmark struct {
	Kind   InsightKind `json:"kind"`
	Target float64     `json:"target"`
	Higher bool        `json:"higherIsBetter"`
}

// Policy is the complete, read-only rule set of the engine.
type Policy struct {
	CreditWeights      Weights     `json:"creditWeights"`
	LiquidityFullScore float64     `json:"liquidityFullScoreMonths"`
	CreditBands        []Band      `json:"creditBands"`
	IncomeBands        []Band      `json:"incomeBands"`
	Penalties          []Penalty   `json:"confidencePenalties"`
	Benchmarks         []Benchmark `json:"insightBenchmarks"`
}

var creditWeights = Weights{
	RepaymentDiscipline: 0.45,
	DebtBurden:          0.25,
	Utilization:         0.15,
	Liquidity:           0.15,
}

// liquidityFullScoreMonths of runway earns the full liquidity weight.
const liquidityFullScoreMonths = 12.0

// Ordered from the highest band down; lookups stop at the first match.
var creditBands = []Band{
	{Category: string(CategoryExcellent), Min: 780, Max: 900},
	{Category: string(CategoryGood), Min: 680, Max: 779},
	{Category: string(CategoryAverage), Min: 580, Max: 679},
	{Category: string(CategoryNeedsAttention), Min: 300, Max: 579},
}

var incomeBands = []Band{
	{Category: string(IncomeHigh), Min: 70, Max: 100},
	{Category: string(IncomeMedium), Min: 40, Max: 69},
	{Category: string(IncomeLow), Min: 0, Max: 39},
}

// CurrentPolicy returns a copy of the rules in force.
func CurrentPolicy() Policy {
	penalties := make([]Penalty, 0, len(confidencePenalties))
	for _, p := range confidencePenalties {
		penalties = append(penalties, Penalty{Reason: p.reason, Points: p.points})
	}
	return Policy{
		CreditWeights:      creditWeights,
		LiquidityFullScore: liquidityFullScoreMonths,
		CreditBands:        append([]Band(nil), creditBands...),
		IncomeBands:        append([]Band(nil), incomeBands...),
		Penalties:          penalties,
		Benchmarks:         append([]Benchmark(nil), insightBenchmarks...),
	}
}
