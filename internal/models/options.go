package models

// OptionType is call or put.
type OptionType string

const (
	OptionCall OptionType = "call"
	OptionPut  OptionType = "put"
)

// ContractMultiplier is the number of shares controlled by one option contract.
const ContractMultiplier = 100

// OptionPosition is the input to the options calculator.
type OptionPosition struct {
	Type         OptionType `json:"type"`
	CurrentPrice float64    `json:"current_price"`
	StrikePrice  float64    `json:"strike_price"`
	Premium      float64    `json:"premium"`
	Contracts    int        `json:"contracts"`
}

// DefaultOptionPosition returns the calculator's initial form values.
func DefaultOptionPosition() OptionPosition {
	return OptionPosition{
		Type:         OptionCall,
		CurrentPrice: 100,
		StrikePrice:  110,
		Premium:      5,
		Contracts:    1,
	}
}

// PayoffPoint is the position profit at one underlying price.
type PayoffPoint struct {
	Price  float64 `json:"price"`
	Profit float64 `json:"profit"`
}

// OptionAnalysis is the calculator output.
type OptionAnalysis struct {
	Position        OptionPosition `json:"position"`
	MaxLoss         float64        `json:"max_loss"`
	BreakEven       float64        `json:"break_even"`
	CostPerContract float64        `json:"cost_per_contract"`
	TotalCost       float64        `json:"total_cost"`
	CurrentProfit   float64        `json:"current_profit"`
	Curve           []PayoffPoint  `json:"curve"`
}
