package entity

import "time"

// ContractGeneratedEvent is published after a contract is stored and drives
// the asynchronous document generation.
type ContractGeneratedEvent struct {
	ContractID          string    `json:"contract_id"`
	Title               string    `json:"title"`
	Plan                Plan      `json:"plan_contracted"`
	City                string    `json:"city"`
	State               string    `json:"state"`
	ImplementationValue float64   `json:"implementation_value"`
	MonthlyPlanValue    float64   `json:"monthly_plan_value"`
	TotalContractValue  float64   `json:"total_contract_value"`
	Text                string    `json:"generated_contract_text"`
	RequesterID         string    `json:"requester_id"`
	RequesterName       string    `json:"requester_name"`
	RequesterEmail      string    `json:"requester_email"`
	CreatedAt           time.Time `json:"created_at"`
}
