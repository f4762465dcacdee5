package usecase

import (
	"math"

	"github.com/tvdoutor/contratos/internal/entity"
)

// FormProgress is the percentage of non-empty fields, contractors included.
func FormProgress(d *entity.Draft) int {
	total := len(entity.GeneralFields) + len(entity.ContractorFields)*len(d.Contractors)
	if total == 0 {
		return 0
	}

	filled := 0
	for _, field := range entity.GeneralFields {
		if v, _ := d.Field(field); v != "" {
			filled++
		}
	}
	for i := range d.Contractors {
		for _, field := range entity.ContractorFields {
			if v, _ := d.Contractors[i].Field(field); v != "" {
				filled++
			}
		}
	}

	return int(math.Round(100 * float64(filled) / float64(total)))
}
