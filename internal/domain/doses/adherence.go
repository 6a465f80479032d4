package doses

import (
	"math"

	"med-adherence/internal/domain/medications"
)

// Adherence calcula el porcentaje de dosis tomadas del día, a nivel dosis
// (no a nivel medicación entera: con multi-dosis solo la fracción por
// ocurrencia da números correctos). Es la única implementación del cálculo;
// dashboard, resultado de mutación y snapshot diario pasan todos por acá.
// Sin dosis esperadas => 0, nunca error ni NaN.
func Adherence(meds []medications.Medication, today string) float64 {
	total := 0
	taken := 0

	for _, m := range meds {
		for _, o := range Expand(m, today) {
			total++
			if o.Taken {
				taken++
			}
		}
	}

	if total == 0 {
		return 0
	}
	return math.Round(float64(taken)/float64(total)*100*100) / 100
}
