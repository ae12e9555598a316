package service

import (
	"time"

	"github.com/bibbank/debt-service/internal/domain/model"
	"github.com/bibbank/debt-service/internal/domain/valueobject"
)

// MarkOverdue flags A_ECHOIR and PARTIEL lines whose due date plus
// graceWindow is before now as EN_RETARD. It returns the full line set and
// the number of lines it flagged.
func MarkOverdue(lines []model.ScheduleLine, now time.Time, graceWindow time.Duration) ([]model.ScheduleLine, int) {
	out := model.SortLines(lines)
	flagged := 0
	for i, l := range out {
		if !l.Status.Equal(valueobject.LineStatusDue) && !l.Status.Equal(valueobject.LineStatusPartial) {
			continue
		}
		if l.DueDate.Add(graceWindow).Before(now) {
			out[i].Status = valueobject.LineStatusLate
			flagged++
		}
	}
	return out, flagged
}
