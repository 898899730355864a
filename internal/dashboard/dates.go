package dashboard

import (
	"fmt"
	"time"
)

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// LongDate formats t as "3 février 2025 à 14:05".
func LongDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d à %02d:%02d",
		t.Day(), frenchMonths[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}
