package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/AdamBeresnev/privas/internal/priva"
	"github.com/AdamBeresnev/privas/internal/utils"
	"github.com/google/uuid"
)

func statusLabel(status priva.Status, inBattle bool) string {
	switch {
	case status > 0 && inBattle:
		return fmt.Sprintf("Battle %d in progress", int(status))
	case status > 0:
		return fmt.Sprintf("Battle %d finished", int(status))
	case status == priva.StatusStarted:
		return "Started"
	case status == priva.StatusReady:
		return "Ready"
	}
	return "Over"
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return utils.OrZero(t).Format("2006-01-02 15:04")
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}

func kindList(kinds []priva.Kind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return joinNames(names)
}

// rowState tags a standings row as winner, inactive or active.
func rowState(row StandingRow) string {
	switch {
	case row.Winner:
		return "winner"
	case !row.Player.Active:
		return "inactive"
	}
	return "active"
}

func livePath(id uuid.UUID) string {
	return "/ws/privas/" + id.String()
}
