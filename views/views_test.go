package views

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/AdamBeresnev/privas/internal/priva"
	"github.com/AdamBeresnev/privas/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() priva.Report {
	return priva.Report{
		Name:   "Ten-Wins",
		Type:   priva.KindTenWins,
		Status: 2,
		Standings: []priva.Player{
			{Name: "ann", Wins: 2, Active: true},
			{Name: "bo", Wins: 1, Losses: 1, Active: true},
			{Name: "cy", Wins: 1, Losses: 1, Active: true},
			{Name: "<dee>", Losses: 2, Active: true},
			{Name: "eve", Byes: 2, Active: true},
			{Name: "gone", Active: false},
		},
		RecentBattle: &priva.Battle{
			Num:     2,
			TeamA:   []string{"ann", "bo"},
			TeamB:   []string{"cy", "<dee>"},
			Byes:    []string{"gone"},
			Outcome: priva.SideA,
		},
		WinGoal:      10,
	}
}

func TestPrepareReportData(t *testing.T) {
	data := PrepareReportData(sampleReport())

	var ranks []int
	for _, row := range data.Rows {
		ranks = append(ranks, row.Rank)
	}
	assert.Equal(t, []int{1, 2, 2, 4, 5, 5}, ranks)

	// eve joined after the battle started; gone sat it out and left since.
	require.NotNil(t, data.Battle)
	assert.Equal(t, []string{"gone"}, data.Battle.Byes)
}

func TestReportPage(t *testing.T) {
	var buf bytes.Buffer
	id := uuid.New()
	err := ReportPage(id, PrepareReportData(sampleReport()), "# Rules").Render(context.Background(), &buf)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "<h1>Ten-Wins</h1>")
	assert.Contains(t, html, "Battle 2 finished")
	assert.Contains(t, html, "First to 10 wins.")
	assert.Contains(t, html, "&lt;dee&gt;")
	assert.NotContains(t, html, "<dee>")
	assert.Contains(t, html, "Team A won.")
	assert.Contains(t, html, "/ws/privas/"+id.String())
	assert.Contains(t, html, "<p>Sitting out: gone</p>")
	assert.Contains(t, html, `<tr data-state="inactive"><td>5</td><td>gone</td>`)
}

func TestReportPageEscapesNameLists(t *testing.T) {
	report := sampleReport()
	report.Winners = []string{"<dee>", "ann"}
	report.RecentBattle.Byes = []string{"<script>x</script>"}

	var buf bytes.Buffer
	require.NoError(t, ReportPage(uuid.New(), PrepareReportData(report), "").Render(context.Background(), &buf))

	html := buf.String()
	assert.Contains(t, html, "Winners: &lt;dee&gt;, ann")
	assert.Contains(t, html, "Sitting out: &lt;script&gt;x&lt;/script&gt;")
	assert.NotContains(t, html, "<script>x")
	assert.NotContains(t, html, "<h2>Rules</h2>")
}

func TestIndexPage(t *testing.T) {
	var buf bytes.Buffer
	rows := []store.PrivaRow{{ID: uuid.New(), Type: "common", Status: -2, UpdatedAt: time.Now()}}
	err := IndexPage(rows, priva.Kinds()).Render(context.Background(), &buf)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "/privas/"+rows[0].ID.String())
	assert.Contains(t, html, "<td>over</td>")
	assert.Contains(t, html, "common, n_wins, ten_wins")

	buf.Reset()
	require.NoError(t, IndexPage(nil, priva.Kinds()).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), "No privas yet.")
}
