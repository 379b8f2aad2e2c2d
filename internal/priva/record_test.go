package priva

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		args []int
		code Code
	}{
		{name: "common", kind: KindCommon},
		{name: "ten wins", kind: KindTenWins},
		{name: "n wins", kind: KindNWins, args: []int{5}},
		{name: "unknown", kind: "tic_tac_toe", code: CodeUnknownType},
		{name: "common with args", kind: KindCommon, args: []int{3}, code: CodeInvalidArguments},
		{name: "n wins without goal", kind: KindNWins, code: CodeInvalidArguments},
		{name: "n wins low goal", kind: KindNWins, args: []int{1}, code: CodeInvalidThreshold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, err := New(tt.kind, tt.args, testOptions()...)
			if tt.code != 0 {
				requireCode(t, err, tt.code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, inst.Kind())
			assert.Equal(t, tt.args, inst.Args())
			assert.Equal(t, StatusReady, inst.Status())
		})
	}
}

func TestRecordRoundTrip(t *testing.T) {
	n := newStartedNWins(t, 2, 10)
	for range 3 {
		_, err := n.StartBattle(nil, nil)
		require.NoError(t, err)
		_, err = n.EndBattle(SideA)
		require.NoError(t, err)
	}
	_, err := n.StartBattle(nil, nil)
	require.NoError(t, err)

	data, err := json.Marshal(n.Record())
	require.NoError(t, err)
	var rec Record
	require.NoError(t, json.Unmarshal(data, &rec))

	restored, err := FromRecord(rec, testOptions()...)
	require.NoError(t, err)
	if diff := cmp.Diff(n.Record(), restored.Record()); diff != "" {
		t.Fatalf("restored record differs (-want +got):\n%s", diff)
	}
	assert.Equal(t, n.Report("en"), restored.Report("en"))
	assert.Equal(t, n.String(), restored.String())

	// Undo behaves the same on both sides, win-goal winners included.
	for range len(n.Logs(0)) {
		want, err := n.Undo()
		require.NoError(t, err)
		got, err := restored.Undo()
		require.NoError(t, err)
		assert.Equal(t, want.Type, got.Type)
		assert.Equal(t, n.Report("en"), restored.Report("en"))
	}
	_, err = restored.Undo()
	requireCode(t, err, CodeNothingToUndo)
}

func TestFromRecordRejectsCorruptState(t *testing.T) {
	base := func() Record {
		p := newStartedCommon(t, 2)
		_, err := p.StartBattle([]string{"p0"}, []string{"p1"})
		require.NoError(t, err)
		return p.Record()
	}

	tests := []struct {
		name   string
		mutate func(*Record)
	}{
		{"unknown type", func(r *Record) { r.Type = "nope" }},
		{"duplicate player", func(r *Record) { r.Players = append(r.Players, r.Players[0]) }},
		{"misfiled battle", func(r *Record) {
			b := r.Battles[1]
			delete(r.Battles, 1)
			r.Battles[2] = b
		}},
		{"entry without payload", func(r *Record) { r.Logs[0].Status = nil }},
		{"unknown entry", func(r *Record) { r.Logs[0].Type = "status.paused" }},
		{"bad status", func(r *Record) { r.Status = -3 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := base()
			tt.mutate(&rec)
			_, err := FromRecord(rec)
			assert.Error(t, err)
		})
	}
}
