package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashlint/internal/driver"
)

func feed(t *testing.T, m tea.Model, evs ...driver.Event) *progressModel {
	t.Helper()
	pm, ok := m.(*progressModel)
	require.True(t, ok)
	for _, ev := range evs {
		next, _ := pm.Update(eventMsg(ev))
		pm = next.(*progressModel)
	}
	return pm
}

func TestProgressCountsFinishedFiles(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("checking", []string{"a.js", "b.js", "c.js"}, events)

	pm := feed(t, m,
		driver.Event{File: "a.js", Status: driver.StatusWorking},
		driver.Event{File: "a.js", Status: driver.StatusDone, Diagnostics: 2},
		driver.Event{File: "b.js", Status: driver.StatusCached, Diagnostics: 1},
		driver.Event{File: "b.js", Status: driver.StatusCached, Diagnostics: 1},
		driver.Event{File: "unknown.js", Status: driver.StatusDone},
	)

	assert.Equal(t, 2, pm.finished)
	assert.Equal(t, 3, pm.problems)

	view := pm.View()
	assert.Contains(t, view, "2/3 files, 3 problems")
	assert.Contains(t, view, "a.js (2)")
	assert.Contains(t, view, "queued")
}

func TestProgressDone(t *testing.T) {
	events := make(chan driver.Event)
	close(events)
	m := NewProgressModel("checking", []string{"a.js"}, events)

	msg := m.(*progressModel).listenForEvent()()
	_, ok := msg.(doneMsg)
	require.True(t, ok)

	next, cmd := m.Update(msg)
	require.NotNil(t, cmd)
	assert.True(t, strings.HasPrefix(next.View(), "done:") || strings.Contains(next.View(), "done: checking"))
}

func TestProgressLargeRunHidesList(t *testing.T) {
	files := make([]string, maxListed+1)
	for i := range files {
		files[i] = strings.Repeat("x", i+1) + ".js"
	}
	m := NewProgressModel("checking", files, nil)
	assert.NotContains(t, m.View(), "queued")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "abcd...", truncate("abcdefghijk", 7))
	assert.Equal(t, 7, runewidth.StringWidth(truncate("abcdefghijk", 7)))
	assert.Equal(t, "\u4e16...", truncate("\u4e16\u754c\u4e16\u754c", 5))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "abc", truncate("abc", 0))
}

func TestStatusLabels(t *testing.T) {
	assert.Equal(t, "checking", driver.StatusWorking.String())
	assert.Equal(t, "cached", driver.StatusCached.String())
}
