package components

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nilsimda/leaderboard/models"
	"github.com/nilsimda/leaderboard/standings"
)

var sampleTabs = []standings.Tab{
	{Round: models.Round1, Title: "Round 1", Visible: true},
	{Round: models.Round2, Title: "Round 2", Visible: false},
	{Round: models.Overall, Title: "Overall", Visible: true},
}

func TestLeaderboard_RendersTable(t *testing.T) {
	table := models.Table{
		Round:     models.Round1,
		Title:     "Round 1",
		Headers:   []string{"Rank", "Team Name"},
		Rows:      [][]string{{"1", "<script>x</script>"}},
		Available: true,
	}

	var buf bytes.Buffer
	require.NoError(t, Leaderboard(sampleTabs, table).Render(context.Background(), &buf))
	out := buf.String()

	assert.Contains(t, out, `<th>Team Name</th>`)
	assert.Contains(t, out, `&lt;script&gt;x&lt;/script&gt;`)
	assert.NotContains(t, out, `<script>`)
	assert.Contains(t, out, `class="tab-button active" href="/leaderboard/round1"`)
	assert.Contains(t, out, `href="/leaderboard/overall"`)
	assert.NotContains(t, out, `/leaderboard/round2`)
}

func TestLeaderboard_UnavailableShowsPlaceholder(t *testing.T) {
	var buf bytes.Buffer
	table := models.Table{Round: models.Round4, Title: "Round 4"}
	require.NoError(t, Leaderboard(sampleTabs, table).Render(context.Background(), &buf))

	assert.Contains(t, buf.String(), "This leaderboard will be available soon!")
	assert.NotContains(t, buf.String(), "<table")
}

func TestAdmin_Toggles(t *testing.T) {
	previews := map[models.RoundID]models.Table{
		models.Round1: {Round: models.Round1, Headers: []string{"Rank"}, Rows: [][]string{{"1"}}, Available: true},
	}

	var buf bytes.Buffer
	require.NoError(t, Admin(sampleTabs, previews).Render(context.Background(), &buf))
	out := buf.String()

	assert.Contains(t, out, `action="/admin/visibility/round1/toggle"`)
	assert.Contains(t, out, `id="round1Toggle" class="visible">Hide</button>`)
	assert.Contains(t, out, `id="round2Toggle" class="hidden">Show</button>`)
	assert.Contains(t, out, `<td>1</td>`)
	assert.Contains(t, out, "No data")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestRender_PropagatesWriteError(t *testing.T) {
	err := Placeholder().Render(context.Background(), failingWriter{})
	assert.Error(t, err)
}

func TestPlaceholder_UsesPageShell(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Placeholder().Render(context.Background(), &buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<!doctype html>"), out)
	assert.Contains(t, out, `<title>Leaderboard</title>`)
	assert.Contains(t, out, `href="/assets/style.css"`)
	assert.Contains(t, out, "Please check back later.")
	assert.True(t, strings.HasSuffix(out, "</main></body></html>"), out)
}
