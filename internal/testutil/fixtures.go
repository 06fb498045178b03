package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/preston-bernstein/nhl-dashboard/internal/domain/seasons"
)

// SampleCSV is a small season file with padded header names, as found in the wild.
const SampleCSV = `Name, Year ,Wins,Losses,Win % ,Goals For,Goals Against
Boston Bruins,1990,44,24,0.55,299,264
Buffalo Sabres,1990,31,30,0.388,292,278
Calgary Flames,1990,42,23,0.525,348,265
Chicago Blackhawks,1990,41,33,0.513,284,211
Detroit Red Wings,1990,28,38,0.35,273,298
Edmonton Oilers,1990,38,28,0.475,315,283
Boston Bruins,1991,36,32,0.45,270,275
Buffalo Sabres,1991,31,37,0.388,289,299
`

// SampleRecords returns the rows of SampleCSV.
func SampleRecords() []seasons.SeasonRecord {
	return []seasons.SeasonRecord{
		{Name: "Boston Bruins", Year: 1990, Wins: 44, Losses: 24, WinPct: 0.55, GoalsFor: 299, GoalsAgainst: 264},
		{Name: "Buffalo Sabres", Year: 1990, Wins: 31, Losses: 30, WinPct: 0.388, GoalsFor: 292, GoalsAgainst: 278},
		{Name: "Calgary Flames", Year: 1990, Wins: 42, Losses: 23, WinPct: 0.525, GoalsFor: 348, GoalsAgainst: 265},
		{Name: "Chicago Blackhawks", Year: 1990, Wins: 41, Losses: 33, WinPct: 0.513, GoalsFor: 284, GoalsAgainst: 211},
		{Name: "Detroit Red Wings", Year: 1990, Wins: 28, Losses: 38, WinPct: 0.35, GoalsFor: 273, GoalsAgainst: 298},
		{Name: "Edmonton Oilers", Year: 1990, Wins: 38, Losses: 28, WinPct: 0.475, GoalsFor: 315, GoalsAgainst: 283},
		{Name: "Boston Bruins", Year: 1991, Wins: 36, Losses: 32, WinPct: 0.45, GoalsFor: 270, GoalsAgainst: 275},
		{Name: "Buffalo Sabres", Year: 1991, Wins: 31, Losses: 37, WinPct: 0.388, GoalsFor: 289, GoalsAgainst: 299},
	}
}

// SampleTable returns SampleRecords as a table with every known column.
func SampleTable() *seasons.Table {
	return seasons.NewTable(seasons.Columns, SampleRecords())
}

// WriteCSV writes body to a Hockey_data.csv in a temp dir and returns its path.
func WriteCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Hockey_data.csv")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write csv fixture: %v", err)
	}
	return path
}
