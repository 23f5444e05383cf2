package performance

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestParseInterval(t *testing.T) {
	tests := []struct {
		input   string
		want    Interval
		wantErr bool
	}{
		{input: "", want: Totals},
		{input: "none", want: Totals},
		{input: "per-transaction", want: PerTransaction},
		{input: "daily", want: Day},
		{input: "Week", want: Week},
		{input: "month", want: Month},
		{input: "quarterly", want: Quarter},
		{input: "year", want: Year},
		{input: "fortnight", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseInterval(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := ParseInterval(got.String())
			assert.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestPeriodEnd(t *testing.T) {
	tests := []struct {
		interval Interval
		date     string
		want     string
	}{
		{Day, "2020-01-01", "2020-01-01"},
		{Week, "2020-01-01", "2020-01-05"},
		{Week, "2020-01-05", "2020-01-05"},
		{Week, "2020-01-06", "2020-01-12"},
		{Month, "2020-02-10", "2020-02-29"},
		{Month, "2020-12-31", "2020-12-31"},
		{Quarter, "2020-05-10", "2020-06-30"},
		{Quarter, "2020-10-01", "2020-12-31"},
		{Year, "2020-05-10", "2020-12-31"},
		{Totals, "2020-05-10", "2020-05-10"},
	}
	for _, tt := range tests {
		t.Run(tt.interval.String()+" "+tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.interval.PeriodEnd(day(tt.date)).Format("2006-01-02"))
		})
	}
}

func TestBoundaries(t *testing.T) {
	format := func(ts []time.Time) []string {
		var out []string
		for _, t := range ts {
			out = append(out, t.Format("2006-01-02"))
		}
		return out
	}

	assert.Equal(t,
		[]string{"2020-01-31", "2020-02-29", "2020-03-31"},
		format(Boundaries(day("2020-01-02"), day("2020-03-02"), Month)))
	assert.Equal(t,
		[]string{"2019-12-31", "2020-03-31"},
		format(Boundaries(day("2019-11-15"), day("2020-01-01"), Quarter)))
	assert.Equal(t, 0, len(Boundaries(day("2020-01-02"), day("2020-03-02"), Totals)))
	assert.Equal(t, 0, len(Boundaries(day("2020-03-02"), day("2020-01-02"), Month)))
}
