package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetPriority(t *testing.T) {
	tests := []struct {
		name string
		line string
		p    Priority
		want string
	}{
		{"add", "Test", 'A', "(A) Test"},
		{"replace", "(B) Test", 'A', "(A) Test"},
		{"remove", "(B) Test", NoPriority, "Test"},
		{"remove absent", "Test", NoPriority, "Test"},
		{"keeps create date", "2014-01-01 Test", 'C', "(C) 2014-01-01 Test"},
		{"after completion info", "x 2014-01-02 Test", 'A', "x 2014-01-02 (A) Test"},
		{"replace keeps tab", "x 2014-01-02\t(B) Test", 'A', "x 2014-01-02\t(A) Test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Parse(tt.line)
			task.SetPriority(tt.p)
			assert.Equal(t, tt.want, task.String())
			assert.Equal(t, tt.p, task.Priority())
		})
	}
}

func TestSetDue(t *testing.T) {
	tests := []struct {
		name string
		line string
		date string
		want string
	}{
		{"clear leaves no residue", "Test due:2013-01-01", "", "Test"},
		{"clear in the middle", "Test due:2013-01-01 @home", "", "Test @home"},
		{"append", "Test", "2013-01-01", "Test due:2013-01-01"},
		{"replace in place", "Test due:2013-01-01 @home", "2014-02-02", "Test due:2014-02-02 @home"},
		{"keeps key spelling", "Test DUE:2013-01-01", "2014-02-02", "Test DUE:2014-02-02"},
		{"drops duplicates", "Test due:2013-01-01 due:2013-05-05", "2014-02-02", "Test due:2014-02-02"},
		{"replace keeps tab", "Test\tdue:2013-01-01\t@home", "2014-02-02", "Test\tdue:2014-02-02\t@home"},
		{"clear after tab", "Test\tdue:2013-01-01", "", "Test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Parse(tt.line)
			task.SetDue(tt.date)
			assert.Equal(t, tt.want, task.String())
			assert.Equal(t, tt.date, task.Due())
		})
	}
}

func TestSetThreshold(t *testing.T) {
	task := Parse("Test t:2013-01-01")
	task.SetThreshold("")
	assert.Equal(t, "Test", task.String())

	task.SetThreshold("2014-01-01")
	assert.Equal(t, "Test t:2014-01-01", task.String())
	assert.Equal(t, "2014-01-01", task.Threshold())
}

func TestSetCreateDate(t *testing.T) {
	tests := []struct {
		name string
		line string
		date string
		want string
	}{
		{"plain", "Test", "2014-01-01", "2014-01-01 Test"},
		{"after priority", "(A) Test", "2014-01-01", "(A) 2014-01-01 Test"},
		{"after completion", "x 2014-02-02 (A) Test", "2014-01-01", "x 2014-02-02 (A) 2014-01-01 Test"},
		{"replace", "(A) 2013-01-01 Test", "2014-01-01", "(A) 2014-01-01 Test"},
		{"clear", "(A) 2013-01-01 Test", "", "(A) Test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Parse(tt.line)
			task.SetCreateDate(tt.date)
			assert.Equal(t, tt.want, task.String())
			assert.Equal(t, tt.date, Parse(task.String()).CreateDate())
		})
	}
}

func TestTagsAndLists(t *testing.T) {
	t.Run("add list is idempotent", func(t *testing.T) {
		task := Parse("Milk @errands")
		task.AddList("errands")
		assert.Equal(t, "Milk @errands", task.String())
	})

	t.Run("add several", func(t *testing.T) {
		task := Parse("Milk")
		task.AddList("errands  shop errands")
		task.AddTag("+home garden")
		assert.Equal(t, "Milk @errands @shop +home +garden", task.String())
	})

	t.Run("remove tag", func(t *testing.T) {
		task := Parse("Milk +home +garden +home")
		task.RemoveTag("home")
		assert.Equal(t, "Milk +garden", task.String())
	})

	t.Run("escaped list is not a list", func(t *testing.T) {
		task := Parse("Milk @@errands")
		task.RemoveList("errands")
		assert.Equal(t, "Milk @@errands", task.String())
	})

	t.Run("remove escaped list", func(t *testing.T) {
		task := Parse("Milk @@errands")
		task.RemoveList("@errands")
		assert.Equal(t, "Milk", task.String())
	})

	t.Run("remove escaped list keeps the rest", func(t *testing.T) {
		task := Parse("Milk @@errands +supermarket")
		task.RemoveList("@errands")
		assert.Equal(t, "Milk +supermarket", task.String())
	})

	t.Run("remove escaped tag", func(t *testing.T) {
		task := Parse("Milk ++shop @home")
		task.RemoveTag("+shop")
		assert.Equal(t, "Milk @home", task.String())
	})

	t.Run("has", func(t *testing.T) {
		task := Parse("Milk @errands +shop")
		assert.True(t, task.HasList("errands"))
		assert.True(t, task.HasTag("shop"))
		assert.False(t, task.HasTag("errands"))
	})
}

func TestMarkComplete(t *testing.T) {
	t.Run("prepends completion info", func(t *testing.T) {
		task := Parse("(A) Test")
		assert.Nil(t, task.MarkComplete("2010-01-01"))
		assert.Equal(t, "x 2010-01-01 (A) Test", task.String())
		assert.True(t, task.Completed())
		assert.Equal(t, "2010-01-01", task.CompletionDate())
		assert.Equal(t, Priority('A'), task.Priority())
	})

	t.Run("completion date before creation date", func(t *testing.T) {
		task := Parse("2009-01-01 Test")
		task.MarkComplete("2010-01-01")
		assert.Equal(t, "x 2010-01-01 2009-01-01 Test", task.String())
		assert.Equal(t, "2009-01-01", task.CreateDate())
	})

	t.Run("already complete is unchanged", func(t *testing.T) {
		task := Parse("x 2009-01-01 Test rec:1d due:2009-01-01")
		assert.Nil(t, task.MarkComplete("2010-01-01"))
		assert.Equal(t, "x 2009-01-01 Test rec:1d due:2009-01-01", task.String())
	})

	t.Run("incomplete restores text", func(t *testing.T) {
		task := Parse("(B) Test")
		task.MarkComplete("2010-01-01")
		task.MarkIncomplete()
		assert.Equal(t, "(B) Test", task.String())
		assert.False(t, task.Completed())
	})

	t.Run("incomplete keeps create date", func(t *testing.T) {
		task := Parse("x 2010-01-01 2009-01-01 Test")
		task.MarkIncomplete()
		assert.Equal(t, "2009-01-01 Test", task.String())
		assert.Equal(t, "2009-01-01", task.CreateDate())
	})
}

func TestMarkCompleteRecurring(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{
			name: "threshold from completion date",
			line: "(B) 2014-07-05 Test t:2014-07-05 rec:2d",
			want: "(B) 2000-01-01 Test t:2000-01-03 rec:2d",
		},
		{
			name: "threshold from its own date",
			line: "(B) 2014-07-05 Test t:2014-07-05 rec:+2d",
			want: "(B) 2000-01-01 Test t:2014-07-07 rec:+2d",
		},
		{
			name: "due from completion date",
			line: "(B) 2014-07-05 Test due:2014-07-05 rec:2d",
			want: "(B) 2000-01-01 Test due:2000-01-03 rec:2d",
		},
		{
			name: "due from its own date",
			line: "(B) 2014-07-05 Test due:2014-07-05 rec:+2d",
			want: "(B) 2000-01-01 Test due:2014-07-07 rec:+2d",
		},
		{
			name: "no create date stays without one",
			line: "Test due:2014-07-05 rec:1y",
			want: "Test due:2001-01-01 rec:1y",
		},
		{
			name: "both dates advance",
			line: "Test due:2014-07-05 t:2014-07-01 rec:+1w",
			want: "Test due:2014-07-12 t:2014-07-08 rec:+1w",
		},
		{
			name: "no dates gets a due date from completion",
			line: "2014-07-05 Water plants rec:1w",
			want: "2000-01-01 Water plants rec:1w due:2000-01-08",
		},
		{
			name: "no dates with strict pattern repeats unchanged",
			line: "Water plants rec:+1w",
			want: "Water plants rec:+1w",
		},
		{
			name: "zero amount keeps date",
			line: "Test due:2014-07-05 rec:+0d",
			want: "Test due:2014-07-05 rec:+0d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Parse(tt.line)
			next := task.MarkComplete("2000-01-01")
			require.NotNil(t, next)
			assert.Equal(t, tt.want, next.String())
			assert.Equal(t, "x 2000-01-01 "+tt.line, task.String())
		})
	}
}

func TestMarkCompleteMalformedRecurrence(t *testing.T) {
	task := Parse("Test due:2014-99-99 rec:+1d")
	assert.Nil(t, task.MarkComplete("2000-01-01"))
	assert.True(t, task.Completed())

	_, ok := Parse("Test due:2014-99-99 rec:+1d").NextOccurrence("2000-01-01")
	assert.False(t, ok)

	_, ok = Parse("Test due:2014-01-01").NextOccurrence("2000-01-01")
	assert.False(t, ok)
}

func TestDefer(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		when   string
		from   string
		want   string
		wantOK bool
	}{
		{"absolute", "Test", "2014-01-01", "2000-01-01", "Test due:2014-01-01", true},
		{"clear", "Test due:2014-01-01", "", "2000-01-01", "Test", true},
		{"interval from today", "Test due:2014-01-01", "3d", "2000-01-01", "Test due:2000-01-04", true},
		{"plus interval from own date", "Test due:2014-01-01", "+3d", "2000-01-01", "Test due:2014-01-04", true},
		{"interval without dates", "Test", "1w", "", "Test", false},
		{"garbage", "Test due:2014-01-01", "soon", "2000-01-01", "Test due:2014-01-01", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Parse(tt.line)
			assert.Equal(t, tt.wantOK, task.DeferDue(tt.when, tt.from))
			assert.Equal(t, tt.want, task.String())
		})
	}

	t.Run("threshold", func(t *testing.T) {
		task := Parse("Test t:2014-01-31")
		require.True(t, task.DeferThreshold("+1m", ""))
		assert.Equal(t, "Test t:2014-02-28", task.String())
	})
}
