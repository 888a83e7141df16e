package analyze

import (
	"strconv"
	"time"

	"github.com/MikeSquared-Agency/yywc/internal/export"
)

// Top-K table sizes.
const (
	topWordsLimit         = 30
	topBigramsLimit       = 30
	topTitlesLimit        = 15
	topModelsLimit        = 10
	longestConversationsN = 10
)

// Options controls summarization.
type Options struct {
	Year        int // 0 when the dataset spans all years; reported only
	Redact      bool
	MaxExcerpts int
	// Location is used for the local day and hour buckets. Nil means
	// time.Local, which makes output depend on the machine running it.
	Location *time.Location
}

// Summary is the aggregate report over a dataset. Renderers treat it as
// read-only.
type Summary struct {
	Year     *int   `json:"year"`
	Source   string `json:"source"`
	Timezone string `json:"timezone"`

	TotalConversations     int     `json:"total_conversations"`
	TotalMessages          int     `json:"total_messages"`
	TotalUserMessages      int     `json:"total_user_messages"`
	TotalAssistantMessages int     `json:"total_assistant_messages"`
	TotalWords             int     `json:"total_words"`
	WordsPerMessage        float64 `json:"words_per_message"`

	FirstMessage *time.Time `json:"first_message"`
	LastMessage  *time.Time `json:"last_message"`

	ActiveDays          int    `json:"active_days"`
	LongestStreakDays   int    `json:"longest_streak_days"`
	BusiestDayLocal     string `json:"busiest_day_local,omitempty"`
	BusiestDayMessages  int    `json:"busiest_day_messages"`
	BusiestHourLocal    *int   `json:"busiest_hour_local"`
	BusiestHourMessages int    `json:"busiest_hour_messages"`

	MessagesByMonth    Histogram `json:"messages_by_month"`
	MessagesByDayLocal Histogram `json:"messages_by_day_local"`
	MessagesByWeekday  Histogram `json:"messages_by_weekday"`
	MessagesByHour     Histogram `json:"messages_by_hour_local"`

	TopWords             []Entry `json:"top_words"`
	TopBigrams           []Entry `json:"top_bigrams"`
	TopTitles            []Entry `json:"top_titles"`
	TopModels            []Entry `json:"top_models"`
	LongestConversations []Entry `json:"longest_conversations"`

	Excerpts []Excerpt `json:"excerpts"`
	FunFacts []string  `json:"fun_facts"`
}

// accumulator is the fold state for one pass over messages. Two
// accumulators built over consecutive partitions merge into the same state
// a single pass would produce.
type accumulator struct {
	loc *time.Location

	messages  int
	user      int
	assistant int

	conversations map[string]bool
	first, last   time.Time

	months   *counter
	weekdays *counter
	days     *counter
	hours    *counter
	titles   *counter
	models   *counter
	words    *counter
	bigrams  *counter
}

func newAccumulator(loc *time.Location) *accumulator {
	return &accumulator{
		loc:           loc,
		conversations: make(map[string]bool),
		months:        newCounter(),
		weekdays:      newCounter(),
		days:          newCounter(),
		hours:         newCounter(),
		titles:        newCounter(),
		models:        newCounter(),
		words:         newCounter(),
		bigrams:       newCounter(),
	}
}

func (a *accumulator) add(m export.Message) {
	a.messages++
	switch m.Role {
	case "user":
		a.user++
	case "assistant":
		a.assistant++
	}
	a.conversations[m.ConversationID] = true

	if a.first.IsZero() || m.CreatedAt.Before(a.first) {
		a.first = m.CreatedAt
	}
	if a.last.IsZero() || !m.CreatedAt.Before(a.last) {
		a.last = m.CreatedAt
	}

	utc := m.CreatedAt.UTC()
	local := m.CreatedAt.In(a.loc)
	a.months.add(utc.Format("2006-01"), 1)
	a.weekdays.add(weekdayKey(utc.Weekday()), 1)
	a.days.add(local.Format(dateLayout), 1)
	a.hours.add(strconv.Itoa(local.Hour()), 1)

	title := m.ConversationTitle
	if title == "" {
		title = export.DefaultTitle
	}
	a.titles.add(title, 1)
	if m.Model != "" {
		a.models.add(m.Model, 1)
	}

	tokens := Tokenize(m.Text)
	for _, tok := range tokens {
		a.words.add(tok, 1)
	}
	for _, bg := range bigrams(tokens) {
		a.bigrams.add(bg, 1)
	}
}

func (a *accumulator) merge(b *accumulator) {
	a.messages += b.messages
	a.user += b.user
	a.assistant += b.assistant
	for id := range b.conversations {
		a.conversations[id] = true
	}
	if !b.first.IsZero() && (a.first.IsZero() || b.first.Before(a.first)) {
		a.first = b.first
	}
	if !b.last.IsZero() && (a.last.IsZero() || !b.last.Before(a.last)) {
		a.last = b.last
	}
	a.months.merge(b.months)
	a.weekdays.merge(b.weekdays)
	a.days.merge(b.days)
	a.hours.merge(b.hours)
	a.titles.merge(b.titles)
	a.models.merge(b.models)
	a.words.merge(b.words)
	a.bigrams.merge(b.bigrams)
}

// Summarize computes the report for ds. It never fails; an empty dataset
// yields zero counts and empty tables.
func Summarize(ds *export.Dataset, opts Options) Summary {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	acc := newAccumulator(loc)
	for _, m := range ds.Messages {
		acc.add(m)
	}
	return acc.summary(ds, opts)
}

func (a *accumulator) summary(ds *export.Dataset, opts Options) Summary {
	s := Summary{
		Source:                 string(ds.Source),
		Timezone:               a.loc.String(),
		TotalMessages:          a.messages,
		TotalUserMessages:      a.user,
		TotalAssistantMessages: a.assistant,
		TotalWords:             a.words.total(),
		ActiveDays:             a.days.len(),
		MessagesByMonth:        sortedHistogram(a.months),
		MessagesByDayLocal:     sortedHistogram(a.days),
		MessagesByWeekday:      fixedHistogram(a.weekdays, Weekdays),
		MessagesByHour:         fixedHistogram(a.hours, hourKeys()),
		TopWords:               a.words.top(topWordsLimit),
		TopBigrams:             a.bigrams.top(topBigramsLimit),
		TopTitles:              a.titles.top(topTitlesLimit),
		TopModels:              a.models.top(topModelsLimit),
		LongestConversations:   a.titles.top(longestConversationsN),
		Excerpts:               selectExcerpts(ds.Messages, opts.MaxExcerpts, opts.Redact),
	}
	if opts.Year != 0 {
		year := opts.Year
		s.Year = &year
	}

	s.TotalConversations = len(a.conversations)
	if s.TotalConversations == 0 {
		s.TotalConversations = len(ds.Conversations)
	}
	if a.messages > 0 {
		s.WordsPerMessage = float64(s.TotalWords) / float64(a.messages)
		first, last := a.first.UTC(), a.last.UTC()
		s.FirstMessage, s.LastMessage = &first, &last
	}

	s.LongestStreakDays = LongestStreak(parseDates(a.days.order))
	s.BusiestDayLocal, s.BusiestDayMessages = maxBucket(s.MessagesByDayLocal)
	if key, n := maxBucket(s.MessagesByHour); n > 0 {
		hour, _ := strconv.Atoi(key)
		s.BusiestHourLocal = &hour
		s.BusiestHourMessages = n
	}

	s.FunFacts = funFacts(s)
	return s
}

// maxBucket returns the first bucket holding the maximum count. Histograms
// are emitted in canonical order, so ties go to the earliest key.
func maxBucket(h Histogram) (string, int) {
	var key string
	best := 0
	for _, b := range h {
		if b.Count > best {
			key, best = b.Key, b.Count
		}
	}
	return key, best
}

func weekdayKey(d time.Weekday) string {
	// time.Weekday starts at Sunday; the bucket order starts at Monday.
	return Weekdays[(int(d)+6)%7]
}
