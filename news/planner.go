package news

import (
	"strings"
	"time"

	"newsdeck/utils"
)

const (
	// EndpointTopHeadlines serves fixed category headlines.
	EndpointTopHeadlines = "/top-headlines"
	// EndpointEverything serves free-text search.
	EndpointEverything = "/everything"

	// defaultQuery is sent when the user has no usable preferences.
	defaultQuery = "breaking news"
	// defaultWindowDays is the search window when no date options are given.
	defaultWindowDays = 7

	dateLayout = "2006-01-02"
)

// topHeadlineCategories are the provider's fixed category tags. A preference
// matching one of these short-circuits planning to the headline branch.
var topHeadlineCategories = []string{
	"business", "entertainment", "general", "health", "science", "sports", "technology",
}

// PlanOptions narrows the date window of the search branch. From and To are
// strict YYYY-MM-DD strings; Days is an alternative "last N days" form.
// Invalid or absent values fall through the resolution order documented on
// PlanQueryAt.
type PlanOptions struct {
	From string
	To   string
	Days int
}

// QueryPlan is the resolved provider request shape for one preference set and
// date window. Identical inputs always produce an identical plan, which is
// what makes CacheKey a stable cache address.
type QueryPlan struct {
	Endpoint    string
	Params      map[string]string
	CacheSuffix string
}

// CacheKey addresses the cache entry this plan resolves to.
func (p QueryPlan) CacheKey() string {
	return p.Endpoint + ":" + p.CacheSuffix
}

// PlanQuery resolves a plan against the current UTC date.
func PlanQuery(preferences []string, opts PlanOptions) QueryPlan {
	return PlanQueryAt(preferences, opts, time.Now().UTC())
}

// PlanQueryAt maps normalized preferences and date options onto a provider
// request. The first preference (by position, not lexicographic order) that
// matches a headline category selects the headline branch; otherwise the
// search branch joins all preferences with " OR ". Date window resolution
// order: explicit from+to, explicit from with to defaulted to today, a Days
// count back from today, then the default window of the last 7 days.
func PlanQueryAt(preferences []string, opts PlanOptions, now time.Time) QueryPlan {
	normalized := NormalizePreferences(preferences)

	for _, pref := range normalized {
		if utils.ContainsString(topHeadlineCategories, pref) {
			return QueryPlan{
				Endpoint: EndpointTopHeadlines,
				Params: map[string]string{
					"category": pref,
					"country":  "us",
					"pageSize": "20",
				},
				CacheSuffix: "category:" + pref,
			}
		}
	}

	query := defaultQuery
	joined := "default"
	if len(normalized) > 0 {
		query = strings.Join(normalized, " OR ")
		joined = strings.Join(normalized, "|")
	}

	from, to := resolveWindow(opts, now)
	return QueryPlan{
		Endpoint: EndpointEverything,
		Params: map[string]string{
			"q":        query,
			"from":     from,
			"to":       to,
			"language": "en",
			"sortBy":   "popularity",
			"pageSize": "20",
		},
		CacheSuffix: "search:" + joined + ":" + from + ":" + to,
	}
}

// resolveWindow applies the date-range resolution order. The window is
// encoded into the cache suffix, so distinct windows never share an entry.
func resolveWindow(opts PlanOptions, now time.Time) (from, to string) {
	today := now.UTC().Format(dateLayout)

	if isISODate(opts.From) && isISODate(opts.To) {
		return opts.From, opts.To
	}
	if isISODate(opts.From) {
		return opts.From, today
	}
	if opts.Days > 0 {
		return now.UTC().AddDate(0, 0, -opts.Days).Format(dateLayout), today
	}
	return now.UTC().AddDate(0, 0, -defaultWindowDays).Format(dateLayout), today
}

// isISODate accepts exactly YYYY-MM-DD, nothing looser.
func isISODate(s string) bool {
	if s == "" {
		return false
	}
	t, err := time.Parse(dateLayout, s)
	return err == nil && t.Format(dateLayout) == s
}
