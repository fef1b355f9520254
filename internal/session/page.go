package session

import "strings"

// Page is one of the fixed navigation targets.
type Page string

const (
	PageHome      Page = "home"
	PageAnalyzer  Page = "analyzer"
	PageBuilder   Page = "builder"
	PageDashboard Page = "dashboard"
	PageJobSearch Page = "job_search"
	PageFeedback  Page = "feedback"
	PageAbout     Page = "about"
)

var pages = []Page{
	PageHome,
	PageAnalyzer,
	PageBuilder,
	PageDashboard,
	PageJobSearch,
	PageFeedback,
	PageAbout,
}

var pageTitles = map[Page]string{
	PageHome:      "Home",
	PageAnalyzer:  "Analyzer",
	PageBuilder:   "Builder",
	PageDashboard: "Dashboard",
	PageJobSearch: "Job Search",
	PageFeedback:  "Feedback",
	PageAbout:     "About",
}

// Pages returns the navigation order.
func Pages() []Page {
	out := make([]Page, len(pages))
	copy(out, pages)
	return out
}

// ParsePage maps a raw value onto the enumeration. Unknown values fall back
// to home.
func ParsePage(raw string) Page {
	candidate := Page(strings.ToLower(strings.TrimSpace(raw)))
	for _, p := range pages {
		if p == candidate {
			return p
		}
	}
	return PageHome
}

func (p Page) Title() string {
	if title, ok := pageTitles[p]; ok {
		return title
	}
	return pageTitles[PageHome]
}
