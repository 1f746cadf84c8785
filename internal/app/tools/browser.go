package tools

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PabloGalante/ruhaan-agent/internal/domain"
)

const (
	googleHome  = "https://www.google.com"
	youtubeHome = "https://www.youtube.com"
)

var (
	googleQueryPatterns = []*regexp.Regexp{
		regexp.MustCompile(`open google and search for (.+)`),
		regexp.MustCompile(`google and search for (.+)`),
		regexp.MustCompile(`open google and search (.+)`),
		regexp.MustCompile(`google and search (.+)`),
		regexp.MustCompile(`search google for (.+)`),
		regexp.MustCompile(`search on google for (.+)`),
		regexp.MustCompile(`google search for (.+)`),
		regexp.MustCompile(`google (.+)`),
	}
	googleTrailing = regexp.MustCompile(`\s+(?:please|now|today)$`)
	googleStop     = wordSet("search", "google", "find", "open", "show", "look", "on", "for", "about",
		"up", "in", "and", "the", "a", "an", "which", "that", "information",
		"please", "can", "you", "me", "i", "want", "to", "go", "visit", "check",
		"chrome", "browser")

	youtubeQueryPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:youtube|open youtube)(?:\s+and)?\s+search\s+for\s+(.+)`),
		regexp.MustCompile(`search\s+youtube\s+for\s+(.+)`),
		regexp.MustCompile(`search\s+for\s+(.+?)(?:\s+on\s+youtube|$)`),
		regexp.MustCompile(`find\s+(.+?)(?:\s+on\s+youtube|$)`),
		regexp.MustCompile(`show\s+me\s+(.+?)(?:\s+on\s+youtube|$)`),
		regexp.MustCompile(`youtube\s+(.+)`),
	}
	youtubeNoise = wordSet("search", "find", "open", "show", "watch", "play", "tell", "gives", "get",
		"youtube", "video", "videos", "channel", "channels", "content",
		"me", "please", "want", "to", "a", "an", "the", "is", "are",
		"and", "or", "but", "for", "on", "in", "with", "of", "about")
	youtubeSearchHints = []string{
		"search", "find", "show", "channel", "video", "watch", "about",
		"tell", "explain", "discuss", "want to watch", "looking for",
		"content", "topic", "subject", "learn", "tutorial", "how to",
	}

	websitePattern = regexp.MustCompile(`(?i)open (?:website |site |url )?(.+)`)

	// Hindi names of the sites, read as their English spelling before matching.
	hindiSiteNames = strings.NewReplacer(
		"यूट्यूब", "youtube", "युट्युब", "youtube",
		"गूगल", "google", "क्रोम", "chrome",
		"खोलो", "open", "खोल", "open",
	)
)

// BrowserTool opens Chrome, Google and YouTube searches or websites.
type BrowserTool struct {
	launcher domain.BrowserLauncher
}

func NewBrowserTool(launcher domain.BrowserLauncher) *BrowserTool {
	return &BrowserTool{launcher: launcher}
}

func (t *BrowserTool) Name() string { return "browser" }

func (t *BrowserTool) Description() string {
	return "Open Chrome tabs, search Google/YouTube, open websites (e.g., 'open chrome', 'search google for AI', 'search youtube channel')."
}

func (t *BrowserTool) Call(ctx context.Context, _ ToolContext, command string) (string, error) {
	command = strings.TrimSpace(hindiSiteNames.Replace(command))
	lower := strings.ToLower(command)

	target, reply := t.route(command, lower)
	if target == "" {
		return reply, nil
	}
	if err := t.launcher.Open(ctx, target); err != nil {
		return "", fmt.Errorf("browser: open %s: %w", target, err)
	}
	return reply, nil
}

// route picks the URL to open and the reply. An empty URL means nothing is opened.
func (t *BrowserTool) route(command, lower string) (string, string) {
	switch {
	case strings.Contains(lower, "open chrome") || strings.Contains(lower, "open browser"):
		if containsAny(lower, "google", "search") {
			if q := ExtractGoogleQuery(command); q != "" {
				return googleSearchURL(q), "Opened Google search for: " + q
			}
			return googleHome, "Opened Google in Chrome"
		}
		return googleHome, "Opened Chrome with Google homepage"

	case strings.HasPrefix(lower, "chrome") && containsAny(lower, "search", "for"):
		if q := ExtractGoogleQuery(command); q != "" {
			return googleSearchURL(q), "Opened Chrome and searched Google for: " + q
		}
		return googleHome, "Opened Chrome with Google homepage"

	case containsAny(lower, "search on google", "google search", "search google", "open google and search", "google and search"):
		if q := ExtractGoogleQuery(command); q != "" {
			return googleSearchURL(q), "Opened Google search for: " + q
		}
		return googleHome, "Opened Google homepage"

	case strings.HasPrefix(lower, "google") && containsAny(lower, "search", "for"):
		if q := ExtractGoogleQuery(command); q != "" {
			return googleSearchURL(q), "Opened Google and searched for: " + q
		}
		return googleHome, "Opened Google homepage"

	case strings.Contains(lower, "youtube"):
		if !containsAny(lower, youtubeSearchHints...) && len(strings.Fields(command)) <= 3 {
			return youtubeHome, "Opened YouTube"
		}
		q := ExtractYouTubeQuery(command)
		if len([]rune(q)) <= 2 {
			return youtubeHome, "Opened YouTube homepage"
		}
		return "https://www.youtube.com/results?search_query=" + url.QueryEscape(q), "Opened YouTube search for: " + q

	case strings.Contains(lower, "open") && containsAny(lower, "website", "url", "site"):
		if site, ok := firstSubmatch(command, websitePattern); ok && site != "" {
			site = WebsiteURL(site)
			return site, "Opened: " + site
		}
	}
	return "", "I can open Chrome, search Google, search YouTube, or open websites. Try: 'open chrome', 'search google for AI', 'search youtube channel', 'open website github.com'"
}

// ExtractGoogleQuery pulls the search terms out of a Google command. It tries the known phrasings
// first and falls back to dropping command words.
func ExtractGoogleQuery(command string) string {
	lower := strings.ToLower(strings.TrimSpace(command))

	for _, re := range googleQueryPatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			q := googleTrailing.ReplaceAllString(strings.TrimSpace(m[1]), "")
			if q != "" {
				return q
			}
		}
	}

	var kept []string
	for _, w := range strings.Fields(command) {
		clean := cleanWord(w)
		if _, stop := googleStop[clean]; stop {
			continue
		}
		n := len([]rune(clean))
		if n > 1 || (n == 1 && unicode.IsLetter([]rune(clean)[0])) {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// ExtractYouTubeQuery pulls the search terms out of a YouTube command, defaulting to trending videos.
func ExtractYouTubeQuery(command string) string {
	lower := strings.ToLower(strings.TrimSpace(command))

	for _, re := range youtubeQueryPatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			return strings.TrimSpace(m[1])
		}
	}

	var kept []string
	for _, w := range strings.Fields(command) {
		clean := cleanWord(w)
		if _, noise := youtubeNoise[clean]; noise || len([]rune(clean)) <= 1 {
			continue
		}
		kept = append(kept, w)
	}
	if len(kept) == 0 {
		return "trending videos"
	}
	return strings.Join(kept, " ")
}

// WebsiteURL turns a site name into a URL. Bare words become a Google search.
func WebsiteURL(site string) string {
	site = strings.TrimSpace(site)
	switch {
	case strings.HasPrefix(site, "http://"), strings.HasPrefix(site, "https://"):
		return site
	case strings.Contains(site, "."):
		return "https://" + site
	default:
		return googleSearchURL(site)
	}
}

func googleSearchURL(q string) string {
	return googleHome + "/search?q=" + url.QueryEscape(q)
}

func cleanWord(w string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return unicode.ToLower(r)
		}
		return -1
	}, w)
}

func wordSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
