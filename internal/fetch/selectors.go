package fetch

import (
	"net/url"
	"strings"
)

// DefaultTextSelectors returns standard selectors for general web content.
func DefaultTextSelectors() []string {
	return []string{
		"main",
		"article",
		".content",
		"#content",
		".main-content",
		"#main-content",
	}
}

// jobPostingSelectors covers the generic job-board markup conventions.
var jobPostingSelectors = []string{
	".job-description",
	".job-content",
	"#job-description",
	"#job-content",
	".posting-content",
	".job-details",
	"[data-testid='job-description']",
	"main",
	"article",
	".content",
	"#content",
}

// commonNoiseSelectors strips application forms, EEO boilerplate, and
// share widgets that drown out the actual posting text.
var commonNoiseSelectors = []string{
	"form",
	"#application-form",
	".application-form",
	".apply-button-container",
	".voluntary-disclosure",
	".eeo-statement",
	".self-identification",
	".social-share",
	".share-buttons",
	".cookie-consent",
	".gdpr-notice",
}

// SelectorsFor picks content and noise selectors for a URL based on its
// host. The major applicant-tracking systems get tuned selectors; every
// other host gets the generic job-posting set.
func SelectorsFor(urlStr string) (content []string, noise []string) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return jobPostingSelectors, commonNoiseSelectors
	}
	host := strings.ToLower(parsed.Host)

	switch {
	case strings.Contains(host, "greenhouse.io"):
		return []string{".job__description.body", ".job__description", "#content"},
			append([]string{".application--wrapper", ".post-apply"}, commonNoiseSelectors...)
	case strings.Contains(host, "lever.co"):
		return []string{".posting-page", ".posting-description", ".content"},
			append([]string{".apply-section", ".posting-apply"}, commonNoiseSelectors...)
	case strings.Contains(host, "workday.com"), strings.Contains(host, "myworkdayjobs.com"):
		return []string{"[data-automation-id='jobDescription']", ".job-description"},
			append([]string{"[data-automation-id='applyButton']"}, commonNoiseSelectors...)
	default:
		return jobPostingSelectors, commonNoiseSelectors
	}
}
