package handlers

import (
	"strings"

	"inkfeed/internal/models"
)

const (
	maxTitleLen   = 160
	maxBodyLen    = 100_000
	maxCommentLen = 4_000
)

// validatePost checks an editor submission before any upstream call.
// Returns an empty string when valid, a user-facing message otherwise.
func validatePost(title, body string) string {
	switch {
	case strings.TrimSpace(title) == "":
		return "A title is required."
	case len(title) > maxTitleLen:
		return "The title is too long."
	case strings.TrimSpace(body) == "":
		return "The post body cannot be empty."
	case len(body) > maxBodyLen:
		return "The post body is too long."
	}
	return ""
}

// validateComment checks a comment or reply before any upstream call.
func validateComment(content string) string {
	switch {
	case strings.TrimSpace(content) == "":
		return "A comment cannot be empty."
	case len(content) > maxCommentLen:
		return "The comment is too long."
	}
	return ""
}

// splitTags turns the editor's comma-separated tag line into a clean
// list: trimmed, lowercased, empties dropped.
func splitTags(line string) []string {
	var tags []string
	for _, t := range strings.Split(line, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// tagLine renders a post's tags back into the editor's comma-separated
// form field.
func tagLine(post *models.Post) string {
	names := make([]string, 0, len(post.Tags))
	for _, t := range post.Tags {
		names = append(names, t.Name)
	}
	return strings.Join(names, ", ")
}
