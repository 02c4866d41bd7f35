package enrich

import "fmt"

const socialPreviewTemplate = "https://opengraph.githubassets.com/1/%s/%s"

// SocialPreviewURL returns the GitHub-generated Open Graph image for a
// repository. It performs no I/O.
func SocialPreviewURL(owner, repo string) string {
	return fmt.Sprintf(socialPreviewTemplate, owner, repo)
}
