// Package urls provides centralized constants for the documentation URLs
// shown to users in CLI output, the TUI header and the bridge index page.
//
// Usage:
//
//	import "github.com/muurk/ledlink/internal/urls"
//
//	fmt.Printf("For more information, see: %s\n", urls.TroubleshootingGuide)
package urls
