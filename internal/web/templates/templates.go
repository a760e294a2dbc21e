// Package templates embeds the HTML page templates rendered by the web server.
package templates

import "embed"

//go:embed base.html pages/*.html
var FS embed.FS
